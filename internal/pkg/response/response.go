package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, statusCode int, message string, data any) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(statusCode, body)
}

func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"message": message,
	})
}

// ValidationError carries one entry per violated field rule.
func ValidationError(c *gin.Context, statusCode int, errors any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  errors,
	})
}
