package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signupForm struct {
	Name            string `json:"name" validate:"required,min=2,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=128,passwordchars"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func TestValidate_AllRulesPass(t *testing.T) {
	errs := Validate(signupForm{
		Name:            "Alice",
		Email:           "alice@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	assert.Nil(t, errs)
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	errs := Validate(signupForm{
		Name:            "A",
		Email:           "not-an-email",
		Password:        "short",
		ConfirmPassword: "different",
	})

	assert.Len(t, errs, 4)

	byField := map[string]string{}
	for _, fe := range errs {
		byField[fe.Field] = fe.Message
	}
	assert.Equal(t, "Name must be at least 2 characters long", byField["name"])
	assert.Equal(t, "Please enter a valid email address", byField["email"])
	assert.Equal(t, "Password must be at least 8 characters long", byField["password"])
	assert.Equal(t, "Password confirmation does not match password", byField["confirmPassword"])
}

func TestValidate_RequiredUsesJSONName(t *testing.T) {
	errs := Validate(signupForm{})

	byField := map[string]string{}
	for _, fe := range errs {
		byField[fe.Field] = fe.Message
	}
	assert.Equal(t, "Name is required", byField["name"])
	assert.Equal(t, "Email is required", byField["email"])
	assert.Equal(t, "Password confirmation is required", byField["confirmPassword"])
}

func TestValidate_PasswordCharacterRule(t *testing.T) {
	type form struct {
		Password string `json:"password" validate:"passwordchars"`
	}

	assert.Nil(t, Validate(form{Password: "abc12345"}))

	errs := Validate(form{Password: "onlyletters"})
	assert.Len(t, errs, 1)
	assert.Equal(t, "Password must contain at least one letter and one number", errs[0].Message)

	errs = Validate(form{Password: "12345678"})
	assert.Len(t, errs, 1)
}
