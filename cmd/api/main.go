package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"notesapi/internal/config"
	"notesapi/internal/database"
	"notesapi/internal/middleware"
	"notesapi/internal/modules/auth"
	"notesapi/internal/modules/notes"
	"notesapi/internal/pkg/mailer"
	"notesapi/internal/pkg/password"
	"notesapi/internal/pkg/token"
	"notesapi/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}

	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	tokens := token.New(cfg.JWTSecret, cfg.AccessTokenTTL)
	hasher := password.NewHasher(cfg.BcryptCost)

	var m mailer.Mailer
	if cfg.SMTPHost == "" {
		log.Println("SMTP_HOST not set, password reset emails go to the log")
		m = mailer.NewConsoleMailer(cfg.FrontendURL)
	} else {
		m = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.FrontendURL)
	}

	authService := auth.NewService(
		userRepo, refreshRepo, tokens, hasher, m,
		cfg.RefreshTokenTTL, cfg.RefreshTokenTTLRemember, cfg.ResetTokenTTL,
	)
	authHandler := auth.NewHandler(authService, noteRepo, cfg.CookieSecure, cfg.CookieSameSite, cfg.CookiePath)

	notesService := notes.NewService(noteRepo)
	notesHandler := notes.NewHandler(notesService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		notesHandler.RegisterPublicRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(tokens, userRepo))
		{
			authHandler.RegisterProtectedRoutes(protected)
			notesHandler.RegisterProtectedRoutes(protected, middleware.NoteOwnership(noteRepo))
		}
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
