package main

import (
	"log"
	"os"

	"notesapi/internal/database"
	"notesapi/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "notes.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM refresh_tokens")
	db.Exec("DELETE FROM notes")
	db.Exec("DELETE FROM users")

	log.Println("Creating demo user...")
	hash, _ := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	demo := domain.User{
		Name:         "Demo User",
		Email:        "demo@notes.local",
		PasswordHash: string(hash),
	}
	if err := db.Create(&demo).Error; err != nil {
		log.Fatal("creating demo user failed:", err)
	}

	log.Println("Creating demo notes...")
	shareSlug := "11111111-2222-3333-4444-555555555555"
	seedNotes := []domain.Note{
		{
			OwnerID: demo.ID,
			Title:   "Welcome to Notes",
			Content: "This is your first note. Edit it, tag it, archive it, or move it to the trash.",
			Tags:    []string{"welcome"},
		},
		{
			OwnerID: demo.ID,
			Title:   "Shopping list",
			Content: "Milk, bread, coffee",
			Tags:    []string{"personal", "todo"},
		},
		{
			OwnerID:   demo.ID,
			Title:     "Shared example",
			Content:   "This note is publicly readable through its share link.",
			Tags:      []string{"welcome"},
			ShareSlug: &shareSlug,
		},
		{
			OwnerID:  demo.ID,
			Title:    "Old meeting notes",
			Content:  "Archived: action items from the spring planning meeting.",
			Tags:     []string{"work"},
			Archived: true,
		},
	}
	for i := range seedNotes {
		if err := db.Create(&seedNotes[i]).Error; err != nil {
			log.Fatal("creating demo note failed:", err)
		}
	}

	log.Printf("seed completed: user=%s password=demo1234 notes=%d", demo.Email, len(seedNotes))
}
