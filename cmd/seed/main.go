package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/adisatriyo/inventory-api/config"
	"github.com/adisatriyo/inventory-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	username := "demo"
	password := "demo-secret"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET updated_at = now()
		RETURNING id
	`, username, hash).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s username=%s password=%s\n", userID, username, password)

	var categoryID int64
	err = db.QueryRow(`
		INSERT INTO categories (attributes)
		VALUES ('{"name": "Tools"}'::jsonb)
		RETURNING id
	`).Scan(&categoryID)
	if err != nil {
		log.Fatalf("failed to seed category: %v", err)
	}
	fmt.Printf("seeded category: id=%d\n", categoryID)

	var productID int64
	err = db.QueryRow(`
		INSERT INTO products (name, qty, category_id, url, created_by, updated_by)
		VALUES ('Hammer', 3, $1, 'http://example.com/hammer', $2, $2)
		RETURNING id
	`, categoryID, username).Scan(&productID)
	if err != nil {
		log.Fatalf("failed to seed product: %v", err)
	}
	fmt.Printf("seeded product: id=%d category=%d\n", productID, categoryID)
}
