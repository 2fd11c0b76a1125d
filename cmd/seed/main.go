// Command seed prepares a fresh database for first use: it inserts every
// skill from the catalog in the disabled state and creates an empty
// profile row. Safe to run repeatedly; existing rows are left alone.
//
// Requires DATABASE_DSN to be set (a .env file is loaded if present).
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"

	"github.com/avoronkov/portfolio-backend/internal/domain"
)

func main() {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	inserted := 0
	for _, label := range domain.SkillCatalog {
		tag, err := pool.Exec(ctx,
			"INSERT INTO skills (name, is_enabled) VALUES ($1, false) ON CONFLICT (name) DO NOTHING",
			label,
		)
		if err != nil {
			log.Fatalf("seed skill %q: %v", label, err)
		}
		inserted += int(tag.RowsAffected())
	}

	var profiles int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM profile").Scan(&profiles); err != nil {
		log.Fatalf("count profiles: %v", err)
	}
	if profiles == 0 {
		if _, err := pool.Exec(ctx, "INSERT INTO profile DEFAULT VALUES"); err != nil {
			log.Fatalf("seed profile: %v", err)
		}
		fmt.Println("Created empty profile row.")
	}

	fmt.Printf("Seeded %d new skills (%d already present).\n", inserted, len(domain.SkillCatalog)-inserted)
}
