// Command server runs the portfolio backend HTTP server.
//
// Configuration is read from CONFIG_PATH (default ./config.yaml) with
// environment variables taking precedence. A .env file in the working
// directory is loaded automatically if present.
package main

import (
	"context"
	"log"

	_ "github.com/joho/godotenv/autoload"

	"github.com/avoronkov/portfolio-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
