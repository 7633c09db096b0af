package main

import (
	"github.com/joho/godotenv"

	"semdex/internal/cli"
)

func main() {
	// Load .env file if it exists (for API key)
	_ = godotenv.Load()

	cli.Execute()
}
