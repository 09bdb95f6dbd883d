package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// best-effort: a missing .env leaves the real environment in charge
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
