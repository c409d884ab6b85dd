package main

import (
	"os"

	"github.com/joho/godotenv"

	"travelscraper/offerworker/cmd"
)

func main() {
	// .env is optional; the environment always wins
	godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
