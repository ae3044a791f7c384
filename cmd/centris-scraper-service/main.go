package main

import (
	"log"
	"os"

	"centris-scraper-service/internal"
	"centris-scraper-service/internal/seed"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "seed-mongo" {
		if err := seed.RunMongoHarness(); err != nil {
			log.Fatalf("Seed harness failed: %v", err)
		}
		return
	}

	application, err := internal.NewApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Application run failed: %v", err)
	}
}
