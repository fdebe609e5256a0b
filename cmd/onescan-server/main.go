package main

import (
	"log"
	"os"

	"github.com/existflow/onescan/server"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Without DATABASE_URL the check-in record log lives in memory.
	dbURL := os.Getenv("DATABASE_URL")

	srv, err := server.New(dbURL, nil)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	log.Printf("OneScan relay server starting on :%s", port)
	if err := srv.Start(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
