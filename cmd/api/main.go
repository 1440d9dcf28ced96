package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/jdelacroix/hackernews-clone/backend/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading config from environment")
	}

	srv := server.NewServer()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
}
