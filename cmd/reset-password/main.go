package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go-inventory-pos/internal/config"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	username := flag.String("user", "admin", "username whose password is reset")
	password := flag.String("password", "", "new password (defaults to $RESET_PASSWORD)")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	if *password == "" {
		*password = os.Getenv("RESET_PASSWORD")
	}
	if *password == "" {
		log.Fatal("a new password is required: -password or RESET_PASSWORD")
	}

	// 2. Setup Database
	db := database.ConnectDB(cfg.Database)

	// 3. Reset
	users := service.NewUserService(repository.NewUserRepo(db))
	if err := users.ResetPassword(context.Background(), *username, *password); err != nil {
		log.Fatalf("Failed to reset password for %s: %v", *username, err)
	}

	log.Printf("Password for %s has been reset", *username)
}
