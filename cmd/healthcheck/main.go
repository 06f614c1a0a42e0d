package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/habitstack/stickerdb/internal/config"
	"github.com/habitstack/stickerdb/internal/database"
	"github.com/habitstack/stickerdb/internal/services"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open the local store medium
	localDB, err := database.ConnectLocal(cfg)
	if err != nil {
		log.Fatalf("Failed to open local database: %v", err)
	}
	defer database.Close(localDB)

	// Connect to the remote database only when configured
	var remoteDB *gorm.DB
	if cfg.RemoteEnabled() {
		remoteDB, err = database.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close(remoteDB)
	}

	// Perform health check
	result := services.HealthCheck(cfg, localDB, remoteDB)

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	// Exit with appropriate code
	if result.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
