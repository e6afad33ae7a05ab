package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	mongoMigration "galleria/internal/migrations/mongo"
	"galleria/pkg/client"
	"galleria/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg, err := config.Load(JobName)
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	mongoClient, err := client.NewMongoClient(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(mongoClient, cfg)

	if err := mongoMigration.RunMigration(ctx, mongoClient, cfg.MongoDatabase); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	if os.Getenv("SKIP_SEED") == "" {
		if err := mongoMigration.RunSeed(ctx, mongoClient, cfg.MongoDatabase); err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	fmt.Println("🎉 Migration completed.")
}
