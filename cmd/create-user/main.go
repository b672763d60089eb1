// Command create-user writes a user profile item. Users are provisioned
// out-of-band; the API never creates them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	dynamodbsdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"notemap-backend/domain/core/entities"
	"notemap-backend/infrastructure/config"
	dynamorepo "notemap-backend/infrastructure/persistence/dynamodb"
)

func main() {
	_ = godotenv.Load()

	var (
		id    = flag.String("id", "", "user id (generated when empty)")
		email = flag.String("email", "", "user email (required)")
		name  = flag.String("name", "", "display name")
	)
	flag.Parse()

	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	userID := *id
	if userID == "" {
		userID = uuid.New().String()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatalf("failed to load AWS configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	users := dynamorepo.NewUserRepository(dynamodbsdk.NewFromConfig(awsCfg), cfg.DynamoDBTable, logger)

	user, err := entities.NewUser(userID, *email, *name)
	if err != nil {
		log.Fatalf("invalid user: %v", err)
	}

	if err := users.Save(ctx, user); err != nil {
		log.Fatalf("failed to save user: %v", err)
	}

	fmt.Println(userID)
}
