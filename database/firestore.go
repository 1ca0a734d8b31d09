package database

import (
	"context"
	"fmt"
	"os"

	"coursemate_backend/internal/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// ConnectFirestore создает клиент Firestore через Firebase Admin SDK.
// При FIRESTORE_EMULATOR_HOST клиент сам ходит в эмулятор.
func ConnectFirestore(ctx context.Context, cfg *config.Config) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" && os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init firestore: %w", err)
	}
	return client, nil
}
