package bootstrap

import (
	"context"
	"fmt"

	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/clients"
	"github.com/spacesedan/feedbackflow/internal/db"
)

// FeedbackStore opens the configured store. The returned func closes the
// underlying connection.
func FeedbackStore(ctx context.Context, cfg config.Config) (db.FeedbackStore, func(), error) {
	switch cfg.FeedbackStore {
	case config.StoreDynamoDB:
		awsCfg, err := clients.LoadAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, nil, err
		}
		client := clients.NewDynamoDBClient(awsCfg, cfg.AWSEndpoint)
		return db.NewDynamoStore(client, cfg.DynamoTable), func() {}, nil
	case config.StorePostgres:
		pg, err := clients.NewPostgresClient(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db.NewPostgresStore(pg.DB), pg.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown feedback store %q", cfg.FeedbackStore)
	}
}
