package mongoUtil

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second // if connection time > 10s, then timeout

// Connect dials the cluster and verifies it with a ping. The caller owns
// the returned client: the API holds it for the process lifetime, the
// ETL jobs open and close one per run.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	// ping verifies a usable connection before anything is read or written
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Disconnect closes the client, bounded so shutdown cannot hang.
func Disconnect(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}
