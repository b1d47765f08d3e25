package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoDialer returns a DialFunc that connects a client and pings the primary.
func MongoDialer(uri string, maxConns int, timeout time.Duration) DialFunc[*mongo.Client] {
	return func(ctx context.Context) (*mongo.Client, error) {
		opts := options.Client().
			ApplyURI(uri).
			SetConnectTimeout(timeout).
			SetServerSelectionTimeout(timeout)

		if maxConns > 0 {
			opts.SetMaxPoolSize(uint64(maxConns))
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, err
		}

		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}

		return client, nil
	}
}

// NewMongoManager leaves Options.Healthy unset for the same reason as NewPostgresManager: the
// driver monitors its servers and redials, and a failed readiness ping calls Invalidate.
func NewMongoManager(uri string, maxConns int, timeout time.Duration) *Manager[*mongo.Client] {
	return NewManager(MongoDialer(uri, maxConns, timeout), Options[*mongo.Client]{
		Name: "mongo",
		Close: func(c *mongo.Client) {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			_ = c.Disconnect(ctx)
		},
	})
}
