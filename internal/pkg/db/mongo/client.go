package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConnector opens and checks a client. Tests swap it for a mock.
type MongoConnector interface {
	Connect(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error)
	Ping(ctx context.Context, client *mongo.Client) error
}

// driverConnector is the MongoConnector backed by the driver.
type driverConnector struct{}

func (driverConnector) Connect(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
	return mongo.Connect(ctx, opts)
}

// Ping checks the primary, since loan decisions are written there.
// The client is disconnected when the ping fails.
func (driverConnector) Ping(ctx context.Context, client *mongo.Client) error {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return err
	}
	return nil
}
