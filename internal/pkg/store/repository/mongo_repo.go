package repository

import (
	"context"

	"loan-approval-metrics/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository[T any] struct {
	collection interfaces.MongoRepositoryInterface
}

func NewMongoRepository[T any](collection interfaces.MongoRepositoryInterface) *MongoRepository[T] {
	return &MongoRepository[T]{collection: collection}
}

// Read a document by filter
func (r *MongoRepository[T]) FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (T, error) {
	var result T
	if err := r.collection.FindOne(ctx, filter, opt).Decode(&result); err != nil {
		return result, err
	}
	return result, nil
}

func (r *MongoRepository[T]) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	results := make([]T, 0)
	for cursor.Next(ctx) {
		var entity T
		if err := cursor.Decode(&entity); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateOne applies update as a $set on the first document matching filter.
func (r *MongoRepository[T]) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return r.collection.UpdateOne(ctx, filter, bson.M{"$set": update})
}
