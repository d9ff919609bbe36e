package repository

import (
	"context"
	"fmt"
	"time"

	"fleetalloc/pkg/config"
	"fleetalloc/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Employees"

type EmployeeRepository interface {
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Employee, error)
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, employees []*model.Employee) (int, error)
}

type mongoEmployeeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoEmployeeRepository(cfg *config.Config) EmployeeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoEmployeeRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoEmployeeRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoEmployeeRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Employee, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find employees: %w", err)
	}
	defer cursor.Close(ctx)

	var employees []*model.Employee
	if err = cursor.All(ctx, &employees); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}

	return employees, nil
}

func (r *mongoEmployeeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}

	return count, nil
}

func (r *mongoEmployeeRepository) InsertMany(ctx context.Context, employees []*model.Employee) (int, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	docs := make([]any, 0, len(employees))
	for _, e := range employees {
		docs = append(docs, e)
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert employees: %w", err)
	}

	return len(result.InsertedIDs), nil
}
