package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	allocerrors "fleetalloc/internal/allocations/errors"
	"fleetalloc/pkg/config"
	"fleetalloc/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Allocations"

	// History reads are unbounded by pagination, so cap the result set.
	maxHistoryResults = 1000
)

type AllocationRepository interface {
	Insert(ctx context.Context, allocation *model.Allocation) error
	FindByID(ctx context.Context, id string) (*model.Allocation, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Allocation, error)
	Count(ctx context.Context) (int64, error)
	Replace(ctx context.Context, id string, allocation *model.Allocation) (*model.Allocation, error)
	Delete(ctx context.Context, id string) error
	FindByFilter(ctx context.Context, filter model.AllocationHistoryFilter) ([]*model.Allocation, error)
	FindActiveByEmployee(ctx context.Context, employeeID int, since time.Time, excludeID string) (*model.Allocation, error)
	FindByVehicleAndDate(ctx context.Context, vehicleID int, date time.Time, excludeID string) (*model.Allocation, error)
	FindNextByVehicle(ctx context.Context, vehicleID int, asOf time.Time) (*model.Allocation, error)
	FindNextByEmployee(ctx context.Context, employeeID int, asOf time.Time) (*model.Allocation, error)
}

type mongoAllocationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAllocationRepository(cfg *config.Config) AllocationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAllocationRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a per-operation timeout unless the
// caller's deadline is already tighter.
func (r *mongoAllocationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAllocationRepository) Insert(ctx context.Context, allocation *model.Allocation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	allocation.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, allocation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return allocerrors.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert allocation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		allocation.ID = oid
	}
	return nil
}

func (r *mongoAllocationRepository) FindByID(ctx context.Context, id string) (*model.Allocation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", allocerrors.ErrInvalidID, id)
	}

	var allocation model.Allocation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&allocation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, allocerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find allocation: %w", err)
	}

	return &allocation, nil
}

func (r *mongoAllocationRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Allocation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find allocations: %w", err)
	}
	defer cursor.Close(ctx)

	var allocations []*model.Allocation
	if err = cursor.All(ctx, &allocations); err != nil {
		return nil, fmt.Errorf("failed to decode allocations: %w", err)
	}

	return allocations, nil
}

func (r *mongoAllocationRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count allocations: %w", err)
	}

	return count, nil
}

func (r *mongoAllocationRepository) Replace(ctx context.Context, id string, allocation *model.Allocation) (*model.Allocation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", allocerrors.ErrInvalidID, id)
	}

	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var replaced model.Allocation
	err = r.collection.FindOneAndReplace(ctx, bson.M{"_id": objectID}, allocation, opts).Decode(&replaced)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, allocerrors.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, allocerrors.ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to replace allocation: %w", err)
	}

	return &replaced, nil
}

func (r *mongoAllocationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", allocerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete allocation: %w", err)
	}

	if result.DeletedCount == 0 {
		return allocerrors.ErrNotFound
	}

	return nil
}

func (r *mongoAllocationRepository) FindByFilter(ctx context.Context, filter model.AllocationHistoryFilter) ([]*model.Allocation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := bson.M{}
	if filter.EmployeeID != nil {
		query["employee_id"] = *filter.EmployeeID
	}
	if filter.VehicleID != nil {
		query["vehicle_id"] = *filter.VehicleID
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		dateRange := bson.M{}
		if filter.StartDate != nil {
			dateRange["$gte"] = *filter.StartDate
		}
		if filter.EndDate != nil {
			dateRange["$lte"] = *filter.EndDate
		}
		query["allocation_date"] = dateRange
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "allocation_date", Value: 1}}).
		SetLimit(maxHistoryResults)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find allocation history: %w", err)
	}
	defer cursor.Close(ctx)

	var allocations []*model.Allocation
	if err = cursor.All(ctx, &allocations); err != nil {
		return nil, fmt.Errorf("failed to decode allocation history: %w", err)
	}

	return allocations, nil
}

// FindActiveByEmployee returns any allocation for the employee dated at or
// after since, or nil when none exists. excludeID, when set, ignores the
// record under update.
func (r *mongoAllocationRepository) FindActiveByEmployee(ctx context.Context, employeeID int, since time.Time, excludeID string) (*model.Allocation, error) {
	query := bson.M{
		"employee_id":     employeeID,
		"allocation_date": bson.M{"$gte": since},
	}
	return r.findOne(ctx, query, excludeID, nil)
}

// FindByVehicleAndDate returns any allocation for the vehicle with the exact
// same date-time, or nil when none exists.
func (r *mongoAllocationRepository) FindByVehicleAndDate(ctx context.Context, vehicleID int, date time.Time, excludeID string) (*model.Allocation, error) {
	query := bson.M{
		"vehicle_id":      vehicleID,
		"allocation_date": date,
	}
	return r.findOne(ctx, query, excludeID, nil)
}

// FindNextByVehicle returns the vehicle's nearest future allocation. Sorting
// by date ascending makes the pick deterministic even if the write-time
// invariants were ever violated.
func (r *mongoAllocationRepository) FindNextByVehicle(ctx context.Context, vehicleID int, asOf time.Time) (*model.Allocation, error) {
	query := bson.M{
		"vehicle_id":      vehicleID,
		"allocation_date": bson.M{"$gt": asOf},
	}
	sort := bson.D{{Key: "allocation_date", Value: 1}}
	return r.findOne(ctx, query, "", sort)
}

func (r *mongoAllocationRepository) FindNextByEmployee(ctx context.Context, employeeID int, asOf time.Time) (*model.Allocation, error) {
	query := bson.M{
		"employee_id":     employeeID,
		"allocation_date": bson.M{"$gt": asOf},
	}
	sort := bson.D{{Key: "allocation_date", Value: 1}}
	return r.findOne(ctx, query, "", sort)
}

func (r *mongoAllocationRepository) findOne(ctx context.Context, query bson.M, excludeID string, sort bson.D) (*model.Allocation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if excludeID != "" {
		objectID, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", allocerrors.ErrInvalidID, excludeID)
		}
		query["_id"] = bson.M{"$ne": objectID}
	}

	opts := options.FindOne()
	if sort != nil {
		opts = opts.SetSort(sort)
	}

	var allocation model.Allocation
	err := r.collection.FindOne(ctx, query, opts).Decode(&allocation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find allocation: %w", err)
	}

	return &allocation, nil
}
