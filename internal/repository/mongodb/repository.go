package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/autovalue/internal/config"
	"github.com/mamadbah2/autovalue/internal/domain/models"
)

// Repository defines the document-store operations used by the valuation
// pipeline. Records are write-once: there is no update or delete path.
type Repository interface {
	CreateCar(ctx context.Context, car models.CarValuation) error
	ListCars(ctx context.Context) ([]models.CarValuation, error)
}

// CarRepository implements Repository against a MongoDB-protocol endpoint
// (Cosmos DB's MongoDB API in production).
type CarRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewCarRepository connects to the document store and verifies the
// connection with a ping.
func NewCarRepository(ctx context.Context, cfg config.CosmosConfig) (*CarRepository, error) {
	clientOptions := options.Client().ApplyURI(cfg.ConnectionString)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping document store: %w", err)
	}

	return &CarRepository{
		client:   client,
		dbName:   cfg.DatabaseName,
		collName: cfg.ContainerName,
	}, nil
}

// CreateCar inserts one valuation record. The record id maps to the
// document _id, so the store itself enforces identifier uniqueness.
func (r *CarRepository) CreateCar(ctx context.Context, car models.CarValuation) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	if _, err := collection.InsertOne(ctx, car); err != nil {
		return fmt.Errorf("failed to insert car valuation: %w", err)
	}
	return nil
}

// ListCars returns every stored valuation, newest first. The result set is
// unbounded; createdAt is an RFC 3339 UTC string so a lexicographic sort is
// a chronological sort.
func (r *CarRepository) ListCars(ctx context.Context) ([]models.CarValuation, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query car valuations: %w", err)
	}
	defer cursor.Close(ctx)

	cars := make([]models.CarValuation, 0)
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("failed to decode car valuations: %w", err)
	}

	return cars, nil
}

// Close closes the underlying connection.
func (r *CarRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
