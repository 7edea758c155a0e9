package repository

import (
	"context"
	"errors"

	"github.com/guruqool/gurukul/internal/domain"
	"github.com/guruqool/gurukul/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type transactionRepository struct {
	db *mongo.Database
}

func NewTransactionRepository(database *mongo.Database) domain.TransactionRepository {
	return &transactionRepository{
		db: database,
	}
}

func (r *transactionRepository) Create(ctx context.Context, record *domain.TransactionRecord) error {
	collection := r.db.Collection(db.TransactionsCollection)

	_, err := collection.InsertOne(ctx, record)
	return err
}

func (r *transactionRepository) GetByReceipt(ctx context.Context, receipt string) (*domain.TransactionRecord, error) {
	collection := r.db.Collection(db.TransactionsCollection)

	var record domain.TransactionRecord
	err := collection.FindOne(ctx, bson.M{"receipt": receipt}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *transactionRepository) GetRecent(ctx context.Context, limit int) ([]domain.TransactionRecord, error) {
	collection := r.db.Collection(db.TransactionsCollection)

	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.TransactionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}
