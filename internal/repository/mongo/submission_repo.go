package mongo

import (
	"context"
	"errors"
	"fmt"

	"leadgen-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type submissionRepo struct {
	db *mongo.Database
}

// NewSubmissionRepository stores each kind in its own collection of db
func NewSubmissionRepository(db *mongo.Database) domain.SubmissionRepository {
	return &submissionRepo{db: db}
}

// EnsureIndexes creates the createdAt index used by listings
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, kind := range domain.Kinds {
		_, err := db.Collection(kind.Collection()).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		})
		if err != nil {
			return fmt.Errorf("failed to index %s: %w", kind.Collection(), err)
		}
	}
	return nil
}

func (r *submissionRepo) CreateContact(ctx context.Context, rec *domain.ContactRecord) error {
	return r.insert(ctx, domain.KindContact, rec)
}

func (r *submissionRepo) CreateBookCall(ctx context.Context, rec *domain.BookCallRecord) error {
	return r.insert(ctx, domain.KindBookCall, rec)
}

func (r *submissionRepo) CreateOrder(ctx context.Context, rec *domain.OrderRecord) error {
	return r.insert(ctx, domain.KindOrder, rec)
}

func (r *submissionRepo) insert(ctx context.Context, kind domain.Kind, doc any) error {
	if _, err := r.db.Collection(kind.Collection()).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert into %s: duplicate id: %w", kind.Collection(), err)
		}
		return fmt.Errorf("insert into %s: %w", kind.Collection(), err)
	}
	return nil
}

func (r *submissionRepo) Get(ctx context.Context, kind domain.Kind, id string) (domain.Record, error) {
	rec, err := newRecord(kind)
	if err != nil {
		return nil, err
	}
	err = r.db.Collection(kind.Collection()).FindOne(ctx, bson.M{"_id": id}).Decode(rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *submissionRepo) List(ctx context.Context, kind domain.Kind, limit, offset int) ([]domain.Record, int64, error) {
	if _, err := newRecord(kind); err != nil {
		return nil, 0, err
	}
	coll := r.db.Collection(kind.Collection())

	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	records := make([]domain.Record, 0, limit)
	for cursor.Next(ctx) {
		rec, _ := newRecord(kind)
		if err := cursor.Decode(rec); err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *submissionRepo) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, readpref.Primary())
}

// newRecord returns an empty record to decode a document of kind into
func newRecord(kind domain.Kind) (domain.Record, error) {
	switch kind {
	case domain.KindContact:
		return &domain.ContactRecord{}, nil
	case domain.KindBookCall:
		return &domain.BookCallRecord{}, nil
	case domain.KindOrder:
		return &domain.OrderRecord{}, nil
	}
	return nil, fmt.Errorf("unknown submission kind %q", kind)
}
