package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mailcraft/mailcraft/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores templates in a MongoDB collection keyed by a string _id
// (a UUID assigned on save).
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	// listing sorts by creation time
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idxModel)
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Save(ctx context.Context, t *document.PersistedTemplate) (*document.PersistedTemplate, error) {
	rec := *t
	rec.ID = uuid.NewString()
	// Mongo keeps millisecond precision
	rec.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := m.col.InsertOne(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (m *MongoRepo) Update(ctx context.Context, id string, t *document.PersistedTemplate) (*document.PersistedTemplate, error) {
	set := bson.M{"name": t.Name, "layout": t.Layout, "config": t.Config}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out document.PersistedTemplate
	err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (m *MongoRepo) FindByID(ctx context.Context, id string) (*document.PersistedTemplate, error) {
	var t document.PersistedTemplate
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*document.PersistedTemplate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*document.PersistedTemplate{}
	for cur.Next(ctx) {
		var t document.PersistedTemplate
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
