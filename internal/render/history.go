package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Entry records one successful render.
type Entry struct {
	TemplateID string    `bson:"templateId" json:"templateId"`
	Layout     string    `bson:"layout" json:"layout"`
	Filename   string    `bson:"filename" json:"filename"`
	Bytes      int       `bson:"bytes" json:"bytes"`
	Unresolved []string  `bson:"unresolved,omitempty" json:"unresolved,omitempty"`
	RenderedAt time.Time `bson:"renderedAt" json:"renderedAt"`
}

// History stores render records.
type History interface {
	Record(ctx context.Context, e *Entry) error
	List(ctx context.Context, templateID string, limit int) ([]Entry, error)
}

// NopHistory is used when no database is configured.
type NopHistory struct{}

func (NopHistory) Record(context.Context, *Entry) error { return nil }

func (NopHistory) List(context.Context, string, int) ([]Entry, error) { return []Entry{}, nil }

// MemoryHistory keeps the most recent records per template in process.
type MemoryHistory struct {
	mu      sync.RWMutex
	max     int
	entries map[string][]Entry
}

func NewMemoryHistory(capacity int) *MemoryHistory {
	if capacity <= 0 {
		capacity = 50
	}
	return &MemoryHistory{max: capacity, entries: make(map[string][]Entry)}
}

func (h *MemoryHistory) Record(_ context.Context, e *Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := append(h.entries[e.TemplateID], *e)
	if len(list) > h.max {
		list = list[len(list)-h.max:]
	}
	h.entries[e.TemplateID] = list
	return nil
}

// List returns newest first.
func (h *MemoryHistory) List(_ context.Context, templateID string, limit int) ([]Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	list := h.entries[templateID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	out := make([]Entry, 0, limit)
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

// MongoHistory appends render records to a collection.
type MongoHistory struct {
	col *mongo.Collection
}

func NewMongoHistory(col *mongo.Collection) *MongoHistory {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "templateId", Value: 1}, {Key: "renderedAt", Value: -1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &MongoHistory{col: col}
}

func (h *MongoHistory) Record(ctx context.Context, e *Entry) error {
	if _, err := h.col.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("save render entry: %w", err)
	}
	return nil
}

func (h *MongoHistory) List(ctx context.Context, templateID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().SetSort(bson.D{{Key: "renderedAt", Value: -1}}).SetLimit(int64(limit))
	cur, err := h.col.Find(ctx, bson.M{"templateId": templateID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Entry{}
	for cur.Next(ctx) {
		var e Entry
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, cur.Err()
}
