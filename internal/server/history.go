package server

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qrforge/qrforge/pkg/pipeline"
)

const (
	historyDatabase   = "qrforge"
	historyCollection = "generations"

	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// Record is one successful generation, as stored in the history collection.
type Record struct {
	Data        string    `bson:"data" json:"data"`
	Style       string    `bson:"style" json:"style"`
	BoxSize     int       `bson:"box_size" json:"box_size"`
	Border      int       `bson:"border" json:"border"`
	Fill        string    `bson:"fill" json:"fill"`
	Back        string    `bson:"back" json:"back"`
	ImageSide   int       `bson:"image_side" json:"image_side"`
	Version     int       `bson:"version,omitempty" json:"version,omitempty"`
	CacheHit    bool      `bson:"cache_hit" json:"cache_hit"`
	RequestedAt time.Time `bson:"requested_at" json:"requested_at"`
}

// NewRecord builds a history record from a finished run.
func NewRecord(opts pipeline.Options, result *pipeline.Result) Record {
	return Record{
		Data:        opts.Data,
		Style:       opts.Style,
		BoxSize:     opts.BoxSize,
		Border:      opts.Border,
		Fill:        opts.Fill,
		Back:        opts.Back,
		ImageSide:   result.Stats.ImageSide,
		Version:     result.Stats.Version,
		CacheHit:    result.CacheInfo.Hit,
		RequestedAt: time.Now().UTC(),
	}
}

// HistoryStore persists generation records in MongoDB. It is optional: a
// nil store disables history without touching any render path.
type HistoryStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewHistoryStore connects to MongoDB and verifies the connection.
func NewHistoryStore(ctx context.Context, uri string) (*HistoryStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &HistoryStore{
		client: client,
		coll:   client.Database(historyDatabase).Collection(historyCollection),
	}, nil
}

// Insert stores one record.
func (s *HistoryStore) Insert(ctx context.Context, rec Record) error {
	_, err := s.coll.InsertOne(ctx, rec)
	return err
}

// Recent returns up to limit records, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	limit = min(limit, maxHistoryLimit)

	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().
		SetSort(bson.D{{Key: "requested_at", Value: -1}}).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	records := make([]Record, 0, limit)
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Close disconnects from MongoDB.
func (s *HistoryStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
