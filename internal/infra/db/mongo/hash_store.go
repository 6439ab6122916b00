package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roomrates/internal/app/policies"
	"roomrates/internal/domain/syncstate"
)

// HashStore keeps the last pushed digest per cache key. Mongo's TTL monitor
// removes entries once expires_at passes.
type HashStore struct {
	col *mongo.Collection
}

var _ policies.HashStore = (*HashStore)(nil)

func NewHashStore(db *mongo.Database) *HashStore {
	col := db.Collection("sync_hashes")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return &HashStore{col: col}
}

func (s *HashStore) Lookup(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	filter := bson.M{
		"_id":        bson.M{"$in": keys},
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}
	docs, err := findAll[hashDocument](ctx, s.col, filter)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.Key] = d.Digest
	}
	return out, nil
}

func (s *HashStore) Store(ctx context.Context, entries []syncstate.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(entries))
	for _, e := range entries {
		doc := hashDocument{Key: e.Key, Digest: e.Digest, ExpiresAt: e.ExpiresAt.UTC()}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": e.Key}).
			SetReplacement(doc).
			SetUpsert(true))
	}
	_, err := s.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

type hashDocument struct {
	Key       string    `bson:"_id"`
	Digest    string    `bson:"digest"`
	ExpiresAt time.Time `bson:"expires_at"`
}
