package inbox

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roomrates/internal/app/policies"
)

// Retention bounds how long consumed event ids are remembered.
const Retention = 30 * 24 * time.Hour

type Store struct {
	col      *mongo.Collection
	consumer string
	now      func() time.Time
}

var _ policies.Inbox = (*Store)(nil)

func NewStore(db *mongo.Database, consumer string) *Store {
	col := db.Collection("trigger_inbox")
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "consumer", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "received_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(int32(Retention.Seconds()))},
	})
	return &Store{col: col, consumer: consumer, now: time.Now}
}

func (s *Store) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := s.col.CountDocuments(ctx, s.filter(eventID), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Mark inserts the event id. A duplicate key from a concurrent delivery is not an
// error.
func (s *Store) Mark(ctx context.Context, eventID string) error {
	doc := bson.M{"event_id": eventID, "consumer": s.consumer, "received_at": s.now().UTC()}
	if _, err := s.col.InsertOne(ctx, doc); err != nil && !mongo.IsDuplicateKeyError(err) {
		return err
	}
	return nil
}

func (s *Store) filter(eventID string) bson.M {
	return bson.M{"event_id": eventID, "consumer": s.consumer}
}
