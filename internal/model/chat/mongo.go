package chat

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "chat_messages"

// MongoStore implements Store on top of a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore binds the store to the chat_messages collection.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(collectionName)}
}

// Insert appends a turn document.
func (s *MongoStore) Insert(ctx context.Context, turn Turn) error {
	if _, err := s.coll.InsertOne(ctx, turn); err != nil {
		return fmt.Errorf("insert chat turn: %w", err)
	}
	return nil
}

// Recent queries turns sorted by timestamp descending.
func (s *MongoStore) Recent(ctx context.Context, sessionID string, limit int) ([]Turn, error) {
	filter := bson.M{}
	if sessionID != "" {
		filter["session_id"] = sessionID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query chat history: %w", err)
	}
	defer cursor.Close(ctx)

	turns := make([]Turn, 0, limit)
	if err := cursor.All(ctx, &turns); err != nil {
		return nil, fmt.Errorf("decode chat history: %w", err)
	}
	return turns, nil
}

// MarkAudio updates the audio fields of a turn that has none yet. The
// has_audio guard in the filter keeps the update one-shot.
func (s *MongoStore) MarkAudio(ctx context.Context, id, audioURL string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "has_audio": false},
		bson.M{"$set": bson.M{"has_audio": true, "audio_url": audioURL}},
	)
	if err != nil {
		return fmt.Errorf("mark turn audio: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrTurnNotFound
	}
	return nil
}
