// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/normalize"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

// Create inserts a new study group and returns it with ID and timestamps
// set. The description is expected to be sanitized by the caller.
func (s *Store) Create(ctx context.Context, g models.StudyGroup) (models.StudyGroup, error) {
	g.ID = primitive.NewObjectID()
	g.Title = normalize.Name(g.Title)
	g.TitleCI = text.Fold(g.Title)
	g.Subject = normalize.Name(g.Subject)

	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.StudyGroup{}, err
	}
	return g, nil
}

// GetByID loads a group by ObjectID. Returns mongo.ErrNoDocuments if the
// group does not exist.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.StudyGroup, error) {
	var g models.StudyGroup
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ListNewestFirst returns all groups ordered newest first. ObjectIDs embed
// their creation time, so sorting on _id gives insertion order.
func (s *Store) ListNewestFirst(ctx context.Context) ([]models.StudyGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.StudyGroup
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
