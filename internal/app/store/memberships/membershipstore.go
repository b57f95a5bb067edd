// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("memberships")}
}

// ErrDuplicateMembership is returned when the user is already a member of
// the group. The unique (user_id, group_id) index is the arbiter, so
// concurrent joins resolve to exactly one membership.
var ErrDuplicateMembership = errors.New("user is already a member of this group")

// Add creates a membership for (groupID, userID).
func (s *Store) Add(ctx context.Context, groupID, userID primitive.ObjectID) error {
	doc := bson.M{
		"group_id":   groupID,
		"user_id":    userID,
		"created_at": time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

// Remove deletes the membership for (groupID, userID). Removing a
// membership that does not exist is not an error.
func (s *Store) Remove(ctx context.Context, groupID, userID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"group_id": groupID, "user_id": userID})
	return err
}

// Exists reports whether userID is a member of groupID.
func (s *Store) Exists(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"group_id": groupID, "user_id": userID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountByGroup returns the number of members in a group.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
}

// CountsForGroups returns member counts keyed by group ID for the given
// groups. Groups with no members are absent from the map.
func (s *Store) CountsForGroups(ctx context.Context, groupIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	counts := make(map[primitive.ObjectID]int64, len(groupIDs))
	if len(groupIDs) == 0 {
		return counts, nil
	}

	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"group_id": bson.M{"$in": groupIDs}}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$group_id", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		GroupID primitive.ObjectID `bson:"_id"`
		Count   int64              `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.GroupID] = row.Count
	}
	return counts, nil
}
