package usergroups

import (
	"context"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GroupsCreatedBy returns the groups a user created, newest first.
func GroupsCreatedBy(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) ([]models.StudyGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cur, err := db.Collection("groups").Find(ctx, bson.M{"creator_id": userID}, opts)
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

// GroupsJoinedBy returns the groups a user belongs to, most recently
// joined first.
func GroupsJoinedBy(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) ([]models.StudyGroup, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"user_id": userID}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "groups",
			"localField":   "group_id",
			"foreignField": "_id",
			"as":           "group",
		}}},
		bson.D{{Key: "$unwind", Value: "$group"}},
		bson.D{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$group"}}},
	}

	cur, err := db.Collection("memberships").Aggregate(ctx, pipe)
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
