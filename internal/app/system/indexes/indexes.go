// Package indexes declares the MongoDB indexes the application relies on
// and ensures they exist at startup.
//
// CreateIndexes is idempotent on the server side: an index that already
// exists with the same keys and options is a no-op.
package indexes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll creates every index the stores depend on. Called once from the
// schema hook before the HTTP handler is built.
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	specs := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{
			collection: "users",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "username_ci", Value: 1}},
					Options: options.Index().SetName("uniq_users_usernameci").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetName("uniq_users_email").SetUnique(true),
				},
			},
		},
		{
			collection: "groups",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "creator_id", Value: 1}},
					Options: options.Index().SetName("idx_groups_creator"),
				},
			},
		},
		{
			collection: "memberships",
			models: []mongo.IndexModel{
				// Duplicate joins land here: the second insert for the same
				// (user, group) pair fails with a duplicate-key error.
				{
					Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "group_id", Value: 1}},
					Options: options.Index().SetName("uniq_memberships_user_group").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "user_id", Value: 1}},
					Options: options.Index().SetName("idx_memberships_group_user"),
				},
				{
					Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
					Options: options.Index().SetName("idx_memberships_user_created"),
				},
			},
		},
	}

	for _, spec := range specs {
		names, err := db.Collection(spec.collection).Indexes().CreateMany(ctx, spec.models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", spec.collection, err)
		}
		log.Info("ensured indexes", zap.String("collection", spec.collection), zap.Strings("indexes", names))
	}
	return nil
}
