// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudyGroup is a study group created by a user.
//
// NOTE:
//   - Member lists are not embedded on StudyGroup.
//     All membership is stored in the memberships collection.
//   - CreatorID is immutable after creation. The creator is auto-joined as a
//     member when the group is created, but creator status is derived from
//     CreatorID alone, never from a membership row.
type StudyGroup struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"title_ci"`
	Subject     string             `bson:"subject" json:"subject"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	MeetingAt   *time.Time         `bson:"meeting_at,omitempty" json:"meeting_at,omitempty"`
	CreatorID   primitive.ObjectID `bson:"creator_id" json:"creator_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
