package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tuit 帖子文档 (tuits collection)
type Tuit struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Tuit     string             `bson:"tuit" json:"tuit"`
	PostedOn time.Time          `bson:"postedOn,omitempty" json:"postedOn,omitempty"`
	PostedBy primitive.ObjectID `bson:"postedBy,omitempty" json:"postedBy,omitempty"`
}

// ExpandedTuit 帖子及其作者 (聚合结果)
type ExpandedTuit struct {
	Tuit        `bson:",inline"`
	PostedByDoc *User `bson:"postedByDoc,omitempty" json:"postedByDoc,omitempty"`
}
