package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group 群组文档 (groups collection)
//
// Members and Admin hold user identifiers as opaque strings. Every admin
// is expected to also be a member; the creator is inserted into both on
// creation, later updates replace either list wholesale.
type Group struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GroupName   string             `bson:"groupName" json:"groupName"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Members     []string           `bson:"members" json:"members"`
	Admin       []string           `bson:"admin" json:"admin"`
	CreatedOn   time.Time          `bson:"createdOn,omitempty" json:"createdOn,omitempty"`
}
