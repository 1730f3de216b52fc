package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Tag 标签文档 (tags collection)
type Tag struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Tag  string             `bson:"tag" json:"tag"`
	Tuit primitive.ObjectID `bson:"tuit,omitempty" json:"tuit,omitempty"`
}

// Topic 话题文档 (topics collection)
type Topic struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Topic string             `bson:"topic" json:"topic"`
	Tuit  primitive.ObjectID `bson:"tuit,omitempty" json:"tuit,omitempty"`
}
