package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message 群消息文档 (messages collection)
//
// Group and SentBy are weak references by identifier. Resolving them to
// full documents is a separate hydration step in the DAO, not part of
// the normal read path.
type Message struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Content string             `bson:"content" json:"content"`
	Group   primitive.ObjectID `bson:"group,omitempty" json:"group,omitempty"`
	SentBy  primitive.ObjectID `bson:"sentBy,omitempty" json:"sentBy,omitempty"`
	SentOn  time.Time          `bson:"sentOn,omitempty" json:"sentOn,omitempty"`
}

// ExpandedMessage is a message with its group and sender references
// resolved via $lookup.
type ExpandedMessage struct {
	Message `bson:",inline"`
	GroupDoc  *Group `bson:"groupDoc,omitempty" json:"groupDoc,omitempty"`
	SentByDoc *User  `bson:"sentByDoc,omitempty" json:"sentByDoc,omitempty"`
}
