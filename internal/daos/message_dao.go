package daos

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tuiter-labs/tuiter/internal/models"
)

// MessageDao 群消息数据访问接口
type MessageDao interface {
	// UserMessagesGroup persists a new message. sentBy, group and sentOn
	// are set server-side; membership of the sender in the group is not
	// verified here.
	UserMessagesGroup(ctx context.Context, uid, gid string, msg *models.Message) (*models.Message, error)
	// FindAllMessages returns every message in the store, unscoped.
	FindAllMessages(ctx context.Context) ([]models.Message, error)
	FindAllMessagesSentByUser(ctx context.Context, uid string) ([]models.Message, error)
	FindAllMessagesInGroup(ctx context.Context, gid string) ([]models.Message, error)
	// UserEditsMessage overwrites only the fields present in fields.
	UserEditsMessage(ctx context.Context, mid string, fields map[string]any) (*models.Ack, error)
	// UserDeletesMessage removes by id; deleting a missing id is a
	// zero-count success.
	UserDeletesMessage(ctx context.Context, mid string) (*models.Ack, error)
	// ExpandMessage resolves the group and sentBy references of one
	// message via $lookup.
	ExpandMessage(ctx context.Context, mid string) (*models.ExpandedMessage, error)
}

// MongoMessageDao 基于 MongoDB 的群消息 DAO
type MongoMessageDao struct {
	col *mongo.Collection
}

// NewMessageDao 创建群消息 DAO 实例
func NewMessageDao(db *mongo.Database) *MongoMessageDao {
	return &MongoMessageDao{col: db.Collection("messages")}
}

func (d *MongoMessageDao) UserMessagesGroup(ctx context.Context, uid, gid string, msg *models.Message) (*models.Message, error) {
	sender, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return nil, err
	}
	group, err := primitive.ObjectIDFromHex(gid)
	if err != nil {
		return nil, err
	}

	msg.ID = primitive.NewObjectID()
	msg.SentBy = sender
	msg.Group = group
	msg.SentOn = time.Now().UTC()

	if _, err := d.col.InsertOne(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (d *MongoMessageDao) FindAllMessages(ctx context.Context) ([]models.Message, error) {
	return d.findMessages(ctx, bson.M{})
}

func (d *MongoMessageDao) FindAllMessagesSentByUser(ctx context.Context, uid string) ([]models.Message, error) {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return nil, err
	}
	return d.findMessages(ctx, bson.M{"sentBy": oid})
}

func (d *MongoMessageDao) FindAllMessagesInGroup(ctx context.Context, gid string) ([]models.Message, error) {
	oid, err := primitive.ObjectIDFromHex(gid)
	if err != nil {
		return nil, err
	}
	return d.findMessages(ctx, bson.M{"group": oid})
}

func (d *MongoMessageDao) UserEditsMessage(ctx context.Context, mid string, fields map[string]any) (*models.Ack, error) {
	oid, err := primitive.ObjectIDFromHex(mid)
	if err != nil {
		return nil, err
	}

	res, err := d.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return nil, err
	}
	return &models.Ack{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (d *MongoMessageDao) UserDeletesMessage(ctx context.Context, mid string) (*models.Ack, error) {
	oid, err := primitive.ObjectIDFromHex(mid)
	if err != nil {
		return nil, err
	}

	res, err := d.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	return &models.Ack{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (d *MongoMessageDao) ExpandMessage(ctx context.Context, mid string) (*models.ExpandedMessage, error) {
	oid, err := primitive.ObjectIDFromHex(mid)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": oid}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "groups",
			"localField":   "group",
			"foreignField": "_id",
			"as":           "groupDoc",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "sentBy",
			"foreignField": "_id",
			"as":           "sentByDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$groupDoc", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$unwind", Value: bson.M{"path": "$sentByDoc", "preserveNullAndEmptyArrays": true}}},
	}

	cur, err := d.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var expanded []models.ExpandedMessage
	if err := cur.All(ctx, &expanded); err != nil {
		return nil, err
	}
	if len(expanded) == 0 {
		return nil, nil
	}

	// The hash never leaves the persistence layer on a hydrated read.
	if expanded[0].SentByDoc != nil {
		expanded[0].SentByDoc.Password = models.MaskedPassword
	}
	return &expanded[0], nil
}

func (d *MongoMessageDao) findMessages(ctx context.Context, filter bson.M) ([]models.Message, error) {
	cur, err := d.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	messages := []models.Message{}
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
