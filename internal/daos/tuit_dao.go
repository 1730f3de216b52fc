package daos

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tuiter-labs/tuiter/internal/models"
)

// TuitDao 帖子数据访问接口
type TuitDao interface {
	FindAllTuits(ctx context.Context) ([]models.Tuit, error)
	// FindTuitByID hydrates the author via $lookup and returns nil (no
	// error) when the tuit is absent.
	FindTuitByID(ctx context.Context, tid string) (*models.ExpandedTuit, error)
	FindTuitsByUser(ctx context.Context, uid string) ([]models.Tuit, error)
	CreateTuit(ctx context.Context, uid string, tuit *models.Tuit) (*models.Tuit, error)
	UpdateTuit(ctx context.Context, tid string, fields map[string]any) (*models.Ack, error)
	DeleteTuit(ctx context.Context, tid string) (*models.Ack, error)
}

// MongoTuitDao 基于 MongoDB 的帖子 DAO
type MongoTuitDao struct {
	col *mongo.Collection
}

// NewTuitDao 创建帖子 DAO 实例
func NewTuitDao(db *mongo.Database) *MongoTuitDao {
	return &MongoTuitDao{col: db.Collection("tuits")}
}

func (d *MongoTuitDao) FindAllTuits(ctx context.Context) ([]models.Tuit, error) {
	return d.findTuits(ctx, bson.M{})
}

func (d *MongoTuitDao) FindTuitByID(ctx context.Context, tid string) (*models.ExpandedTuit, error) {
	oid, err := primitive.ObjectIDFromHex(tid)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": oid}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "postedBy",
			"foreignField": "_id",
			"as":           "postedByDoc",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$postedByDoc", "preserveNullAndEmptyArrays": true}}},
	}

	cur, err := d.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var expanded []models.ExpandedTuit
	if err := cur.All(ctx, &expanded); err != nil {
		return nil, err
	}
	if len(expanded) == 0 {
		return nil, nil
	}

	if expanded[0].PostedByDoc != nil {
		expanded[0].PostedByDoc.Password = models.MaskedPassword
	}
	return &expanded[0], nil
}

func (d *MongoTuitDao) FindTuitsByUser(ctx context.Context, uid string) ([]models.Tuit, error) {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return nil, err
	}
	return d.findTuits(ctx, bson.M{"postedBy": oid})
}

func (d *MongoTuitDao) CreateTuit(ctx context.Context, uid string, tuit *models.Tuit) (*models.Tuit, error) {
	author, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return nil, err
	}

	tuit.ID = primitive.NewObjectID()
	tuit.PostedBy = author
	tuit.PostedOn = time.Now().UTC()

	if _, err := d.col.InsertOne(ctx, tuit); err != nil {
		return nil, err
	}
	return tuit, nil
}

func (d *MongoTuitDao) UpdateTuit(ctx context.Context, tid string, fields map[string]any) (*models.Ack, error) {
	oid, err := primitive.ObjectIDFromHex(tid)
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

func (d *MongoTuitDao) DeleteTuit(ctx context.Context, tid string) (*models.Ack, error) {
	oid, err := primitive.ObjectIDFromHex(tid)
	if err != nil {
		return nil, err
	}

	res, err := d.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	return &models.Ack{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (d *MongoTuitDao) findTuits(ctx context.Context, filter bson.M) ([]models.Tuit, error) {
	cur, err := d.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	tuits := []models.Tuit{}
	if err := cur.All(ctx, &tuits); err != nil {
		return nil, err
	}
	return tuits, nil
}
