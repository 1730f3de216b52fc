package daos

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tuiter-labs/tuiter/internal/models"
)

// UserDao 用户数据访问接口
//
// Username uniqueness is enforced by a lookup before insert, not by a
// store-level constraint. Two concurrent registrations for the same
// username can therefore both succeed; the contract documents the race
// instead of hiding it.
type UserDao interface {
	FindAllUsers(ctx context.Context) ([]models.User, error)
	// FindUserByID returns nil (no error) when the user is absent.
	FindUserByID(ctx context.Context, uid string) (*models.User, error)
	// FindUserByUsername returns nil (no error) when no user has that name.
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, uid string, fields map[string]any) (*models.Ack, error)
	DeleteUser(ctx context.Context, uid string) (*models.Ack, error)
}

// MongoUserDao 基于 MongoDB 的用户 DAO
type MongoUserDao struct {
	col *mongo.Collection
}

// NewUserDao 创建用户 DAO 实例
func NewUserDao(db *mongo.Database) *MongoUserDao {
	return &MongoUserDao{col: db.Collection("users")}
}

func (d *MongoUserDao) FindAllUsers(ctx context.Context) ([]models.User, error) {
	cur, err := d.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = models.MaskedPassword
	}
	return users, nil
}

func (d *MongoUserDao) FindUserByID(ctx context.Context, uid string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return nil, err
	}
	return d.findOne(ctx, bson.M{"_id": oid})
}

func (d *MongoUserDao) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return d.findOne(ctx, bson.M{"username": username})
}

func (d *MongoUserDao) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	if _, err := d.col.InsertOne(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (d *MongoUserDao) UpdateUser(ctx context.Context, uid string, fields map[string]any) (*models.Ack, error) {
	oid, err := primitive.ObjectIDFromHex(uid)
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

func (d *MongoUserDao) DeleteUser(ctx context.Context, uid string) (*models.Ack, error) {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return nil, err
	}

	res, err := d.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	return &models.Ack{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// findOne keeps the stored password hash intact; callers that serialize
// a user to a client are responsible for masking it.
func (d *MongoUserDao) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := d.col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
