package daos

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tuiter-labs/tuiter/internal/models"
)

// GroupDao 群组数据访问接口
//
// Identifiers are opaque strings; no format validation happens here
// beyond what the store itself enforces.
type GroupDao interface {
	// UserCreatesGroup persists a new group owned by uid. Whatever the
	// input carried for members/admin is overwritten with {uid}.
	UserCreatesGroup(ctx context.Context, uid string, group *models.Group) (*models.Group, error)
	// FindGroupByID returns nil (no error) when the group is absent.
	FindGroupByID(ctx context.Context, gid string) (*models.Group, error)
	// FindAllGroupsForUser lists groups whose members set contains uid.
	FindAllGroupsForUser(ctx context.Context, uid string) ([]models.Group, error)
	// FindGroupByName lists groups named name that uid belongs to. The
	// name is not a unique key, so zero, one or many groups may match.
	FindGroupByName(ctx context.Context, name, uid string) ([]models.Group, error)
	// FindCommonGroups lists groups where both users appear in members.
	FindCommonGroups(ctx context.Context, activeUID, otherUID string) ([]models.Group, error)
	// UpdateGroup replaces only the fields present in fields. A present
	// members/admin value overwrites the stored list wholesale.
	UpdateGroup(ctx context.Context, gid string, fields map[string]any) (*models.Ack, error)
	// DeleteGroup removes the group by id. The deleter's id is accepted
	// for a future authorization check but is not verified against admin.
	DeleteGroup(ctx context.Context, uid, gid string) (*models.Ack, error)
}

// MongoGroupDao 基于 MongoDB 的群组 DAO
type MongoGroupDao struct {
	col *mongo.Collection
}

// NewGroupDao 创建群组 DAO 实例
func NewGroupDao(db *mongo.Database) *MongoGroupDao {
	return &MongoGroupDao{col: db.Collection("groups")}
}

func (d *MongoGroupDao) UserCreatesGroup(ctx context.Context, uid string, group *models.Group) (*models.Group, error) {
	group.ID = primitive.NewObjectID()
	group.Members = []string{uid}
	group.Admin = []string{uid}
	group.CreatedOn = time.Now().UTC()

	if _, err := d.col.InsertOne(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (d *MongoGroupDao) FindGroupByID(ctx context.Context, gid string) (*models.Group, error) {
	oid, err := primitive.ObjectIDFromHex(gid)
	if err != nil {
		return nil, err
	}

	var group models.Group
	err = d.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&group)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (d *MongoGroupDao) FindAllGroupsForUser(ctx context.Context, uid string) ([]models.Group, error) {
	return d.findGroups(ctx, bson.M{"members": uid})
}

func (d *MongoGroupDao) FindGroupByName(ctx context.Context, name, uid string) ([]models.Group, error) {
	return d.findGroups(ctx, bson.M{"groupName": name, "members": uid})
}

func (d *MongoGroupDao) FindCommonGroups(ctx context.Context, activeUID, otherUID string) ([]models.Group, error) {
	// $all gives set-intersection semantics: both users must be members.
	return d.findGroups(ctx, bson.M{"members": bson.M{"$all": []string{activeUID, otherUID}}})
}

func (d *MongoGroupDao) UpdateGroup(ctx context.Context, gid string, fields map[string]any) (*models.Ack, error) {
	oid, err := primitive.ObjectIDFromHex(gid)
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

func (d *MongoGroupDao) DeleteGroup(ctx context.Context, uid, gid string) (*models.Ack, error) {
	oid, err := primitive.ObjectIDFromHex(gid)
	if err != nil {
		return nil, err
	}

	res, err := d.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	return &models.Ack{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (d *MongoGroupDao) findGroups(ctx context.Context, filter bson.M) ([]models.Group, error) {
	cur, err := d.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	groups := []models.Group{}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
