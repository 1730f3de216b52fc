package daos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tuiter-labs/tuiter/internal/models"
)

func TestUserCreatesGroup_CreatorBecomesSoleMemberAndAdmin(t *testing.T) {
	dao := NewGroupDao(setupTestDB(t))
	ctx := context.Background()

	// Caller-supplied members/admin must be overwritten, not merged.
	created, err := dao.UserCreatesGroup(ctx, "alice", &models.Group{
		GroupName:   "book club",
		Description: "we read",
		Members:     []string{"mallory", "trudy"},
		Admin:       []string{"mallory"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"alice"}, created.Members)
	assert.Equal(t, []string{"alice"}, created.Admin)
	assert.False(t, created.CreatedOn.IsZero())

	stored, err := dao.FindGroupByID(ctx, created.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []string{"alice"}, stored.Members)
	assert.Equal(t, []string{"alice"}, stored.Admin)
	assert.Equal(t, "book club", stored.GroupName)
}

func TestFindGroupByID_Absent(t *testing.T) {
	dao := NewGroupDao(setupTestDB(t))

	group, err := dao.FindGroupByID(context.Background(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Nil(t, group)
}

func TestFindCommonGroups_Intersection(t *testing.T) {
	dao := NewGroupDao(setupTestDB(t))
	ctx := context.Background()

	g1, err := dao.UserCreatesGroup(ctx, "alice", &models.Group{GroupName: "g1"})
	require.NoError(t, err)
	_, err = dao.UpdateGroup(ctx, g1.ID.Hex(), map[string]any{"members": []string{"alice", "bob"}})
	require.NoError(t, err)

	_, err = dao.UserCreatesGroup(ctx, "alice", &models.Group{GroupName: "g2"})
	require.NoError(t, err)

	_, err = dao.UserCreatesGroup(ctx, "bob", &models.Group{GroupName: "g3"})
	require.NoError(t, err)

	common, err := dao.FindCommonGroups(ctx, "alice", "bob")
	require.NoError(t, err)

	// Only the group holding both users qualifies.
	require.Len(t, common, 1)
	assert.Equal(t, g1.ID, common[0].ID)
}

func TestFindGroupByName_ScopedToMember(t *testing.T) {
	dao := NewGroupDao(setupTestDB(t))
	ctx := context.Background()

	mine, err := dao.UserCreatesGroup(ctx, "alice", &models.Group{GroupName: "chess"})
	require.NoError(t, err)

	// Same name, different membership.
	_, err = dao.UserCreatesGroup(ctx, "bob", &models.Group{GroupName: "chess"})
	require.NoError(t, err)

	groups, err := dao.FindGroupByName(ctx, "chess", "alice")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, mine.ID, groups[0].ID)

	groups, err = dao.FindGroupByName(ctx, "no-such-name", "alice")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestFindAllGroupsForUser(t *testing.T) {
	dao := NewGroupDao(setupTestDB(t))
	ctx := context.Background()

	_, err := dao.UserCreatesGroup(ctx, "alice", &models.Group{GroupName: "a"})
	require.NoError(t, err)
	_, err = dao.UserCreatesGroup(ctx, "alice", &models.Group{GroupName: "b"})
	require.NoError(t, err)
	_, err = dao.UserCreatesGroup(ctx, "bob", &models.Group{GroupName: "c"})
	require.NoError(t, err)

	groups, err := dao.FindAllGroupsForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	groups, err = dao.FindAllGroupsForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestUpdateGroup_PartialReplacement(t *testing.T) {
	dao := NewGroupDao(setupTestDB(t))
	ctx := context.Background()

	group, err := dao.UserCreatesGroup(ctx, "alice", &models.Group{
		GroupName:   "original",
		Description: "before",
	})
	require.NoError(t, err)

	ack, err := dao.UpdateGroup(ctx, group.ID.Hex(), map[string]any{"description": "after"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ack.MatchedCount)

	stored, err := dao.FindGroupByID(ctx, group.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, stored)

	// Untouched fields keep their values.
	assert.Equal(t, "original", stored.GroupName)
	assert.Equal(t, "after", stored.Description)
	assert.Equal(t, []string{"alice"}, stored.Members)

	// A present members value replaces the list wholesale.
	_, err = dao.UpdateGroup(ctx, group.ID.Hex(), map[string]any{"members": []string{"carol"}})
	require.NoError(t, err)

	stored, err = dao.FindGroupByID(ctx, group.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, stored.Members)
	assert.Equal(t, []string{"alice"}, stored.Admin)
}

func TestUpdateGroup_MissingIDMatchesNothing(t *testing.T) {
	dao := NewGroupDao(setupTestDB(t))

	ack, err := dao.UpdateGroup(context.Background(), primitive.NewObjectID().Hex(), map[string]any{"description": "x"})
	require.NoError(t, err)
	assert.True(t, ack.Acknowledged)
	assert.Zero(t, ack.MatchedCount)
}

func TestDeleteGroup(t *testing.T) {
	dao := NewGroupDao(setupTestDB(t))
	ctx := context.Background()

	group, err := dao.UserCreatesGroup(ctx, "alice", &models.Group{GroupName: "doomed"})
	require.NoError(t, err)

	// "bob" is neither member nor admin and the delete still goes
	// through: authorization is a documented gap at this layer.
	ack, err := dao.DeleteGroup(ctx, "bob", group.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), ack.DeletedCount)

	stored, err := dao.FindGroupByID(ctx, group.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, stored)

	// Deleting a missing id is a zero-count success, not an error.
	ack, err = dao.DeleteGroup(ctx, "bob", group.ID.Hex())
	require.NoError(t, err)
	assert.True(t, ack.Acknowledged)
	assert.Zero(t, ack.DeletedCount)
}
