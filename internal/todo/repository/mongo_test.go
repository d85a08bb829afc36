package repository

import (
	"context"
	"testing"
	"time"

	"github.com/arunsaradgi/fullstacktodo/internal/todo"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func todoDoc(id primitive.ObjectID, title string, completed bool, ts time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "description", Value: ""},
		{Key: "completed", Value: completed},
		{Key: "createdAt", Value: primitive.NewDateTimeFromTime(ts)},
		{Key: "updatedAt", Value: primitive.NewDateTimeFromTime(ts)},
	}
}

func TestMongoRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mt.Run("create assigns id and timestamps", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		td := &todo.Todo{Title: "Buy milk"}
		require.NoError(mt, repo.Create(ctx, td))
		_, err := primitive.ObjectIDFromHex(td.ID)
		require.NoError(mt, err)
		require.False(mt, td.CreatedAt.IsZero())
		require.Equal(mt, td.CreatedAt, td.UpdatedAt)
	})

	mt.Run("create surfaces store errors", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 1, Name: "InternalError", Message: "boom"}))

		err := repo.Create(ctx, &todo.Todo{Title: "x"})
		require.Error(mt, err)
		require.NotErrorIs(mt, err, todo.ErrNotFound)
	})

	mt.Run("list decodes in order", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			todoDoc(a, "first", false, ts),
			todoDoc(b, "second", true, ts.Add(time.Minute)),
		))

		list, err := repo.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, list, 2)
		require.Equal(mt, a.Hex(), list[0].ID)
		require.Equal(mt, "second", list[1].Title)
		require.True(mt, list[1].Completed)
		require.True(mt, ts.Equal(list[0].CreatedAt))
	})

	mt.Run("list of empty collection is not nil", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		list, err := repo.List(ctx)
		require.NoError(mt, err)
		require.NotNil(mt, list)
		require.Empty(mt, list)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.Get(ctx, primitive.NewObjectID().Hex())
		require.ErrorIs(mt, err, todo.ErrNotFound)
	})

	mt.Run("malformed ids never reach the store", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)

		_, err := repo.Get(ctx, "t1")
		require.ErrorIs(mt, err, todo.ErrNotFound)
		_, err = repo.Update(ctx, "t1", todo.Patch{Completed: boolp(true)})
		require.ErrorIs(mt, err, todo.ErrNotFound)
		_, err = repo.Delete(ctx, "t1")
		require.ErrorIs(mt, err, todo.ErrNotFound)
	})

	mt.Run("update returns the merged document", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: todoDoc(id, "Buy milk", true, ts)},
		))

		got, err := repo.Update(ctx, id.Hex(), todo.Patch{Completed: boolp(true)})
		require.NoError(mt, err)
		require.Equal(mt, id.Hex(), got.ID)
		require.True(mt, got.Completed)
		require.Equal(mt, "Buy milk", got.Title)
	})

	mt.Run("update unknown id", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Update(ctx, primitive.NewObjectID().Hex(), todo.Patch{Title: strp("X")})
		require.ErrorIs(mt, err, todo.ErrNotFound)
	})

	mt.Run("delete returns the removed document", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: todoDoc(id, "gone", false, ts)},
		))

		got, err := repo.Delete(ctx, id.Hex())
		require.NoError(mt, err)
		require.Equal(mt, "gone", got.Title)
	})

	mt.Run("delete unknown id", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Delete(ctx, primitive.NewObjectID().Hex())
		require.ErrorIs(mt, err, todo.ErrNotFound)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		require.NoError(mt, repo.EnsureIndexes(ctx))
	})
}
