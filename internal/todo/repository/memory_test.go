package repository

import (
	"context"
	"testing"

	"github.com/arunsaradgi/fullstacktodo/internal/todo"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	d := &todo.Todo{Title: "Buy milk", Description: "2 litres"}
	require.NoError(t, r.Create(ctx, d))
	require.Len(t, d.ID, 24)
	require.False(t, d.CreatedAt.IsZero())

	got, err := r.Get(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, *d, *got)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	upd, err := r.Update(ctx, d.ID, todo.Patch{Completed: boolp(true)})
	require.NoError(t, err)
	require.True(t, upd.Completed)
	require.Equal(t, "Buy milk", upd.Title)
	require.Equal(t, "2 litres", upd.Description)
	require.Equal(t, d.CreatedAt, upd.CreatedAt)

	del, err := r.Delete(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, d.ID, del.ID)
	_, err = r.Get(ctx, d.ID)
	require.ErrorIs(t, err, todo.ErrNotFound)
	_, err = r.Delete(ctx, d.ID)
	require.ErrorIs(t, err, todo.ErrNotFound)
}

func TestMemoryRepoListKeepsCreationOrder(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	var ids []string
	for _, title := range []string{"a", "b", "c", "d"} {
		td := &todo.Todo{Title: title}
		require.NoError(t, r.Create(ctx, td))
		ids = append(ids, td.ID)
	}
	_, err := r.Delete(ctx, ids[1])
	require.NoError(t, err)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, []string{"a", "c", "d"}, []string{list[0].Title, list[1].Title, list[2].Title})
}

func TestMemoryRepoUnknownIDLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	d := &todo.Todo{Title: "keep"}
	require.NoError(t, r.Create(ctx, d))

	_, err := r.Update(ctx, "missing", todo.Patch{Title: strp("X")})
	require.ErrorIs(t, err, todo.ErrNotFound)
	_, err = r.Delete(ctx, "missing")
	require.ErrorIs(t, err, todo.ErrNotFound)

	got, err := r.Get(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, *d, *got)
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	d := &todo.Todo{Title: "orig"}
	require.NoError(t, r.Create(ctx, d))
	d.Title = "mutated by caller"

	got, err := r.Get(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, "orig", got.Title)
	got.Title = "again"

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "orig", list[0].Title)
}

func TestMemoryRepoEmptyPatchKeepsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	d := &todo.Todo{Title: "t"}
	require.NoError(t, r.Create(ctx, d))

	got, err := r.Update(ctx, d.ID, todo.Patch{})
	require.NoError(t, err)
	require.Equal(t, *d, *got)
}
