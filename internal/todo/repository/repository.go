package repository

import (
	"context"

	"github.com/arunsaradgi/fullstacktodo/internal/todo"
)

// Repository is the record store contract. Every method is atomic for the
// single document it touches. Missing ids yield todo.ErrNotFound.
type Repository interface {
	// Create assigns ID, CreatedAt and UpdatedAt on t and stores it.
	Create(ctx context.Context, t *todo.Todo) error
	// List returns all todos ordered by creation, oldest first.
	List(ctx context.Context) ([]todo.Todo, error)
	Get(ctx context.Context, id string) (*todo.Todo, error)
	// Update merges p into the stored todo and returns the result.
	Update(ctx context.Context, id string, p todo.Patch) (*todo.Todo, error)
	// Delete removes the todo and returns it as it was.
	Delete(ctx context.Context, id string) (*todo.Todo, error)
	Ping(ctx context.Context) error
}
