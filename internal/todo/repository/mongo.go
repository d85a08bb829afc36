package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arunsaradgi/fullstacktodo/internal/todo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// record is the BSON shape of a todo in the collection.
type record struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Completed   bool               `bson:"completed"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (r *record) toTodo() *todo.Todo {
	return &todo.Todo{
		ID:          r.ID.Hex(),
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// MongoRepo implements Repository on a MongoDB collection. Documents are keyed
// by ObjectID `_id`; ids that are not valid ObjectID hex match nothing.
type MongoRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col, now: storeNow}
}

// EnsureIndexes creates the index backing creation-ordered listing.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}
	if _, err := m.col.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("create todo indexes: %w", err)
	}
	return nil
}

func (m *MongoRepo) Create(ctx context.Context, t *todo.Todo) error {
	now := m.now()
	rec := record{
		ID:          primitive.NewObjectID(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := m.col.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	t.ID = rec.ID.Hex()
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

func (m *MongoRepo) List(ctx context.Context) ([]todo.Todo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find todos: %w", err)
	}
	defer cur.Close(ctx)
	out := []todo.Todo{}
	for cur.Next(ctx) {
		var r record
		if err := cur.Decode(&r); err != nil {
			return nil, fmt.Errorf("decode todo: %w", err)
		}
		out = append(out, *r.toTodo())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return out, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*todo.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, todo.ErrNotFound
	}
	var r record
	if err := m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&r); err != nil {
		return nil, notFoundOr(err, "find todo")
	}
	return r.toTodo(), nil
}

func (m *MongoRepo) Update(ctx context.Context, id string, p todo.Patch) (*todo.Todo, error) {
	if p.IsEmpty() {
		return m.Get(ctx, id)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, todo.ErrNotFound
	}
	// Apply on a zero Todo so title normalisation matches the memory store.
	var merged todo.Todo
	merged.Apply(p)
	set := bson.M{"updatedAt": m.now()}
	if p.Title != nil {
		set["title"] = merged.Title
	}
	if p.Description != nil {
		set["description"] = merged.Description
	}
	if p.Completed != nil {
		set["completed"] = merged.Completed
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var r record
	if err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&r); err != nil {
		return nil, notFoundOr(err, "update todo")
	}
	return r.toTodo(), nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) (*todo.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, todo.ErrNotFound
	}
	var r record
	if err := m.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&r); err != nil {
		return nil, notFoundOr(err, "delete todo")
	}
	return r.toTodo(), nil
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, readpref.Primary())
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return todo.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
