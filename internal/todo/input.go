package todo

import "strings"

// CreateInput is the body of POST /api/todos.
type CreateInput struct {
	Title       *string `json:"title" binding:"required"`
	Description *string `json:"description"`
}

// Validate rejects a missing or blank title.
func (in CreateInput) Validate() error {
	if in.Title == nil {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if normalizeTitle(*in.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return nil
}

// Todo builds the record to insert. Call Validate first.
func (in CreateInput) Todo() *Todo {
	t := &Todo{}
	if in.Title != nil {
		t.Title = normalizeTitle(*in.Title)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	return t
}

// Patch is the body of PATCH /api/todos/:id. Nil fields are left unchanged.
type Patch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// Validate rejects a title that is present but blank.
func (p Patch) Validate() error {
	if p.Title != nil && normalizeTitle(*p.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

func normalizeTitle(s string) string {
	return strings.TrimSpace(s)
}
