package todo

import "time"

// Todo is the single persisted entity of the service.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Apply merges the fields present in p into t. UpdatedAt is left to the caller.
func (t *Todo) Apply(p Patch) {
	if p.Title != nil {
		t.Title = normalizeTitle(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
