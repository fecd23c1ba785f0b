package domain

import "time"

// Category is a node in an explicit tree. ParentID is nil for roots; inserts
// and moves that would introduce a cycle are rejected by the service.
type Category struct {
	ID          int32     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ParentID    *int32    `json:"parent_id,omitempty"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}
