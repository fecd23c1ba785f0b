package domain

import "time"

// MinistryArea is an organizational owner of stock. The inventory core only
// needs it as a directory for reference validation and alert routing.
type MinistryArea struct {
	ID          int32     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	LeaderEmail string    `json:"leader_email"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}
