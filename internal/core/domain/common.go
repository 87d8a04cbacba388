package domain

import "time"

// AuditFields holds the timestamps the backend stamps on every record.
// They are read-only from the client's point of view.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
