package model

import "time"

// Metadata carries the audit columns shared by every table, plus the
// soft-delete flag. A row with Deleted set must never surface from a lookup
// or take part in a uniqueness check.
type Metadata struct {
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
	CreatedBy  string    `db:"created_by"  json:"created_by"`
	ModifiedBy string    `db:"modified_by" json:"modified_by"`
	Deleted    bool      `db:"deleted"     json:"deleted"`
}
