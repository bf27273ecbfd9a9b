package models

import "time"

// Student is a roster entry used by the creation form's lookup. The
// suspension record keeps a denormalized copy of the name rather than a
// foreign key, so the roster is read-only to this service.
type Student struct {
	ID          string    `db:"id" json:"id"`
	StudentName string    `db:"student_name" json:"student_name"`
	YearGroup   *int      `db:"year_group" json:"year_group,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
