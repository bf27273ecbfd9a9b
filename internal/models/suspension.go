package models

import "time"

// ApprovalStatus is the tri-state lifecycle of a suspension record. A record
// is created pending and transitions exactly once to approved or rejected.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// Valid reports whether the status is one of the three known values.
func (s ApprovalStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// DaySession is the half-day marker on the start and end of a suspension.
type DaySession string

const (
	SessionAM DaySession = "AM"
	SessionPM DaySession = "PM"
)

// Valid reports whether the session is AM or PM.
func (d DaySession) Valid() bool {
	return d == SessionAM || d == SessionPM
}

// DateField selects which date column a range filter applies to.
type DateField string

const (
	DateFieldIncident DateField = "incident"
	DateFieldStart    DateField = "start"
	DateFieldEnd      DateField = "end"
)

// Column maps the selector onto its table column. Unknown selectors fall
// back to the incident date, the filter's default.
func (f DateField) Column() string {
	switch f {
	case DateFieldStart:
		return "start_date"
	case DateFieldEnd:
		return "end_date"
	default:
		return "incident_date"
	}
}

// YearGroups is the fixed set of year groups the school records suspensions for.
var YearGroups = []int{7, 8, 9, 10, 11}

// ValidYearGroup reports membership in YearGroups.
func ValidYearGroup(year int) bool {
	for _, y := range YearGroups {
		if y == year {
			return true
		}
	}
	return false
}

// ValidSuspensionLength accepts half-day increments between 0.5 and 5 days.
func ValidSuspensionLength(days float64) bool {
	if days < 0.5 || days > 5 {
		return false
	}
	doubled := days * 2
	return doubled == float64(int(doubled))
}

// Suspension is one suspension record. Subject and temporal fields are fixed
// at creation; only the approval sub-record is ever updated afterwards.
type Suspension struct {
	ID                string         `db:"id" json:"id"`
	StudentID         string         `db:"student_id" json:"student_id"`
	StudentName       string         `db:"student_name" json:"student_name"`
	YearGroup         int            `db:"year_group" json:"year_group"`
	NumberOfDays      float64        `db:"number_of_days" json:"number_of_days"`
	IsPending         bool           `db:"is_pending" json:"is_pending"`
	IncidentDate      time.Time      `db:"incident_date" json:"incident_date"`
	StartDate         time.Time      `db:"start_date" json:"start_date"`
	StartSession      DaySession     `db:"start_session" json:"start_session"`
	EndDate           time.Time      `db:"end_date" json:"end_date"`
	EndSession        DaySession     `db:"end_session" json:"end_session"`
	ReintegrationDate *time.Time     `db:"reintegration_date" json:"reintegration_date,omitempty"`
	ArborURL          *string        `db:"arbor_url" json:"arbor_url,omitempty"`
	ApprovalStatus    ApprovalStatus `db:"approval_status" json:"approval_status"`
	ApprovalNote      *string        `db:"approval_note" json:"approval_note,omitempty"`
	ApprovedBy        *string        `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt        *time.Time     `db:"approved_at" json:"approved_at,omitempty"`
	CreatedBy         string         `db:"created_by" json:"created_by"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// SuspensionFilter captures the server-side filters of the dashboard and the
// approvals queue. Nil fields impose no constraint. Bounds are inclusive.
type SuspensionFilter struct {
	Status    *ApprovalStatus
	YearGroup *int
	DateField DateField
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
}

// StatusSummary backs the dashboard tab badges.
type StatusSummary struct {
	Pending  int `db:"pending" json:"pending"`
	Approved int `db:"approved" json:"approved"`
	Rejected int `db:"rejected" json:"rejected"`
}

// ApprovalDecision carries one approve/reject transition to the repository.
type ApprovalDecision struct {
	Status     ApprovalStatus
	Note       *string
	ApprovedBy string
	ApprovedAt time.Time
}
