package models

import "fmt"

// YearStatus classifies an academic-year row.
type YearStatus string

const (
	YearStatusActive   YearStatus = "Active"
	YearStatusUnlisted YearStatus = "Unlisted"
	YearStatusArchived YearStatus = "Archived"
)

// AcademicYear is a school-year range plus the single currently open
// year within it. Field names follow the legacy PHP payloads.
type AcademicYear struct {
	ID         int        `json:"id"`
	StartYear  int        `json:"start_year"`
	EndYear    int        `json:"end_year"`
	ActiveYear int        `json:"active_year"`
	Status     YearStatus `json:"status"`
	CreatedAt  string     `json:"created_at"`
}

// Label renders the range the way the portal header shows it.
func (y AcademicYear) Label() string {
	return fmt.Sprintf("%d - %d", y.StartYear, y.EndYear)
}

// IsActive reports whether this row is the portal-wide active range.
func (y AcademicYear) IsActive() bool {
	return y.Status == YearStatusActive
}

// Semester identifies which half of a school-year range is open.
type Semester int

const (
	SemesterFirst Semester = iota + 1
	SemesterSecond
)

// String implements fmt.Stringer.
func (s Semester) String() string {
	if s == SemesterSecond {
		return "Second Semester"
	}
	return "First Semester"
}

// SemesterFor derives the open semester from the active single year.
// The first semester runs in the range's start year, the second in
// its end year. An ambiguous or missing active year defaults to the
// first semester; the upstream contract never promises the field.
func (y AcademicYear) SemesterFor(activeYear int) Semester {
	if activeYear == y.EndYear {
		return SemesterSecond
	}
	return SemesterFirst
}
