package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// ErrInvalidArgument is the sentinel for rejected caller input. Callers
// detect it with errors.Is; the wrapping message carries the detail.
var ErrInvalidArgument = eris.New("invalid argument")

// IssueStatus represents the triage state of an issue.
type IssueStatus string

const (
	StatusReported   IssueStatus = "reported"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
)

// ValidStatus reports whether s is one of the known issue statuses.
func ValidStatus(s IssueStatus) bool {
	switch s {
	case StatusReported, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks the coordinate against valid geographic ranges.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return eris.Wrapf(ErrInvalidArgument, "model: latitude %v out of range [-90, 90]", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return eris.Wrapf(ErrInvalidArgument, "model: longitude %v out of range [-180, 180]", c.Lng)
	}
	return nil
}

// Issue represents a citizen-submitted civic problem report.
type Issue struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    Category    `json:"category"`
	Status      IssueStatus `json:"status"`
	Coordinates Coordinate  `json:"coordinates"`
	ReportedBy  string      `json:"reported_by,omitempty"`
	Anonymous   bool        `json:"is_anonymous"`
	Upvotes     int         `json:"upvotes"`
	Flagged     bool        `json:"flagged"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IssueDraft is the caller-supplied portion of a new issue. The store
// assigns the ID, status, counters, and timestamps on insert.
type IssueDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Coordinates Coordinate `json:"coordinates"`
	ReportedBy  string     `json:"reported_by,omitempty"`
	Anonymous   bool       `json:"is_anonymous"`
}

// Validate checks the draft for storable contents.
func (d IssueDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return eris.Wrap(ErrInvalidArgument, "model: issue title is required")
	}
	if !ValidCategory(d.Category) {
		return eris.Wrapf(ErrInvalidArgument, "model: unknown category %q", string(d.Category))
	}
	return d.Coordinates.Validate()
}

// RankedIssue is an Issue annotated with its distance in kilometers from a
// reference coordinate. It exists only as a filter/sort result and is never
// persisted.
type RankedIssue struct {
	Issue
	Distance float64 `json:"distance_km"`
}
