package opportunities

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpportunityStatus is the business status of a deal, independent of its
// pipeline stage. Moving stages never changes status. won, lost and abandoned
// are terminal for this gateway's purposes: the API permits further calls,
// but no meaningful lifecycle is modeled past them.
type OpportunityStatus string

const (
	StatusOpen      OpportunityStatus = "open"
	StatusWon       OpportunityStatus = "won"
	StatusLost      OpportunityStatus = "lost"
	StatusAbandoned OpportunityStatus = "abandoned"
)

// ValidateStatus reports whether input names a known opportunity status.
func ValidateStatus(input string) bool {
	switch OpportunityStatus(input) {
	case StatusOpen, StatusWon, StatusLost, StatusAbandoned:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether a status ends the modeled lifecycle.
func (s OpportunityStatus) IsTerminal() bool {
	return s == StatusWon || s == StatusLost || s == StatusAbandoned
}

// Stage is one step in a pipeline. Stages are owned by exactly one pipeline
// and never shared.
type Stage struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Pipeline is a named, ordered list of stages.
type Pipeline struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	LocationID string  `json:"locationId,omitempty"`
	Stages     []Stage `json:"stages"`
}

// Opportunity is a monetary record attached to one contact, sitting in
// exactly one stage of exactly one pipeline.
type Opportunity struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	LocationID      string            `json:"locationId,omitempty"`
	PipelineID      string            `json:"pipelineId"`
	PipelineStageID string            `json:"pipelineStageId"`
	ContactID       string            `json:"contactId"`
	Status          OpportunityStatus `json:"status"`
	MonetaryValue   decimal.Decimal   `json:"monetaryValue"`
	AssignedTo      string            `json:"assignedTo,omitempty"`
	Source          string            `json:"source,omitempty"`
	DateAdded       time.Time         `json:"dateAdded,omitzero"`
	DateUpdated     time.Time         `json:"dateUpdated,omitzero"`
}

// SearchParams filters the opportunity search. Zero-valued fields are
// omitted from the request entirely.
type SearchParams struct {
	PipelineID   string
	StageID      string
	Status       OpportunityStatus
	AssignedTo   string
	ContactID    string
	Query        string
	Limit        int
	StartAfter   int64
	StartAfterID string

	IncludeCalendarEvents bool
	IncludeNotes          bool
	IncludeTasks          bool
}

// SearchResult is a page of opportunities plus cursor hints.
type SearchResult struct {
	Opportunities []Opportunity
	Total         int
	StartAfter    int64
	StartAfterID  string
}

// CreateParams carries the fields accepted on opportunity creation.
type CreateParams struct {
	Name            string            `json:"name" validate:"required"`
	PipelineID      string            `json:"pipelineId" validate:"required"`
	PipelineStageID string            `json:"pipelineStageId,omitempty"`
	ContactID       string            `json:"contactId" validate:"required"`
	Status          OpportunityStatus `json:"status,omitempty"`
	MonetaryValue   decimal.Decimal   `json:"monetaryValue,omitempty"`
	AssignedTo      string            `json:"assignedTo,omitempty"`
	Source          string            `json:"source,omitempty"`
}

// UpdateParams carries the fields accepted on opportunity update, including
// stage moves and status changes. Absent fields stay unchanged.
type UpdateParams struct {
	Name            string            `json:"name,omitempty"`
	PipelineStageID string            `json:"pipelineStageId,omitempty"`
	Status          OpportunityStatus `json:"status,omitempty"`
	MonetaryValue   *decimal.Decimal  `json:"monetaryValue,omitempty"`
	AssignedTo      string            `json:"assignedTo,omitempty"`
	Source          string            `json:"source,omitempty"`
}

// StageCount is the open-opportunity aggregate for one stage.
type StageCount struct {
	StageID       string          `json:"stageId"`
	StageName     string          `json:"stageName"`
	Count         int             `json:"count"`
	MonetaryValue decimal.Decimal `json:"monetaryValue"`
}

// PipelineCounts is the per-stage aggregation for one pipeline. Every stage
// appears, including those with zero open opportunities.
type PipelineCounts struct {
	Pipeline   Pipeline        `json:"pipeline"`
	Stages     []StageCount    `json:"stages"`
	TotalCount int             `json:"totalCount"`
	TotalValue decimal.Decimal `json:"totalValue"`
}
