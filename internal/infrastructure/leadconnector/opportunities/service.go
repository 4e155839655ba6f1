// Package opportunities is the typed façade over the platform's sales
// pipeline resource: pipelines, stages and opportunities.
package opportunities

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/leadconnector"
)

const defaultSearchLimit = 20

var validate = validator.New()

// Service exposes pipeline and opportunity operations.
type Service struct {
	client *leadconnector.Client
	log    zerolog.Logger
}

// NewService constructs the opportunities façade.
func NewService(client *leadconnector.Client, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		log:    log.With().Str("component", "opportunities").Logger(),
	}
}

// ListPipelines returns every pipeline under the tenant with its ordered
// stages.
func (s *Service) ListPipelines(ctx context.Context) ([]Pipeline, error) {
	query := leadconnector.Query{}.Set("locationId", s.client.LocationID())

	env, err := s.client.Get(ctx, "/opportunities/pipelines", query)
	if err != nil {
		return nil, err
	}

	var body struct {
		Pipelines []Pipeline `json:"pipelines"`
	}
	if err := env.Decode(&body); err != nil {
		return nil, err
	}
	return body.Pipelines, nil
}

// GetPipeline fetches one pipeline by id.
func (s *Service) GetPipeline(ctx context.Context, id string) (*Pipeline, error) {
	if id == "" {
		return nil, fmt.Errorf("pipeline id is required")
	}

	query := leadconnector.Query{}.Set("locationId", s.client.LocationID())
	env, err := s.client.Get(ctx, "/opportunities/pipelines/"+id, query)
	if err != nil {
		return nil, err
	}

	var body struct {
		Pipeline Pipeline `json:"pipeline"`
	}
	if err := env.Decode(&body); err != nil {
		return nil, err
	}
	return &body.Pipeline, nil
}

// Search lists opportunities with optional filters. Absent filters are
// omitted from the query string.
func (s *Service) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	query := leadconnector.Query{}.
		Set("locationId", s.client.LocationID()).
		SetInt("limit", limit).
		Set("pipelineId", params.PipelineID).
		Set("pipelineStageId", params.StageID).
		Set("status", string(params.Status)).
		Set("assignedTo", params.AssignedTo).
		Set("contactId", params.ContactID).
		Set("query", params.Query).
		SetInt64("startAfter", params.StartAfter).
		Set("startAfterId", params.StartAfterID).
		SetBool("includeCalendarEvents", params.IncludeCalendarEvents).
		SetBool("includeNotes", params.IncludeNotes).
		SetBool("includeTasks", params.IncludeTasks)

	env, err := s.client.Get(ctx, "/opportunities/search", query)
	if err != nil {
		return nil, err
	}

	var body struct {
		Opportunities []Opportunity `json:"opportunities"`
	}
	if err := env.Decode(&body); err != nil {
		return nil, err
	}

	result := &SearchResult{Opportunities: body.Opportunities}
	if env.Meta != nil {
		result.Total = env.Meta.Total
		result.StartAfter = env.Meta.StartAfter
		result.StartAfterID = env.Meta.StartAfterID
	}
	return result, nil
}

// Get fetches one opportunity by id.
func (s *Service) Get(ctx context.Context, id string) (*Opportunity, error) {
	if id == "" {
		return nil, fmt.Errorf("opportunity id is required")
	}

	env, err := s.client.Get(ctx, "/opportunities/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeOpportunity(env)
}

// Create opens a new opportunity. Status defaults to open when unset.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Opportunity, error) {
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("validate create params: %w", err)
	}
	if params.Status == "" {
		params.Status = StatusOpen
	}
	if !ValidateStatus(string(params.Status)) {
		return nil, fmt.Errorf("unknown opportunity status %q", params.Status)
	}

	body := map[string]any{
		"locationId":    s.client.LocationID(),
		"name":          params.Name,
		"pipelineId":    params.PipelineID,
		"contactId":     params.ContactID,
		"status":        params.Status,
		"monetaryValue": params.MonetaryValue,
	}
	if params.PipelineStageID != "" {
		body["pipelineStageId"] = params.PipelineStageID
	}
	if params.AssignedTo != "" {
		body["assignedTo"] = params.AssignedTo
	}
	if params.Source != "" {
		body["source"] = params.Source
	}

	env, err := s.client.Post(ctx, "/opportunities/", body, nil)
	if err != nil {
		return nil, err
	}
	return decodeOpportunity(env)
}

// Update modifies an opportunity, including stage moves and status changes.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Opportunity, error) {
	if id == "" {
		return nil, fmt.Errorf("opportunity id is required")
	}
	if params.Status != "" && !ValidateStatus(string(params.Status)) {
		return nil, fmt.Errorf("unknown opportunity status %q", params.Status)
	}

	env, err := s.client.Put(ctx, "/opportunities/"+id, params, nil)
	if err != nil {
		return nil, err
	}
	return decodeOpportunity(env)
}

// MoveToStage moves an opportunity to another stage of its pipeline without
// touching its status.
func (s *Service) MoveToStage(ctx context.Context, id, stageID string) (*Opportunity, error) {
	if stageID == "" {
		return nil, fmt.Errorf("stage id is required")
	}
	return s.Update(ctx, id, UpdateParams{PipelineStageID: stageID})
}

// UpdateStatus changes an opportunity's status without moving its stage.
func (s *Service) UpdateStatus(ctx context.Context, id string, status OpportunityStatus) (*Opportunity, error) {
	if !ValidateStatus(string(status)) {
		return nil, fmt.Errorf("unknown opportunity status %q", status)
	}
	return s.Update(ctx, id, UpdateParams{Status: status})
}

// Delete removes an opportunity.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("opportunity id is required")
	}
	_, err := s.client.Delete(ctx, "/opportunities/"+id, nil, nil)
	return err
}

func decodeOpportunity(env *leadconnector.Envelope) (*Opportunity, error) {
	var body struct {
		Opportunity Opportunity `json:"opportunity"`
	}
	if err := env.Decode(&body); err != nil {
		return nil, err
	}
	return &body.Opportunity, nil
}
