// Package contacts is the typed façade over the platform's contact resource.
package contacts

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/leadconnector"
	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/leadconnector/apierror"
)

const defaultListLimit = 20

var validate = validator.New()

// Service exposes contact operations.
type Service struct {
	client *leadconnector.Client
	log    zerolog.Logger
}

// NewService constructs the contacts façade.
func NewService(client *leadconnector.Client, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		log:    log.With().Str("component", "contacts").Logger(),
	}
}

// List returns a page of contacts under the tenant. Absent filter values are
// omitted from the query string; only locationId and limit are always sent.
func (s *Service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := leadconnector.Query{}.
		Set("locationId", s.client.LocationID()).
		SetInt("limit", limit).
		Set("query", params.Query).
		SetInt64("startAfter", params.StartAfter).
		Set("startAfterId", params.StartAfterID)

	env, err := s.client.Get(ctx, "/contacts/", query)
	if err != nil {
		return nil, err
	}

	var body struct {
		Contacts []Contact `json:"contacts"`
	}
	if err := env.Decode(&body); err != nil {
		return nil, err
	}

	result := &ListResult{Contacts: body.Contacts}
	if env.Meta != nil {
		result.Total = env.Meta.Total
		result.StartAfter = env.Meta.StartAfter
		result.StartAfterID = env.Meta.StartAfterID
	}
	return result, nil
}

// Get fetches one contact by id.
func (s *Service) Get(ctx context.Context, id string) (*Contact, error) {
	if id == "" {
		return nil, fmt.Errorf("contact id is required")
	}

	env, err := s.client.Get(ctx, "/contacts/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeContact(env)
}

// Create registers a new contact under the tenant. The platform assigns the
// id.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Contact, error) {
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("validate create params: %w", err)
	}

	body := map[string]any{"locationId": s.client.LocationID()}
	mergeContactFields(body, params)

	env, err := s.client.Post(ctx, "/contacts/", body, nil)
	if err != nil {
		return nil, err
	}
	return decodeContact(env)
}

// Update modifies an existing contact. Absent fields stay unchanged.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Contact, error) {
	if id == "" {
		return nil, fmt.Errorf("contact id is required")
	}
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("validate update params: %w", err)
	}

	env, err := s.client.Put(ctx, "/contacts/"+id, params, nil)
	if err != nil {
		return nil, err
	}
	return decodeContact(env)
}

// Delete removes a contact.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("contact id is required")
	}
	_, err := s.client.Delete(ctx, "/contacts/"+id, nil, nil)
	return err
}

// AddTags attaches tags to a contact. Tag order is irrelevant to the platform.
func (s *Service) AddTags(ctx context.Context, id string, tags []string) error {
	if id == "" {
		return fmt.Errorf("contact id is required")
	}
	if len(tags) == 0 {
		return nil
	}
	_, err := s.client.Post(ctx, "/contacts/"+id+"/tags", map[string]any{"tags": tags}, nil)
	return err
}

// RemoveTags detaches tags from a contact.
func (s *Service) RemoveTags(ctx context.Context, id string, tags []string) error {
	if id == "" {
		return fmt.Errorf("contact id is required")
	}
	if len(tags) == 0 {
		return nil
	}
	_, err := s.client.Delete(ctx, "/contacts/"+id+"/tags", map[string]any{"tags": tags}, nil)
	return err
}

// Lookup finds a contact by email or phone. A remote not-found is a
// success-shaped nil, not an error: Lookup is an existence probe, and this is
// the one place the gateway swallows a remote failure.
func (s *Service) Lookup(ctx context.Context, params LookupParams) (*Contact, error) {
	if params.Email == "" && params.Phone == "" {
		return nil, fmt.Errorf("lookup requires an email or a phone")
	}
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("validate lookup params: %w", err)
	}

	query := leadconnector.Query{}.
		Set("locationId", s.client.LocationID()).
		Set("email", params.Email).
		Set("phone", params.Phone)

	env, err := s.client.Get(ctx, "/contacts/lookup", query)
	if err != nil {
		if apierror.StatusOf(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	var body struct {
		Contacts []Contact `json:"contacts"`
	}
	if err := env.Decode(&body); err != nil {
		return nil, err
	}
	if len(body.Contacts) == 0 {
		return nil, nil
	}
	return &body.Contacts[0], nil
}

// Upsert delegates create-or-update resolution entirely to the platform.
func (s *Service) Upsert(ctx context.Context, params UpsertParams) (*UpsertResult, error) {
	if params.Email == "" && params.Phone == "" {
		return nil, fmt.Errorf("upsert requires an email or a phone")
	}
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("validate upsert params: %w", err)
	}

	body := map[string]any{"locationId": s.client.LocationID()}
	mergeContactFields(body, params)

	env, err := s.client.Post(ctx, "/contacts/upsert", body, nil)
	if err != nil {
		return nil, err
	}

	var result UpsertResult
	if err := env.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func decodeContact(env *leadconnector.Envelope) (*Contact, error) {
	var body struct {
		Contact Contact `json:"contact"`
	}
	if err := env.Decode(&body); err != nil {
		return nil, err
	}
	return &body.Contact, nil
}

// mergeContactFields folds non-zero params into the request body so the
// locationId set by the caller survives.
func mergeContactFields(body map[string]any, params CreateParams) {
	setIf := func(key, value string) {
		if value != "" {
			body[key] = value
		}
	}
	setIf("firstName", params.FirstName)
	setIf("lastName", params.LastName)
	setIf("name", params.Name)
	setIf("companyName", params.CompanyName)
	setIf("email", params.Email)
	setIf("phone", params.Phone)
	setIf("address1", params.Address1)
	setIf("city", params.City)
	setIf("state", params.State)
	setIf("postalCode", params.PostalCode)
	setIf("country", params.Country)
	setIf("website", params.Website)
	setIf("source", params.Source)
	if len(params.Tags) > 0 {
		body["tags"] = params.Tags
	}
	if len(params.CustomFields) > 0 {
		body["customFields"] = params.CustomFields
	}
}
