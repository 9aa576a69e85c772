// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package content implements the lifecycle of community-submitted entities:
// submission under the publication policy, owner edits, and moderation decisions.
//
// # Architecture
//
// Every kind (hub, job, event, ...) is stored in one table discriminated by [Kind].
// The display field and the kind-specific descriptive fields travel as a [Payload];
// status is owned by the [Policy] at creation and by the [ModerationEngine] afterwards.
package content

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/taibuivan/techhub/internal/platform/validate"
	"github.com/taibuivan/techhub/pkg/slug"
)

// # Kinds

// Kind discriminates the submittable entity types.
type Kind string

const (
	KindHub              Kind = "hub"
	KindCommunity        Kind = "community"
	KindStartup          Kind = "startup"
	KindJob              Kind = "job"
	KindGig              Kind = "gig"
	KindLearningResource Kind = "learning_resource"
	KindEvent            Kind = "event"
	KindOpportunity      Kind = "opportunity"
	KindBlogPost         Kind = "blog_post"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{
	KindHub, KindCommunity, KindStartup, KindJob, KindGig,
	KindLearningResource, KindEvent, KindOpportunity, KindBlogPost,
}

// ParseKind validates a kind coming from a route or request body.
func ParseKind(raw string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Kinds {
		if kind == known {
			return kind, nil
		}
	}
	return "", validate.RequiredError(FieldKind, fmt.Sprintf("Unknown content kind %q", raw))
}

// DisplayField is the payload key holding the entity's headline.
func (k Kind) DisplayField() string {
	switch k {
	case KindHub, KindCommunity, KindStartup:
		return FieldName
	default:
		return FieldTitle
	}
}

// RequiredFields lists the payload keys that must be present and non-empty.
func (k Kind) RequiredFields() []string {
	switch k {
	case KindHub, KindCommunity, KindStartup:
		return []string{FieldName}
	case KindJob:
		return []string{FieldTitle, "company"}
	case KindGig:
		return []string{FieldTitle}
	case KindLearningResource:
		return []string{FieldTitle, "url"}
	case KindEvent:
		return []string{FieldTitle, "starts_at"}
	case KindOpportunity:
		return []string{FieldTitle, "deadline"}
	case KindBlogPost:
		return []string{FieldTitle, "content"}
	default:
		return nil
	}
}

// # Status

// Status is the publication state of an entity.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus validates a status filter value.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return status, nil
	}
	return "", validate.RequiredError(FieldStatus, "Must be one of: pending, approved, rejected")
}

// # Fields

const (
	FieldKind        = "kind"
	FieldName        = "name"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"

	maxTitleLength       = 200
	maxDescriptionLength = 5000
)

// Server-managed keys are dropped from client payloads.
var reservedFields = []string{
	"id", FieldKind, FieldStatus, "featured", "submitter_id", "slug", "created_at", "updated_at",
}

var (
	urlFields  = []string{"url", "website", "apply_url"}
	dateFields = []string{"starts_at", "deadline"}
)

// # Entity

// Ref identifies an entity of a given kind.
type Ref struct {
	Kind Kind
	ID   int64
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

// Payload is the client-supplied body of a submission or edit.
type Payload map[string]any

// Entity is a stored submission of any kind.
type Entity struct {
	ID          int64
	Kind        Kind
	Title       string
	Slug        string
	Description string
	Attributes  map[string]any
	Status      Status
	SubmitterID *int64
	Featured    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Ref returns the entity's identity.
func (e *Entity) Ref() Ref {
	return Ref{Kind: e.Kind, ID: e.ID}
}

// IsOwnedBy reports whether userID submitted the entity. Anonymous entities have no owner.
func (e *Entity) IsOwnedBy(userID int64) bool {
	return userID != 0 && e.SubmitterID != nil && *e.SubmitterID == userID
}

// Payload rebuilds the client-facing fields, as accepted by [ParsePayload].
func (e *Entity) Payload() Payload {
	payload := Payload{}
	maps.Copy(payload, e.Attributes)
	payload[e.Kind.DisplayField()] = e.Title
	if e.Description != "" {
		payload[FieldDescription] = e.Description
	}
	return payload
}

// MarshalJSON flattens the attributes next to the managed fields, so a hub
// serializes with "name" and a job with "title", matching what was submitted.
func (e *Entity) MarshalJSON() ([]byte, error) {
	out := e.Payload()
	out["id"] = e.ID
	out[FieldKind] = e.Kind
	out["slug"] = e.Slug
	out[FieldStatus] = e.Status
	out["submitter_id"] = e.SubmitterID
	out["featured"] = e.Featured
	out["created_at"] = e.CreatedAt
	out["updated_at"] = e.UpdatedAt
	return json.Marshal(out)
}

// # Listing

// Filter narrows a list query. A nil Status means approved entities only.
type Filter struct {
	Status      *Status
	Featured    *bool
	SubmitterID *int64
	Query       string
}

// # Payload Parsing

/*
ParsePayload validates a payload for the given kind and splits it into entity fields.

Required fields must be non-empty strings. URL fields must be http(s) URLs and date
fields are normalized to RFC 3339 in UTC. All failures are reported together.

Returns:
  - *Entity: Title, Slug, Description and Attributes populated
  - error: VALIDATION_ERROR with per-field details
*/
func ParsePayload(kind Kind, payload Payload) (*Entity, error) {
	validator := &validate.Validator{}

	fields := make(map[string]any, len(payload))
	for key, value := range payload {
		fields[strings.TrimSpace(key)] = value
	}
	for _, key := range reservedFields {
		delete(fields, key)
	}

	// Every key with a textual rule is type-checked once
	texts := map[string]string{}
	textual := append([]string{kind.DisplayField(), FieldDescription}, kind.RequiredFields()...)
	textual = append(textual, urlFields...)
	textual = append(textual, dateFields...)
	for _, key := range textual {
		value, present := fields[key]
		if !present || value == nil {
			continue
		}
		if _, seen := texts[key]; seen {
			continue
		}
		text, ok := value.(string)
		if !ok {
			validator.Custom(key, true, "Must be a string")
			texts[key] = ""
			continue
		}
		texts[key] = strings.TrimSpace(text)
		fields[key] = texts[key]
	}

	for _, key := range kind.RequiredFields() {
		if _, isString := fields[key].(string); isString || fields[key] == nil {
			validator.Required(key, texts[key])
		}
	}

	for _, key := range urlFields {
		if text := texts[key]; text != "" {
			validator.URL(key, text)
		}
	}

	for _, key := range dateFields {
		text := texts[key]
		if text == "" {
			continue
		}
		parsed, valid := validate.ParseDate(text)
		validator.Custom(key, !valid, "Must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
		if valid {
			fields[key] = parsed.Format(time.RFC3339)
		}
	}

	displayField := kind.DisplayField()
	title, description := texts[displayField], texts[FieldDescription]
	validator.
		MaxLen(displayField, title, maxTitleLength).
		MaxLen(FieldDescription, description, maxDescriptionLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	delete(fields, displayField)
	delete(fields, FieldDescription)

	return &Entity{
		Kind:        kind,
		Title:       title,
		Slug:        slug.From(title),
		Description: description,
		Attributes:  fields,
	}, nil
}
