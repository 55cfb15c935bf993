/*
dto.go - Data Transfer Objects for the Sync API

PURPOSE:
  Defines the JSON structures of the wire contract. Field names match what
  existing clients already send and read (camelCase, dates as YYYY-MM-DD).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Small fixed-shape replies

TEXT FIELDS:
  SaveLogRequest.Text and AddRuleRequest.Text are kept raw so handlers can
  tell a missing or null value apart from a non-string one.

SEE ALSO:
  - handlers.go: Uses these types
  - habit/types.go: Domain model
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/monkmode/monkmode/habit"
)

// =============================================================================
// DOCUMENT
// =============================================================================

// DocumentDTO is the full document as returned by GET /data and the mutating endpoints.
type DocumentDTO struct {
	CurrentDate habit.Date            `json:"currentDate"`
	Today       []habit.Routine       `json:"today"`
	History     habit.History         `json:"history"`
	Logs        map[habit.Date]string `json:"logs"`
	Rules       []RuleDTO             `json:"rules"`
}

// RuleDTO represents a rule in API responses.
type RuleDTO struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func toDocumentDTO(doc *habit.Document) DocumentDTO {
	doc.Normalize()
	return DocumentDTO{
		CurrentDate: doc.CurrentDate,
		Today:       doc.Today,
		History:     doc.History,
		Logs:        doc.Logs,
		Rules:       toRuleDTOs(doc.Rules),
	}
}

func toRuleDTOs(rules []habit.Rule) []RuleDTO {
	out := make([]RuleDTO, 0, len(rules))
	for _, r := range rules {
		out = append(out, RuleDTO{ID: r.ID, Text: r.Text, CreatedAt: r.CreatedAt})
	}
	return out
}

// =============================================================================
// REQUESTS
// =============================================================================

// SaveRequest is the body of POST /save.
type SaveRequest struct {
	CurrentDate habit.Date      `json:"currentDate"`
	Today       []habit.Routine `json:"today"`
	History     habit.History   `json:"history"`
}

// SaveLogRequest is the body of POST /save-log.
type SaveLogRequest struct {
	Date string          `json:"date"`
	Text json.RawMessage `json:"text"`
}

// AddRuleRequest is the body of POST /add-rule.
type AddRuleRequest struct {
	Text json.RawMessage `json:"text"`
}

// =============================================================================
// RESPONSES
// =============================================================================

// SkippedResponse acknowledges a blank input that was not stored.
type SkippedResponse struct {
	Success bool `json:"success"`
	Skipped bool `json:"skipped"`
}

// AddRuleResponse returns the full rule list after an append.
type AddRuleResponse struct {
	Success bool      `json:"success"`
	Rules   []RuleDTO `json:"rules"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
