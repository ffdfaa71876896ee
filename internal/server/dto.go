package server

import (
	"encoding/json"
	"time"

	"delega/internal/domain"
)

// Request payloads

type CreatePersonRequest struct {
	FirstName string `json:"first_name" maxLength:"100"`
	LastName  string `json:"last_name" maxLength:"100"`
	Cpf       string `json:"cpf" example:"12345678901"`
}

type CreateLawyerRequest struct {
	FirstName string `json:"first_name" maxLength:"100"`
	LastName  string `json:"last_name" maxLength:"100"`
	Cpf       string `json:"cpf" example:"12345678901"`
	OAB       string `json:"oab" example:"SP123456"`
}

type CreateJudicialProcessRequest struct {
	AuthorID        int64   `json:"author_id" example:"1"`
	AccusedID       int64   `json:"accused_id" example:"2"`
	LawyerID        int64   `json:"lawyer_id" example:"3"`
	Reason          string  `json:"reason" example:"theft"`
	RequestedValue  float64 `json:"requested_value" example:"100"`
	AuthorDepoiment string  `json:"author_depoiment,omitempty"`
}

// Response payloads

type PersonResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Name      string    `json:"name"`
	Cpf       string    `json:"cpf"`
	CreatedAt time.Time `json:"created_at" format:"date-time"`
}

type LawyerResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Name      string    `json:"name"`
	Cpf       string    `json:"cpf"`
	OAB       string    `json:"oab"`
	CreatedAt time.Time `json:"created_at" format:"date-time"`
}

type EventResponse struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts" format:"date-time"`
	Type       string         `json:"type"`
	EntityKind string         `json:"entity_kind"`
	EntityID   string         `json:"entity_id,omitempty"`
	ActorID    string         `json:"actor_id"`
	Payload    map[string]any `json:"payload"`
}

type paginatedEvents struct {
	Items      []EventResponse `json:"items"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// Conversion helpers

func (r CreateJudicialProcessRequest) toDomain() domain.CreateJudicialProcessRequest {
	return domain.CreateJudicialProcessRequest(r)
}

func personResponse(p domain.Person) PersonResponse {
	return PersonResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Name:      p.FullName(),
		Cpf:       p.Cpf,
		CreatedAt: p.CreatedAt,
	}
}

func lawyerResponse(l domain.Lawyer) LawyerResponse {
	return LawyerResponse{
		ID:        l.ID,
		FirstName: l.FirstName,
		LastName:  l.LastName,
		Name:      l.FullName(),
		Cpf:       l.Cpf,
		OAB:       l.OAB,
		CreatedAt: l.CreatedAt,
	}
}

func mapPersons(items []domain.Person) []PersonResponse {
	res := make([]PersonResponse, 0, len(items))
	for _, p := range items {
		res = append(res, personResponse(p))
	}
	return res
}

func mapLawyers(items []domain.Lawyer) []LawyerResponse {
	res := make([]LawyerResponse, 0, len(items))
	for _, l := range items {
		res = append(res, lawyerResponse(l))
	}
	return res
}

func eventResponse(e domain.Event) EventResponse {
	return EventResponse{
		ID:         e.ID,
		TS:         e.TS,
		Type:       e.Type,
		EntityKind: e.EntityKind,
		EntityID:   e.EntityID,
		ActorID:    e.ActorID,
		Payload:    decodeJSONMap(e.Payload),
	}
}

func decodeJSONMap(raw string) map[string]any {
	out := map[string]any{}
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return map[string]any{"raw": raw}
	}
	return out
}
