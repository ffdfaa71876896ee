package domain

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a judicial process.
type Status string

const (
	StatusCreated    Status = "created"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
	StatusCanceled   Status = "canceled"
)

func (s Status) String() string { return string(s) }

type Person struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name" validate:"required,max=100"`
	LastName  string    `json:"last_name" validate:"required,max=100"`
	Cpf       string    `json:"cpf" validate:"required,len=11,numeric"`
	CreatedAt time.Time `json:"created_at" format:"date-time"`
}

// FullName joins first and last name with a single space.
func (p Person) FullName() string {
	return joinName(p.FirstName, p.LastName)
}

type Lawyer struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name" validate:"required,max=100"`
	LastName  string    `json:"last_name" validate:"required,max=100"`
	Cpf       string    `json:"cpf" validate:"required,len=11,numeric"`
	OAB       string    `json:"oab" validate:"required,max=20"`
	CreatedAt time.Time `json:"created_at" format:"date-time"`
}

func (l Lawyer) FullName() string {
	return joinName(l.FirstName, l.LastName)
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// Author is the party initiating a case. It is written once with the case.
type Author struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at" format:"date-time"`
	Depoiment string    `json:"depoiment,omitempty" label:"author_depoiment" validate:"max_depoiment"`
	PersonID  int64     `json:"person_id" label:"author_person_id" validate:"required,gt=0"`
	Cpf       string    `json:"cpf" label:"author_cpf" validate:"required,len=11,numeric"`
	Name      string    `json:"name" label:"author_name" validate:"required"`
}

// Accused is the party a case is brought against.
type Accused struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at" format:"date-time"`
	PersonID  int64     `json:"person_id" label:"accused_person_id" validate:"required,gt=0"`
	Cpf       string    `json:"cpf" label:"accused_cpf" validate:"required,len=11,numeric"`
	Name      string    `json:"name" label:"accused_name" validate:"required"`
}

// JudicialProcess is the case aggregate.
type JudicialProcess struct {
	ID             int64      `json:"id"`
	Protocol       string     `json:"protocol"`
	Author         Author     `json:"author"`
	Accused        Accused    `json:"accused"`
	LawyerID       int64      `json:"lawyer_id" validate:"required,gt=0"`
	Lawyer         *Lawyer    `json:"lawyer,omitempty" validate:"-"`
	Reason         string     `json:"reason" validate:"required,max_reason"`
	RequestedValue float64    `json:"requested_value" validate:"gte=0,max_requested_value"`
	Status         Status     `json:"status" enum:"created,in_progress,finished,canceled" validate:"required,oneof=created in_progress finished canceled"`
	CreatedAt      time.Time  `json:"created_at" format:"date-time"`
	InProgressAt   *time.Time `json:"in_progress_at,omitempty" format:"date-time"`
}

// JudicialProcessView is the denormalized read projection of a case.
type JudicialProcessView struct {
	ID              int64      `json:"id"`
	Protocol        string     `json:"protocol"`
	Status          Status     `json:"status" enum:"created,in_progress,finished,canceled"`
	Reason          string     `json:"reason"`
	RequestedValue  float64    `json:"requested_value"`
	AuthorPersonID  int64      `json:"author_person_id"`
	AuthorName      string     `json:"author_name"`
	AuthorCpf       string     `json:"author_cpf"`
	AuthorDepoiment string     `json:"author_depoiment,omitempty"`
	AccusedPersonID int64      `json:"accused_person_id"`
	AccusedName     string     `json:"accused_name"`
	AccusedCpf      string     `json:"accused_cpf"`
	LawyerID        int64      `json:"lawyer_id"`
	LawyerName      string     `json:"lawyer_name"`
	LawyerOAB       string     `json:"lawyer_oab"`
	CreatedAt       time.Time  `json:"created_at" format:"date-time"`
	InProgressAt    *time.Time `json:"in_progress_at,omitempty" format:"date-time"`
}

// CreateJudicialProcessRequest carries the input of the create use case.
type CreateJudicialProcessRequest struct {
	AuthorID        int64   `json:"author_id"`
	AccusedID       int64   `json:"accused_id"`
	LawyerID        int64   `json:"lawyer_id"`
	Reason          string  `json:"reason"`
	RequestedValue  float64 `json:"requested_value"`
	AuthorDepoiment string  `json:"author_depoiment,omitempty"`
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Payload    string `json:"payload_json"`
}

// View projects the aggregate onto its read model. Lawyer fields stay empty
// when the lawyer was not loaded.
func (p JudicialProcess) View() JudicialProcessView {
	v := JudicialProcessView{
		ID:              p.ID,
		Protocol:        p.Protocol,
		Status:          p.Status,
		Reason:          p.Reason,
		RequestedValue:  p.RequestedValue,
		AuthorPersonID:  p.Author.PersonID,
		AuthorName:      p.Author.Name,
		AuthorCpf:       p.Author.Cpf,
		AuthorDepoiment: p.Author.Depoiment,
		AccusedPersonID: p.Accused.PersonID,
		AccusedName:     p.Accused.Name,
		AccusedCpf:      p.Accused.Cpf,
		LawyerID:        p.LawyerID,
		CreatedAt:       p.CreatedAt,
		InProgressAt:    p.InProgressAt,
	}
	if p.Lawyer != nil {
		v.LawyerName = p.Lawyer.FullName()
		v.LawyerOAB = p.Lawyer.OAB
	}
	return v
}
