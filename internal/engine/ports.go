package engine

import (
	"context"

	"delega/internal/domain"
	"delega/internal/events"
	"delega/internal/validation"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// PersonLookup resolves registered people. Unknown ids return repo.ErrNotFound.
type PersonLookup interface {
	GetPerson(ctx context.Context, id int64) (domain.Person, error)
}

// LawyerLookup resolves registered lawyers. Unknown ids return repo.ErrNotFound.
type LawyerLookup interface {
	GetLawyer(ctx context.Context, id int64) (domain.Lawyer, error)
}

// CaseRepository stores judicial processes. Writes go through the unit of work carried by ctx.
type CaseRepository interface {
	AddJudicialProcess(ctx context.Context, p domain.JudicialProcess) (domain.JudicialProcess, error)
	// UpdateJudicialProcess returns repo.ErrStatusChanged when the stored status is no longer from.
	UpdateJudicialProcess(ctx context.Context, p domain.JudicialProcess, from domain.Status) (domain.JudicialProcess, error)
	GetJudicialProcessView(ctx context.Context, id int64) (domain.JudicialProcessView, error)
	GetJudicialProcessWithRelations(ctx context.Context, id int64) (domain.JudicialProcess, error)
	ListJudicialProcessViews(ctx context.Context) ([]domain.JudicialProcessView, error)
	ListJudicialProcessesWithRelations(ctx context.Context) ([]domain.JudicialProcess, error)
}

// UnitOfWork commits every write issued with the returned context atomically.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context)
}

// EventLog records case events inside the current unit of work.
type EventLog interface {
	Append(ctx context.Context, evtType, entityKind, entityID, actorID string, payload events.Payload) error
}

// Validator checks an assembled process and registry records.
type Validator interface {
	Validate(p domain.JudicialProcess) validation.Result
	Check(v any) validation.Result
}

// Registry stores people and lawyers referenced by cases.
type Registry interface {
	PersonLookup
	LawyerLookup
	InsertPerson(ctx context.Context, p domain.Person) (domain.Person, error)
	InsertLawyer(ctx context.Context, l domain.Lawyer) (domain.Lawyer, error)
}
