package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"delega/internal/config"
	"delega/internal/db"
	"delega/internal/domain"
	"delega/internal/events"
	"delega/internal/logging"
	"delega/internal/metrics"
	"delega/internal/repo"
	"delega/internal/validation"
)

// Engine runs the judicial process use cases. Each call runs sequentially and
// issues at most one commit.
type Engine struct {
	Repo      repo.Repo
	Registry  Registry
	Cases     CaseRepository
	UoW       UnitOfWork
	Events    EventLog
	Validator Validator
	Config    *config.Config
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	Now       func() time.Time
}

// New wires the SQL-backed collaborators for db and builds the validator from cfg.
func New(conn *sql.DB, cfg *config.Config) (Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	v, err := validation.New(cfg.Validation)
	if err != nil {
		return Engine{}, err
	}
	r := repo.Repo{DB: conn}
	return Engine{
		Repo:      r,
		Registry:  r,
		Cases:     r,
		UoW:       db.UnitOfWork{DB: conn},
		Events:    events.Writer{DB: conn},
		Validator: v,
		Config:    cfg,
		Now:       time.Now,
	}, nil
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return logging.Discard()
}

type actorKey struct{}

// WithActor attaches the acting principal recorded on case events.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFrom returns the actor attached with WithActor, or "system".
func ActorFrom(ctx context.Context) string {
	if id, ok := ctx.Value(actorKey{}).(string); ok && id != "" {
		return id
	}
	return "system"
}

// AddJudicialProcess builds, validates and stores a new case and returns its view.
func (e Engine) AddJudicialProcess(ctx context.Context, req domain.CreateJudicialProcessRequest) (domain.JudicialProcessView, error) {
	view, err := e.addJudicialProcess(ctx, req)
	if err != nil {
		e.fail(ctx, "create", err)
		return domain.JudicialProcessView{}, err
	}
	e.Metrics.IncCreated()
	e.logger().InfoContext(ctx, "judicial process created", "id", view.ID, "protocol", view.Protocol, "actor", ActorFrom(ctx))
	return view, nil
}

func (e Engine) addJudicialProcess(ctx context.Context, req domain.CreateJudicialProcessRequest) (domain.JudicialProcessView, error) {
	p, err := e.BuildJudicialProcess(ctx, req)
	if err != nil {
		return domain.JudicialProcessView{}, err
	}
	if res := e.Validator.Validate(p); !res.Valid {
		return domain.JudicialProcessView{}, validationFailed(res.Violations)
	}

	txCtx, err := e.UoW.Begin(ctx)
	if err != nil {
		return domain.JudicialProcessView{}, persistenceFailed("cannot start unit of work", err)
	}
	defer e.UoW.Rollback(txCtx)

	stored, err := e.Cases.AddJudicialProcess(txCtx, p)
	if err != nil {
		return domain.JudicialProcessView{}, err
	}
	if err := e.Events.Append(txCtx, events.TypeJudicialProcessCreated, "judicial_process", strconv.FormatInt(stored.ID, 10), ActorFrom(ctx), events.Payload{
		"protocol":   stored.Protocol,
		"author_id":  stored.Author.PersonID,
		"accused_id": stored.Accused.PersonID,
		"lawyer_id":  stored.LawyerID,
		"status":     stored.Status,
	}); err != nil {
		return domain.JudicialProcessView{}, err
	}
	if err := e.UoW.Commit(txCtx); err != nil {
		return domain.JudicialProcessView{}, persistenceFailed("cannot commit judicial process", err)
	}
	return e.Cases.GetJudicialProcessView(ctx, stored.ID)
}

// SetInProgress moves a case from created to in_progress.
func (e Engine) SetInProgress(ctx context.Context, id int64) (domain.JudicialProcess, error) {
	p, err := e.setInProgress(ctx, id)
	if err != nil {
		e.fail(ctx, "set_in_progress", err)
		return domain.JudicialProcess{}, err
	}
	e.Metrics.IncTransition(string(domain.StatusInProgress))
	e.logger().InfoContext(ctx, "judicial process in progress", "id", p.ID, "actor", ActorFrom(ctx))
	return p, nil
}

func (e Engine) setInProgress(ctx context.Context, id int64) (domain.JudicialProcess, error) {
	p, err := e.Cases.GetJudicialProcessWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.JudicialProcess{}, notFound("judicial_process", err)
		}
		return domain.JudicialProcess{}, err
	}
	if err := ensureTransition(p.Status, domain.StatusInProgress); err != nil {
		return domain.JudicialProcess{}, err
	}
	from := p.Status
	stamp := e.now().UTC()
	p.Status = domain.StatusInProgress
	p.InProgressAt = &stamp

	txCtx, err := e.UoW.Begin(ctx)
	if err != nil {
		return domain.JudicialProcess{}, persistenceFailed("cannot start unit of work", err)
	}
	defer e.UoW.Rollback(txCtx)

	updated, err := e.Cases.UpdateJudicialProcess(txCtx, p, from)
	if err != nil {
		if errors.Is(err, repo.ErrStatusChanged) {
			return domain.JudicialProcess{}, &Error{Kind: KindInvalidTransition, Message: "judicial process is no longer " + string(from), Err: err}
		}
		return domain.JudicialProcess{}, err
	}
	if err := e.Events.Append(txCtx, events.TypeJudicialProcessInProgress, "judicial_process", strconv.FormatInt(id, 10), ActorFrom(ctx), events.Payload{
		"from": from,
		"to":   updated.Status,
	}); err != nil {
		return domain.JudicialProcess{}, err
	}
	if err := e.UoW.Commit(txCtx); err != nil {
		return domain.JudicialProcess{}, persistenceFailed("cannot update judicial process", err)
	}
	return updated, nil
}

// ensureTransition allows only forward moves; in_progress is reachable from created alone.
func ensureTransition(from, to domain.Status) error {
	switch from {
	case domain.StatusCreated:
		if to == domain.StatusInProgress || to == domain.StatusCanceled {
			return nil
		}
	case domain.StatusInProgress:
		if to == domain.StatusFinished || to == domain.StatusCanceled {
			return nil
		}
	}
	return invalidTransition(string(from), string(to))
}

// GetJudicialProcess returns the view of a case.
func (e Engine) GetJudicialProcess(ctx context.Context, id int64) (domain.JudicialProcessView, error) {
	return e.Cases.GetJudicialProcessView(ctx, id)
}

// GetJudicialProcessWithRelations returns the full aggregate.
func (e Engine) GetJudicialProcessWithRelations(ctx context.Context, id int64) (domain.JudicialProcess, error) {
	return e.Cases.GetJudicialProcessWithRelations(ctx, id)
}

func (e Engine) ListJudicialProcesses(ctx context.Context) ([]domain.JudicialProcessView, error) {
	return e.Cases.ListJudicialProcessViews(ctx)
}

func (e Engine) ListJudicialProcessesWithRelations(ctx context.Context) ([]domain.JudicialProcess, error) {
	return e.Cases.ListJudicialProcessesWithRelations(ctx)
}

// RegisterPerson validates and stores a person.
func (e Engine) RegisterPerson(ctx context.Context, p domain.Person) (domain.Person, error) {
	if res := e.Validator.Check(p); !res.Valid {
		return domain.Person{}, &Error{Kind: KindValidationFailed, Message: "inconsistent person", Violations: res.Violations}
	}
	p.CreatedAt = e.now().UTC()
	txCtx, err := e.UoW.Begin(ctx)
	if err != nil {
		return domain.Person{}, persistenceFailed("cannot start unit of work", err)
	}
	defer e.UoW.Rollback(txCtx)
	stored, err := e.Registry.InsertPerson(txCtx, p)
	if err != nil {
		return domain.Person{}, err
	}
	if err := e.Events.Append(txCtx, events.TypePersonRegistered, "person", strconv.FormatInt(stored.ID, 10), ActorFrom(ctx), nil); err != nil {
		return domain.Person{}, err
	}
	if err := e.UoW.Commit(txCtx); err != nil {
		return domain.Person{}, persistenceFailed("cannot commit person", err)
	}
	return stored, nil
}

// RegisterLawyer validates and stores a lawyer.
func (e Engine) RegisterLawyer(ctx context.Context, l domain.Lawyer) (domain.Lawyer, error) {
	if res := e.Validator.Check(l); !res.Valid {
		return domain.Lawyer{}, &Error{Kind: KindValidationFailed, Message: "inconsistent lawyer", Violations: res.Violations}
	}
	l.CreatedAt = e.now().UTC()
	txCtx, err := e.UoW.Begin(ctx)
	if err != nil {
		return domain.Lawyer{}, persistenceFailed("cannot start unit of work", err)
	}
	defer e.UoW.Rollback(txCtx)
	stored, err := e.Registry.InsertLawyer(txCtx, l)
	if err != nil {
		return domain.Lawyer{}, err
	}
	if err := e.Events.Append(txCtx, events.TypeLawyerRegistered, "lawyer", strconv.FormatInt(stored.ID, 10), ActorFrom(ctx), events.Payload{"oab": stored.OAB}); err != nil {
		return domain.Lawyer{}, err
	}
	if err := e.UoW.Commit(txCtx); err != nil {
		return domain.Lawyer{}, persistenceFailed("cannot commit lawyer", err)
	}
	return stored, nil
}

func (e Engine) fail(ctx context.Context, operation string, err error) {
	kind := KindOf(err).String()
	e.Metrics.IncFailure(operation, kind)
	e.logger().WarnContext(ctx, fmt.Sprintf("judicial process %s failed", operation), "kind", kind, "error", err)
}
