package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"delega/internal/config"
	"delega/internal/db"
	"delega/internal/domain"
	"delega/internal/engine"
	"delega/internal/events"
	"delega/internal/metrics"
	"delega/internal/migrate"
	"delega/internal/repo"
)

type testEnv struct {
	Engine  engine.Engine
	Ctx     context.Context
	Author  domain.Person
	Accused domain.Person
	Lawyer  domain.Lawyer
	clock   time.Time
}

// tick advances the clock so every created case gets its own protocol.
func (env *testEnv) tick() time.Time {
	env.clock = env.clock.Add(time.Minute)
	return env.clock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := config.Default()
	cfg.Validation.Locale = config.LocaleEN
	eng, err := engine.New(conn, cfg)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	env := &testEnv{Ctx: engine.WithActor(context.Background(), "tester"), clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	eng.Now = env.tick
	eng.Metrics = metrics.New(prometheus.NewRegistry())
	env.Engine = eng

	// Person and lawyer ids share the range checked for overlap, so burn person id 1.
	if _, err = eng.RegisterPerson(env.Ctx, domain.Person{FirstName: "Caio", LastName: "Reis", Cpf: "44444444444"}); err != nil {
		t.Fatalf("register bystander: %v", err)
	}
	if env.Author, err = eng.RegisterPerson(env.Ctx, domain.Person{FirstName: "Ana", LastName: "Souza", Cpf: "11111111111"}); err != nil {
		t.Fatalf("register author: %v", err)
	}
	if env.Accused, err = eng.RegisterPerson(env.Ctx, domain.Person{FirstName: "Bruno", LastName: "Lima", Cpf: "22222222222"}); err != nil {
		t.Fatalf("register accused: %v", err)
	}
	if env.Lawyer, err = eng.RegisterLawyer(env.Ctx, domain.Lawyer{FirstName: "Carla", LastName: "Dias", Cpf: "33333333333", OAB: "SP123"}); err != nil {
		t.Fatalf("register lawyer: %v", err)
	}
	return env
}

func (env *testEnv) request() domain.CreateJudicialProcessRequest {
	return domain.CreateJudicialProcessRequest{
		AuthorID:        env.Author.ID,
		AccusedID:       env.Accused.ID,
		LawyerID:        env.Lawyer.ID,
		Reason:          "theft",
		RequestedValue:  100,
		AuthorDepoiment: "my bike was taken",
	}
}

func TestCreateAndStartJudicialProcess(t *testing.T) {
	env := newTestEnv(t)
	view, err := env.Engine.AddJudicialProcess(env.Ctx, env.request())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.Status != domain.StatusCreated || view.AuthorName != "Ana Souza" || view.LawyerOAB != "SP123" {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.AuthorDepoiment != "my bike was taken" {
		t.Fatalf("depoiment not kept: %q", view.AuthorDepoiment)
	}

	p, err := env.Engine.SetInProgress(env.Ctx, view.ID)
	if err != nil {
		t.Fatalf("set in progress: %v", err)
	}
	if p.Status != domain.StatusInProgress || p.InProgressAt == nil {
		t.Fatalf("unexpected case: %+v", p)
	}
	if p.InProgressAt.Before(p.CreatedAt) {
		t.Fatalf("in progress %s before creation %s", p.InProgressAt, p.CreatedAt)
	}

	_, err = env.Engine.SetInProgress(env.Ctx, view.ID)
	if !engine.IsKind(err, engine.KindInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	stored, err := env.Engine.GetJudicialProcessWithRelations(env.Ctx, view.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !stored.InProgressAt.Equal(*p.InProgressAt) {
		t.Fatalf("rejected transition changed timestamp: %s != %s", stored.InProgressAt, p.InProgressAt)
	}

	if got := testutil.ToFloat64(env.Engine.Metrics.ProcessesCreated); got != 1 {
		t.Fatalf("created counter = %v", got)
	}
	if got := testutil.ToFloat64(env.Engine.Metrics.Failures.WithLabelValues("set_in_progress", "invalid_transition")); got != 1 {
		t.Fatalf("failure counter = %v", got)
	}
}

func TestCreateRecordsEvents(t *testing.T) {
	env := newTestEnv(t)
	view, err := env.Engine.AddJudicialProcess(env.Ctx, env.request())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.Engine.SetInProgress(env.Ctx, view.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	evts, err := env.Engine.Repo.LatestEvents(env.Ctx, 10, repo.EventFilter{EntityKind: "judicial_process"})
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(evts) != 2 || evts[0].Type != events.TypeJudicialProcessInProgress || evts[1].Type != events.TypeJudicialProcessCreated {
		t.Fatalf("unexpected events: %+v", evts)
	}
	if evts[0].ActorID != "tester" {
		t.Fatalf("actor not recorded: %q", evts[0].ActorID)
	}
}

func TestCreateFailuresLeaveNoCase(t *testing.T) {
	env := newTestEnv(t)
	cases := map[string]struct {
		mutate func(*domain.CreateJudicialProcessRequest)
		kind   engine.Kind
	}{
		"same parties":   {func(r *domain.CreateJudicialProcessRequest) { r.AccusedID = r.AuthorID }, engine.KindInvalidRequest},
		"lawyer overlap": {func(r *domain.CreateJudicialProcessRequest) { r.LawyerID = r.AccusedID }, engine.KindInvalidRequest},
		"unknown author": {func(r *domain.CreateJudicialProcessRequest) { r.AuthorID = 404 }, engine.KindNotFound},
		"unknown lawyer": {func(r *domain.CreateJudicialProcessRequest) { r.LawyerID = 404 }, engine.KindNotFound},
		"negative value": {func(r *domain.CreateJudicialProcessRequest) { r.RequestedValue = -5 }, engine.KindValidationFailed},
		"empty reason":   {func(r *domain.CreateJudicialProcessRequest) { r.Reason = "" }, engine.KindValidationFailed},
	}
	for name, tc := range cases {
		req := env.request()
		tc.mutate(&req)
		_, err := env.Engine.AddJudicialProcess(env.Ctx, req)
		if !engine.IsKind(err, tc.kind) {
			t.Fatalf("%s: expected %s, got %v", name, tc.kind, err)
		}
	}
	list, err := env.Engine.ListJudicialProcesses(env.Ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no stored cases, got %d", len(list))
	}
}

func TestSetInProgressUnknownCase(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Engine.SetInProgress(env.Ctx, 42)
	if !errors.Is(err, &engine.Error{Kind: engine.KindNotFound, Role: "judicial_process"}) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// interleavedCases runs another transition right after the wrapped read.
type interleavedCases struct {
	engine.CaseRepository
	between func()
}

func (c *interleavedCases) GetJudicialProcessWithRelations(ctx context.Context, id int64) (domain.JudicialProcess, error) {
	p, err := c.CaseRepository.GetJudicialProcessWithRelations(ctx, id)
	if c.between != nil {
		between := c.between
		c.between = nil
		between()
	}
	return p, err
}

func TestSetInProgressInterleavedWithAnotherTransition(t *testing.T) {
	env := newTestEnv(t)
	view, err := env.Engine.AddJudicialProcess(env.Ctx, env.request())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var winner domain.JudicialProcess
	var winnerErr error
	eng := env.Engine
	eng.Cases = &interleavedCases{
		CaseRepository: env.Engine.Cases,
		between: func() {
			winner, winnerErr = env.Engine.SetInProgress(env.Ctx, view.ID)
		},
	}
	_, err = eng.SetInProgress(env.Ctx, view.ID)
	if winnerErr != nil {
		t.Fatalf("interleaved transition: %v", winnerErr)
	}
	if !engine.IsKind(err, engine.KindInvalidTransition) {
		t.Fatalf("expected invalid transition for the stale call, got %v", err)
	}

	stored, err := env.Engine.GetJudicialProcessWithRelations(env.Ctx, view.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.InProgressAt == nil || !stored.InProgressAt.Equal(*winner.InProgressAt) {
		t.Fatalf("stale call overwrote in_progress_at: %v != %v", stored.InProgressAt, winner.InProgressAt)
	}
	evts, err := env.Engine.Repo.LatestEvents(env.Ctx, 10, repo.EventFilter{Type: events.TypeJudicialProcessInProgress})
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(evts) != 1 {
		t.Fatalf("expected one in_progress event, got %d", len(evts))
	}
}

// failingCommit rolls the unit back instead of committing it.
type failingCommit struct {
	db.UnitOfWork
}

func (f failingCommit) Commit(ctx context.Context) error {
	f.UnitOfWork.Rollback(ctx)
	return errors.New("commit refused")
}

func TestFailedCommitKeepsStatus(t *testing.T) {
	env := newTestEnv(t)
	view, err := env.Engine.AddJudicialProcess(env.Ctx, env.request())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	eng := env.Engine
	eng.UoW = failingCommit{db.UnitOfWork{DB: eng.Repo.DB}}
	_, err = eng.SetInProgress(env.Ctx, view.ID)
	if !engine.IsKind(err, engine.KindPersistenceFailed) {
		t.Fatalf("expected persistence failure, got %v", err)
	}
	got, err := env.Engine.GetJudicialProcess(env.Ctx, view.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != domain.StatusCreated || got.InProgressAt != nil {
		t.Fatalf("status changed after failed commit: %+v", got)
	}

	_, err = eng.AddJudicialProcess(env.Ctx, env.request())
	if !engine.IsKind(err, engine.KindPersistenceFailed) {
		t.Fatalf("expected persistence failure on create, got %v", err)
	}
	list, err := env.Engine.ListJudicialProcessesWithRelations(env.Ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected the failed create to leave nothing behind, got %d cases", len(list))
	}
}

func TestRegisterDuplicateCpf(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Engine.RegisterPerson(env.Ctx, domain.Person{FirstName: "Other", LastName: "Ana", Cpf: env.Author.Cpf})
	if !errors.Is(err, repo.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
