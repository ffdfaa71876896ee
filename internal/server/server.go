package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"delega/internal/domain"
	"delega/internal/engine"
	"delega/internal/logging"
	"delega/internal/repo"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   engine.Engine
	BasePath string
	Auth     AuthConfig
	Logger   *slog.Logger
	// Gatherer backs /metrics. Nil leaves the endpoint unregistered.
	Gatherer prometheus.Gatherer
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"validation_failed"`
	Message string         `json:"message" example:"inconsistent judicial process: reason is a required field"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true" example:"{\"violations\":[\"reason is a required field\"]}"`
}

// apiError models the error envelope shared by every endpoint.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the Delega API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v1"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.Auth.Logger == nil {
		cfg.Auth.Logger = logger
	}
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			// Schema errors are malformed requests; 422 is kept for domain validation.
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(logger))
	router.Use(newAuthMiddleware(basePath, cfg.Auth))
	hcfg := huma.DefaultConfig("Delega API", "1.0.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = ""
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerPersons(group, cfg.Engine)
	registerLawyers(group, cfg.Engine)
	registerJudicialProcesses(group, cfg.Engine)
	registerEvents(group, cfg.Engine)
	registerOpenAPI(router, api, basePath)
	if cfg.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	return router, nil
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.DebugContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	var se huma.StatusError
	if errors.As(err, &se) {
		return se
	}
	var fe ForbiddenError
	if errors.As(err, &fe) {
		return newAPIError(http.StatusForbidden, "forbidden", err.Error(), map[string]any{"permission": fe.Permission})
	}
	var ee *engine.Error
	if errors.As(err, &ee) {
		switch ee.Kind {
		case engine.KindInvalidRequest:
			return newAPIError(http.StatusBadRequest, ee.Kind.String(), ee.Message, nil)
		case engine.KindNotFound:
			return newAPIError(http.StatusNotFound, ee.Kind.String(), ee.Message, map[string]any{"role": ee.Role})
		case engine.KindValidationFailed:
			return newAPIError(http.StatusUnprocessableEntity, ee.Kind.String(), ee.Error(), map[string]any{"violations": ee.Violations})
		case engine.KindInvalidTransition:
			return newAPIError(http.StatusConflict, ee.Kind.String(), ee.Message, nil)
		case engine.KindPersistenceFailed:
			return newAPIError(http.StatusServiceUnavailable, ee.Kind.String(), ee.Message, nil)
		}
	}
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, repo.ErrConflict):
		return newAPIError(http.StatusConflict, "conflict", "record already exists", nil)
	default:
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": err.Error()})
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var (
		once sync.Once
		spec []byte
	)
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() {
			oas := api.OpenAPI()
			ensureDefaultErrorResponses(oas)
			applyAuthSecurity(oas, basePath)
			spec, _ = json.Marshal(oas)
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func ensureDefaultErrorResponses(oas *huma.OpenAPI) {
	if oas == nil || oas.Paths == nil {
		return
	}
	for _, item := range oas.Paths {
		for _, op := range []*huma.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Options, item.Head, item.Patch, item.Trace,
		} {
			if op == nil {
				continue
			}
			if op.Responses == nil {
				op.Responses = map[string]*huma.Response{}
			}
			op.Responses["default"] = &huma.Response{
				Description: "Error",
				Content: map[string]*huma.MediaType{
					"application/json": {
						Schema: &huma.Schema{Ref: "#/components/schemas/ApiError"},
					},
				},
			}
		}
	}
}

func applyAuthSecurity(oas *huma.OpenAPI, basePath string) {
	if oas == nil {
		return
	}
	if oas.Components == nil {
		oas.Components = &huma.Components{}
	}
	if oas.Components.SecuritySchemes == nil {
		oas.Components.SecuritySchemes = map[string]*huma.SecurityScheme{}
	}
	oas.Components.SecuritySchemes["bearerAuth"] = &huma.SecurityScheme{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
	}
	security := []map[string][]string{{"bearerAuth": {}}}
	oas.Security = security
	healthPath := path.Join("/", basePath, "health")
	for route, item := range oas.Paths {
		for _, op := range []*huma.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Options, item.Head, item.Patch, item.Trace,
		} {
			if op == nil {
				continue
			}
			if route == healthPath {
				op.Security = []map[string][]string{}
				continue
			}
			op.Security = security
		}
	}
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Delega API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
    <p style="padding: 1rem; font-family: sans-serif; color: #444;">
      Authenticate with Authorization: Bearer &lt;token&gt;.
    </p>
  </body>
</html>`, specURL)
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

type idPath struct {
	ID int64 `path:"id" minimum:"1"`
}

func registerPersons(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-person",
		Method:        http.MethodPost,
		Path:          "/persons",
		Summary:       "Register person",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusConflict, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *struct {
		Body CreatePersonRequest `json:"body"`
	}) (*struct {
		Body PersonResponse `json:"body"`
	}, error) {
		if err := requirePermission(ctx, PermRegistryWrite); err != nil {
			return nil, handleError(err)
		}
		p, err := e.RegisterPerson(ctx, domain.Person{
			FirstName: input.Body.FirstName,
			LastName:  input.Body.LastName,
			Cpf:       input.Body.Cpf,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body PersonResponse `json:"body"`
		}{Body: personResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-persons",
		Method:      http.MethodGet,
		Path:        "/persons",
		Summary:     "List persons",
		Errors:      []int{http.StatusForbidden},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []PersonResponse `json:"body"`
	}, error) {
		if err := requirePermission(ctx, PermRegistryRead); err != nil {
			return nil, handleError(err)
		}
		items, err := e.Repo.ListPersons(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []PersonResponse `json:"body"`
		}{Body: mapPersons(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-person",
		Method:      http.MethodGet,
		Path:        "/persons/{id}",
		Summary:     "Get person",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *idPath) (*struct {
		Body PersonResponse `json:"body"`
	}, error) {
		if err := requirePermission(ctx, PermRegistryRead); err != nil {
			return nil, handleError(err)
		}
		p, err := e.Repo.GetPerson(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body PersonResponse `json:"body"`
		}{Body: personResponse(p)}, nil
	})
}

func registerLawyers(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-lawyer",
		Method:        http.MethodPost,
		Path:          "/lawyers",
		Summary:       "Register lawyer",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusConflict, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *struct {
		Body CreateLawyerRequest `json:"body"`
	}) (*struct {
		Body LawyerResponse `json:"body"`
	}, error) {
		if err := requirePermission(ctx, PermRegistryWrite); err != nil {
			return nil, handleError(err)
		}
		l, err := e.RegisterLawyer(ctx, domain.Lawyer{
			FirstName: input.Body.FirstName,
			LastName:  input.Body.LastName,
			Cpf:       input.Body.Cpf,
			OAB:       input.Body.OAB,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body LawyerResponse `json:"body"`
		}{Body: lawyerResponse(l)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-lawyers",
		Method:      http.MethodGet,
		Path:        "/lawyers",
		Summary:     "List lawyers",
		Errors:      []int{http.StatusForbidden},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []LawyerResponse `json:"body"`
	}, error) {
		if err := requirePermission(ctx, PermRegistryRead); err != nil {
			return nil, handleError(err)
		}
		items, err := e.Repo.ListLawyers(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []LawyerResponse `json:"body"`
		}{Body: mapLawyers(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-lawyer",
		Method:      http.MethodGet,
		Path:        "/lawyers/{id}",
		Summary:     "Get lawyer",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *idPath) (*struct {
		Body LawyerResponse `json:"body"`
	}, error) {
		if err := requirePermission(ctx, PermRegistryRead); err != nil {
			return nil, handleError(err)
		}
		l, err := e.Repo.GetLawyer(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body LawyerResponse `json:"body"`
		}{Body: lawyerResponse(l)}, nil
	})
}

func registerJudicialProcesses(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-judicial-process",
		Method:        http.MethodPost,
		Path:          "/judicial-processes",
		Summary:       "Open judicial process",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusForbidden,
			http.StatusNotFound,
			http.StatusUnprocessableEntity,
			http.StatusServiceUnavailable,
		},
	}, func(ctx context.Context, input *struct {
		Body CreateJudicialProcessRequest `json:"body"`
	}) (*struct {
		Body domain.JudicialProcessView `json:"body"`
	}, error) {
		if err := requirePermission(ctx, PermProcessCreate); err != nil {
			return nil, handleError(err)
		}
		view, err := e.AddJudicialProcess(ctx, input.Body.toDomain())
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.JudicialProcessView `json:"body"`
		}{Body: view}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-judicial-processes",
		Method:      http.MethodGet,
		Path:        "/judicial-processes",
		Summary:     "List judicial processes",
		Errors:      []int{http.StatusForbidden},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.JudicialProcessView `json:"body"`
	}, error) {
		if err := requirePermission(ctx, PermProcessRead); err != nil {
			return nil, handleError(err)
		}
		items, err := e.ListJudicialProcesses(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.JudicialProcessView `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-judicial-processes-with-relations",
		Method:      http.MethodGet,
		Path:        "/judicial-processes/with-relations",
		Summary:     "List judicial processes with parties and lawyer",
		Errors:      []int{http.StatusForbidden},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.JudicialProcess `json:"body"`
	}, error) {
		if err := requirePermission(ctx, PermProcessRead); err != nil {
			return nil, handleError(err)
		}
		items, err := e.ListJudicialProcessesWithRelations(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.JudicialProcess `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-judicial-process",
		Method:      http.MethodGet,
		Path:        "/judicial-processes/{id}",
		Summary:     "Get judicial process",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *idPath) (*struct {
		Body domain.JudicialProcessView `json:"body"`
	}, error) {
		if err := requirePermission(ctx, PermProcessRead); err != nil {
			return nil, handleError(err)
		}
		view, err := e.GetJudicialProcess(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.JudicialProcessView `json:"body"`
		}{Body: view}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-judicial-process-relations",
		Method:      http.MethodGet,
		Path:        "/judicial-processes/{id}/relations",
		Summary:     "Get judicial process with parties and lawyer",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *idPath) (*struct {
		Body domain.JudicialProcess `json:"body"`
	}, error) {
		if err := requirePermission(ctx, PermProcessRead); err != nil {
			return nil, handleError(err)
		}
		p, err := e.GetJudicialProcessWithRelations(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.JudicialProcess `json:"body"`
		}{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "start-judicial-process",
		Method:      http.MethodPost,
		Path:        "/judicial-processes/{id}/in-progress",
		Summary:     "Move judicial process to in_progress",
		Errors: []int{
			http.StatusForbidden,
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusServiceUnavailable,
		},
	}, func(ctx context.Context, input *idPath) (*struct {
		Body domain.JudicialProcess `json:"body"`
	}, error) {
		if err := requirePermission(ctx, PermProcessUpdate); err != nil {
			return nil, handleError(err)
		}
		p, err := e.SetInProgress(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.JudicialProcess `json:"body"`
		}{Body: p}, nil
	})
}

func registerEvents(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "List recent events",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden},
	}, func(ctx context.Context, input *struct {
		Type       string `query:"type"`
		EntityKind string `query:"entity_kind" enum:"judicial_process,person,lawyer"`
		EntityID   string `query:"entity_id"`
		Limit      int    `query:"limit" default:"50"`
		Cursor     string `query:"cursor"`
	}) (*struct {
		Body paginatedEvents `json:"body"`
	}, error) {
		if err := requirePermission(ctx, PermProcessRead); err != nil {
			return nil, handleError(err)
		}
		limit := normalizeLimit(input.Limit)
		filter := repo.EventFilter{Type: input.Type, EntityKind: input.EntityKind, EntityID: input.EntityID}
		if input.Cursor != "" {
			parsed, err := strconv.ParseInt(input.Cursor, 10, 64)
			if err != nil {
				return nil, newAPIError(http.StatusBadRequest, "bad_request", "invalid cursor", map[string]any{"cursor": input.Cursor})
			}
			filter.Before = parsed
		}
		items, err := e.Repo.LatestEvents(ctx, limit+1, filter)
		if err != nil {
			return nil, handleError(err)
		}
		resp := paginatedEvents{Items: []EventResponse{}}
		if len(items) > limit {
			resp.NextCursor = strconv.FormatInt(items[limit-1].ID, 10)
			items = items[:limit]
		}
		for _, evt := range items {
			resp.Items = append(resp.Items, eventResponse(evt))
		}
		return &struct {
			Body paginatedEvents `json:"body"`
		}{Body: resp}, nil
	})
}

func normalizeLimit(in int) int {
	if in <= 0 {
		return 50
	}
	if in > 200 {
		return 200
	}
	return in
}
