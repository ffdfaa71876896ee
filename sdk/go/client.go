package delegasdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a minimal Delega HTTP API client.
type Client struct {
	BaseURL     string
	BasePath    string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL, bearerToken string) *Client {
	return &Client{
		BaseURL:     baseURL,
		BasePath:    "/v1",
		BearerToken: bearerToken,
		Timeout:     10 * time.Second,
	}
}

// Person is a registered natural person.
type Person struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
	Cpf       string `json:"cpf"`
	CreatedAt string `json:"created_at"`
}

// Lawyer is a registered lawyer.
type Lawyer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
	Cpf       string `json:"cpf"`
	OAB       string `json:"oab"`
	CreatedAt string `json:"created_at"`
}

// CreateJudicialProcess is the payload of CreateJudicialProcess.
type CreateJudicialProcess struct {
	AuthorID        int64   `json:"author_id"`
	AccusedID       int64   `json:"accused_id"`
	LawyerID        int64   `json:"lawyer_id"`
	Reason          string  `json:"reason"`
	RequestedValue  float64 `json:"requested_value"`
	AuthorDepoiment string  `json:"author_depoiment,omitempty"`
}

// JudicialProcessView is the flat case projection returned by the read endpoints.
type JudicialProcessView struct {
	ID              int64   `json:"id"`
	Protocol        string  `json:"protocol"`
	Status          string  `json:"status"`
	Reason          string  `json:"reason"`
	RequestedValue  float64 `json:"requested_value"`
	AuthorPersonID  int64   `json:"author_person_id"`
	AuthorName      string  `json:"author_name"`
	AuthorCpf       string  `json:"author_cpf"`
	AuthorDepoiment string  `json:"author_depoiment,omitempty"`
	AccusedPersonID int64   `json:"accused_person_id"`
	AccusedName     string  `json:"accused_name"`
	AccusedCpf      string  `json:"accused_cpf"`
	LawyerID        int64   `json:"lawyer_id"`
	LawyerName      string  `json:"lawyer_name"`
	LawyerOAB       string  `json:"lawyer_oab"`
	CreatedAt       string  `json:"created_at"`
	InProgressAt    string  `json:"in_progress_at,omitempty"`
}

// Party is the author or accused embedded in a JudicialProcess.
type Party struct {
	ID        int64  `json:"id"`
	PersonID  int64  `json:"person_id"`
	Cpf       string `json:"cpf"`
	Name      string `json:"name"`
	Depoiment string `json:"depoiment,omitempty"`
	CreatedAt string `json:"created_at"`
}

// JudicialProcess is the full case record with its parties.
type JudicialProcess struct {
	ID             int64   `json:"id"`
	Protocol       string  `json:"protocol"`
	Author         Party   `json:"author"`
	Accused        Party   `json:"accused"`
	LawyerID       int64   `json:"lawyer_id"`
	Lawyer         *Lawyer `json:"lawyer,omitempty"`
	Reason         string  `json:"reason"`
	RequestedValue float64 `json:"requested_value"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
	InProgressAt   string  `json:"in_progress_at,omitempty"`
}

// Event represents a log entry.
type Event struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts"`
	Type       string         `json:"type"`
	EntityKind string         `json:"entity_kind"`
	EntityID   string         `json:"entity_id"`
	ActorID    string         `json:"actor_id"`
	Payload    map[string]any `json:"payload"`
}

// PaginatedEvents wraps list responses with cursors.
type PaginatedEvents struct {
	Items      []Event `json:"items"`
	NextCursor string  `json:"next_cursor"`
}

// APIError wraps non-2xx responses. Code, Message and Details are filled when
// the body carries the standard error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]any
	Body       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Violations returns the validation messages of a validation_failed error.
func (e *APIError) Violations() []string {
	raw, ok := e.Details["violations"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// CreatePerson registers a person.
func (c *Client) CreatePerson(ctx context.Context, firstName, lastName, cpf string) (Person, error) {
	body := map[string]any{
		"first_name": firstName,
		"last_name":  lastName,
		"cpf":        cpf,
	}
	var resp Person
	err := c.do(ctx, http.MethodPost, "persons", body, &resp)
	return resp, err
}

// ListPersons returns every registered person.
func (c *Client) ListPersons(ctx context.Context) ([]Person, error) {
	var resp []Person
	err := c.do(ctx, http.MethodGet, "persons", nil, &resp)
	return resp, err
}

// GetPerson returns a person by id.
func (c *Client) GetPerson(ctx context.Context, id int64) (Person, error) {
	var resp Person
	err := c.do(ctx, http.MethodGet, idPath("persons", id), nil, &resp)
	return resp, err
}

// CreateLawyer registers a lawyer.
func (c *Client) CreateLawyer(ctx context.Context, firstName, lastName, cpf, oab string) (Lawyer, error) {
	body := map[string]any{
		"first_name": firstName,
		"last_name":  lastName,
		"cpf":        cpf,
		"oab":        oab,
	}
	var resp Lawyer
	err := c.do(ctx, http.MethodPost, "lawyers", body, &resp)
	return resp, err
}

// ListLawyers returns every registered lawyer.
func (c *Client) ListLawyers(ctx context.Context) ([]Lawyer, error) {
	var resp []Lawyer
	err := c.do(ctx, http.MethodGet, "lawyers", nil, &resp)
	return resp, err
}

// GetLawyer returns a lawyer by id.
func (c *Client) GetLawyer(ctx context.Context, id int64) (Lawyer, error) {
	var resp Lawyer
	err := c.do(ctx, http.MethodGet, idPath("lawyers", id), nil, &resp)
	return resp, err
}

// CreateJudicialProcess opens a case and returns its view.
func (c *Client) CreateJudicialProcess(ctx context.Context, req CreateJudicialProcess) (JudicialProcessView, error) {
	var resp JudicialProcessView
	err := c.do(ctx, http.MethodPost, "judicial-processes", req, &resp)
	return resp, err
}

// GetJudicialProcess returns the view of a case.
func (c *Client) GetJudicialProcess(ctx context.Context, id int64) (JudicialProcessView, error) {
	var resp JudicialProcessView
	err := c.do(ctx, http.MethodGet, idPath("judicial-processes", id), nil, &resp)
	return resp, err
}

// GetJudicialProcessWithRelations returns the full case record.
func (c *Client) GetJudicialProcessWithRelations(ctx context.Context, id int64) (JudicialProcess, error) {
	var resp JudicialProcess
	err := c.do(ctx, http.MethodGet, idPath("judicial-processes", id)+"/relations", nil, &resp)
	return resp, err
}

// ListJudicialProcesses returns the views of every case.
func (c *Client) ListJudicialProcesses(ctx context.Context) ([]JudicialProcessView, error) {
	var resp []JudicialProcessView
	err := c.do(ctx, http.MethodGet, "judicial-processes", nil, &resp)
	return resp, err
}

// ListJudicialProcessesWithRelations returns the full records of every case.
func (c *Client) ListJudicialProcessesWithRelations(ctx context.Context) ([]JudicialProcess, error) {
	var resp []JudicialProcess
	err := c.do(ctx, http.MethodGet, "judicial-processes/with-relations", nil, &resp)
	return resp, err
}

// StartJudicialProcess moves a created case to in_progress.
func (c *Client) StartJudicialProcess(ctx context.Context, id int64) (JudicialProcess, error) {
	var resp JudicialProcess
	err := c.do(ctx, http.MethodPost, idPath("judicial-processes", id)+"/in-progress", nil, &resp)
	return resp, err
}

// Events returns recent events.
func (c *Client) Events(ctx context.Context, limit int) ([]Event, error) {
	page, err := c.EventsPage(ctx, limit, "")
	return page.Items, err
}

// EventsPage returns a paginated event listing, newest first.
func (c *Client) EventsPage(ctx context.Context, limit int, cursor string) (PaginatedEvents, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	endpoint := "events"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp PaginatedEvents
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return decodeAPIError(resp.StatusCode, b)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}
	var env struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &env) == nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Details = env.Error.Details
	}
	return apiErr
}

func idPath(collection string, id int64) string {
	return collection + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.Trim(c.BasePath, "/")
}
