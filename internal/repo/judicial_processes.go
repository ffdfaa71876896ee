package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"delega/internal/domain"
)

const selectJudicialProcess = `SELECT
	jp.id, jp.protocol, jp.lawyer_id, jp.reason, jp.requested_value, jp.status, jp.created_at, jp.in_progress_at,
	a.id, a.person_id, a.cpf, a.name, a.depoiment, a.created_at,
	c.id, c.person_id, c.cpf, c.name, c.created_at,
	l.id, l.first_name, l.last_name, l.cpf, l.oab, l.created_at
FROM judicial_processes jp
JOIN authors a ON a.judicial_process_id = jp.id
JOIN accuseds c ON c.judicial_process_id = jp.id
JOIN lawyers l ON l.id = jp.lawyer_id`

func scanJudicialProcess(row interface{ Scan(...any) error }) (domain.JudicialProcess, error) {
	var (
		p                                                  domain.JudicialProcess
		l                                                  domain.Lawyer
		status                                             string
		depoiment, inProgressAt                            sql.NullString
		createdAt, authorCreated, accusedCreated, lawyerAt string
	)
	err := row.Scan(
		&p.ID, &p.Protocol, &p.LawyerID, &p.Reason, &p.RequestedValue, &status, &createdAt, &inProgressAt,
		&p.Author.ID, &p.Author.PersonID, &p.Author.Cpf, &p.Author.Name, &depoiment, &authorCreated,
		&p.Accused.ID, &p.Accused.PersonID, &p.Accused.Cpf, &p.Accused.Name, &accusedCreated,
		&l.ID, &l.FirstName, &l.LastName, &l.Cpf, &l.OAB, &lawyerAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return p, ErrNotFound
		}
		return p, err
	}
	p.Status = domain.Status(status)
	p.Author.Depoiment = depoiment.String
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return p, err
	}
	if p.InProgressAt, err = parseNullTime(inProgressAt); err != nil {
		return p, err
	}
	if p.Author.CreatedAt, err = parseTime(authorCreated); err != nil {
		return p, err
	}
	if p.Accused.CreatedAt, err = parseTime(accusedCreated); err != nil {
		return p, err
	}
	if l.CreatedAt, err = parseTime(lawyerAt); err != nil {
		return p, err
	}
	p.Lawyer = &l
	return p, nil
}

// AddJudicialProcess inserts the case together with its author and accused
// and returns it with the generated ids.
func (r Repo) AddJudicialProcess(ctx context.Context, p domain.JudicialProcess) (domain.JudicialProcess, error) {
	id, err := r.insertID(ctx, `INSERT INTO judicial_processes(protocol,lawyer_id,reason,requested_value,status,created_at,in_progress_at)
		VALUES (?,?,?,?,?,?,?) RETURNING id`,
		p.Protocol, p.LawyerID, p.Reason, p.RequestedValue, string(p.Status), formatTime(p.CreatedAt), nullableTime(p.InProgressAt))
	if err != nil {
		return domain.JudicialProcess{}, fmt.Errorf("insert judicial process: %w", err)
	}
	p.ID = id

	authorID, err := r.insertID(ctx, `INSERT INTO authors(judicial_process_id,person_id,cpf,name,depoiment,created_at)
		VALUES (?,?,?,?,?,?) RETURNING id`,
		id, p.Author.PersonID, p.Author.Cpf, p.Author.Name, nullable(p.Author.Depoiment), formatTime(p.Author.CreatedAt))
	if err != nil {
		return domain.JudicialProcess{}, fmt.Errorf("insert author: %w", err)
	}
	p.Author.ID = authorID

	accusedID, err := r.insertID(ctx, `INSERT INTO accuseds(judicial_process_id,person_id,cpf,name,created_at)
		VALUES (?,?,?,?,?) RETURNING id`,
		id, p.Accused.PersonID, p.Accused.Cpf, p.Accused.Name, formatTime(p.Accused.CreatedAt))
	if err != nil {
		return domain.JudicialProcess{}, fmt.Errorf("insert accused: %w", err)
	}
	p.Accused.ID = accusedID
	return p, nil
}

// UpdateJudicialProcess writes the status and timestamps of an existing case
// whose stored status is still from. Parties, lawyer, reason and value are
// immutable once stored.
func (r Repo) UpdateJudicialProcess(ctx context.Context, p domain.JudicialProcess, from domain.Status) (domain.JudicialProcess, error) {
	res, err := r.conn(ctx).ExecContext(ctx, `UPDATE judicial_processes SET status=?, in_progress_at=? WHERE id=? AND status=?`,
		string(p.Status), nullableTime(p.InProgressAt), p.ID, string(from))
	if err != nil {
		return domain.JudicialProcess{}, fmt.Errorf("update judicial process: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.JudicialProcess{}, err
	}
	if n == 0 {
		var current string
		err := r.conn(ctx).QueryRowContext(ctx, `SELECT status FROM judicial_processes WHERE id=?`, p.ID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.JudicialProcess{}, ErrNotFound
		}
		if err != nil {
			return domain.JudicialProcess{}, fmt.Errorf("read judicial process status: %w", err)
		}
		return domain.JudicialProcess{}, fmt.Errorf("%w: judicial process %d is %s", ErrStatusChanged, p.ID, current)
	}
	return r.GetJudicialProcessWithRelations(ctx, p.ID)
}

// GetJudicialProcessWithRelations loads the aggregate with its parties and lawyer.
func (r Repo) GetJudicialProcessWithRelations(ctx context.Context, id int64) (domain.JudicialProcess, error) {
	return scanJudicialProcess(r.conn(ctx).QueryRowContext(ctx, selectJudicialProcess+` WHERE jp.id=?`, id))
}

func (r Repo) GetJudicialProcessView(ctx context.Context, id int64) (domain.JudicialProcessView, error) {
	p, err := r.GetJudicialProcessWithRelations(ctx, id)
	if err != nil {
		return domain.JudicialProcessView{}, err
	}
	return p.View(), nil
}

func (r Repo) ListJudicialProcessesWithRelations(ctx context.Context) ([]domain.JudicialProcess, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, selectJudicialProcess+` ORDER BY jp.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.JudicialProcess{}
	for rows.Next() {
		p, err := scanJudicialProcess(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r Repo) ListJudicialProcessViews(ctx context.Context) ([]domain.JudicialProcessView, error) {
	items, err := r.ListJudicialProcessesWithRelations(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]domain.JudicialProcessView, 0, len(items))
	for _, p := range items {
		views = append(views, p.View())
	}
	return views, nil
}
