package repo

import (
	"context"
	"database/sql"

	"delega/internal/domain"
)

const personColumns = `id,first_name,last_name,cpf,created_at`

func scanPerson(row interface{ Scan(...any) error }) (domain.Person, error) {
	var p domain.Person
	var createdAt string
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Cpf, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return p, ErrNotFound
		}
		return p, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return p, err
	}
	p.CreatedAt = t
	return p, nil
}

func (r Repo) InsertPerson(ctx context.Context, p domain.Person) (domain.Person, error) {
	id, err := r.insertID(ctx, `INSERT INTO persons(first_name,last_name,cpf,created_at) VALUES (?,?,?,?) RETURNING id`,
		p.FirstName, p.LastName, p.Cpf, formatTime(p.CreatedAt))
	if err != nil {
		return domain.Person{}, err
	}
	p.ID = id
	return p, nil
}

// GetPerson returns ErrNotFound for unknown ids.
func (r Repo) GetPerson(ctx context.Context, id int64) (domain.Person, error) {
	return scanPerson(r.conn(ctx).QueryRowContext(ctx, `SELECT `+personColumns+` FROM persons WHERE id=?`, id))
}

func (r Repo) ListPersons(ctx context.Context) ([]domain.Person, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, `SELECT `+personColumns+` FROM persons ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

const lawyerColumns = `id,first_name,last_name,cpf,oab,created_at`

func scanLawyer(row interface{ Scan(...any) error }) (domain.Lawyer, error) {
	var l domain.Lawyer
	var createdAt string
	if err := row.Scan(&l.ID, &l.FirstName, &l.LastName, &l.Cpf, &l.OAB, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return l, ErrNotFound
		}
		return l, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return l, err
	}
	l.CreatedAt = t
	return l, nil
}

func (r Repo) InsertLawyer(ctx context.Context, l domain.Lawyer) (domain.Lawyer, error) {
	id, err := r.insertID(ctx, `INSERT INTO lawyers(first_name,last_name,cpf,oab,created_at) VALUES (?,?,?,?,?) RETURNING id`,
		l.FirstName, l.LastName, l.Cpf, l.OAB, formatTime(l.CreatedAt))
	if err != nil {
		return domain.Lawyer{}, err
	}
	l.ID = id
	return l, nil
}

// GetLawyer returns ErrNotFound for unknown ids.
func (r Repo) GetLawyer(ctx context.Context, id int64) (domain.Lawyer, error) {
	return scanLawyer(r.conn(ctx).QueryRowContext(ctx, `SELECT `+lawyerColumns+` FROM lawyers WHERE id=?`, id))
}

func (r Repo) ListLawyers(ctx context.Context) ([]domain.Lawyer, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, `SELECT `+lawyerColumns+` FROM lawyers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Lawyer{}
	for rows.Next() {
		l, err := scanLawyer(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}
