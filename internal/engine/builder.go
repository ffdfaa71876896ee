package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"delega/internal/domain"
	"delega/internal/repo"
)

// BuildJudicialProcess resolves the parties of req and assembles an unsaved
// case in the created status. It only reads from the registry.
func (e Engine) BuildJudicialProcess(ctx context.Context, req domain.CreateJudicialProcessRequest) (domain.JudicialProcess, error) {
	// TODO: compare the resolved lawyer's cpf with both parties once lawyers are linked to persons.
	if req.AuthorID == req.AccusedID {
		return domain.JudicialProcess{}, invalidRequest("accused id cannot be equal to author id")
	}
	if req.LawyerID == req.AuthorID || req.LawyerID == req.AccusedID {
		return domain.JudicialProcess{}, invalidRequest("lawyer id cannot be equal to author or accused id")
	}

	authorPerson, err := e.lookupPerson(ctx, "author", req.AuthorID)
	if err != nil {
		return domain.JudicialProcess{}, err
	}
	accusedPerson, err := e.lookupPerson(ctx, "accused", req.AccusedID)
	if err != nil {
		return domain.JudicialProcess{}, err
	}
	lawyer, err := e.Registry.GetLawyer(ctx, req.LawyerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.JudicialProcess{}, notFound("lawyer", err)
		}
		return domain.JudicialProcess{}, err
	}

	now := e.now().UTC()
	return domain.JudicialProcess{
		Protocol: protocolFor(req, now),
		Author: domain.Author{
			CreatedAt: now,
			Depoiment: req.AuthorDepoiment,
			PersonID:  authorPerson.ID,
			Cpf:       authorPerson.Cpf,
			Name:      authorPerson.FullName(),
		},
		Accused: domain.Accused{
			CreatedAt: now,
			PersonID:  accusedPerson.ID,
			Cpf:       accusedPerson.Cpf,
			Name:      accusedPerson.FullName(),
		},
		LawyerID:       lawyer.ID,
		Lawyer:         &lawyer,
		Reason:         req.Reason,
		RequestedValue: req.RequestedValue,
		Status:         domain.StatusCreated,
		CreatedAt:      now,
	}, nil
}

func (e Engine) lookupPerson(ctx context.Context, role string, id int64) (domain.Person, error) {
	p, err := e.Registry.GetPerson(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Person{}, notFound(role, err)
		}
		return domain.Person{}, err
	}
	return p, nil
}

func protocolFor(req domain.CreateJudicialProcessRequest, at time.Time) string {
	seed := fmt.Sprintf("%d|%d|%d|%s", req.AuthorID, req.AccusedID, req.LawyerID, at.Format(time.RFC3339Nano))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}
