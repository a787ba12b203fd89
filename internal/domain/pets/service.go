package pets

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable: cualquier fallo del backend.
	ErrUnavailable = errors.New("pets backend unavailable")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name           string
	Type           PetType
	Breed          string
	Size           PetSize
	Sex            Sex
	WeightKg       float64
	Notes          string
	Medications    string
	FeedingNotes   string
	IsVaccinated   bool
	IsSpayedNeuter bool
}

func (s *Service) Create(ctx context.Context, token string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(token) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" || in.Type == "" {
		return Pet{}, ErrInvalidInput
	}
	if in.WeightKg < 0 {
		return Pet{}, ErrInvalidInput
	}

	size := in.Size
	if size == "" {
		size = SizeForWeight(in.WeightKg)
	}
	sex := in.Sex
	if sex == "" {
		sex = SexUnknown
	}

	p := Pet{
		Name:           strings.TrimSpace(in.Name),
		Type:           in.Type,
		Breed:          strings.TrimSpace(in.Breed),
		Size:           size,
		Sex:            sex,
		WeightKg:       in.WeightKg,
		Notes:          strings.TrimSpace(in.Notes),
		Medications:    strings.TrimSpace(in.Medications),
		FeedingNotes:   strings.TrimSpace(in.FeedingNotes),
		IsVaccinated:   in.IsVaccinated,
		IsSpayedNeuter: in.IsSpayedNeuter,
	}
	return s.repo.Create(ctx, token, p)
}

func (s *Service) ListMine(ctx context.Context, token string) ([]Pet, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidInput
	}
	out, err := s.repo.ListMine(ctx, token)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Pet{}
	}
	return out, nil
}
