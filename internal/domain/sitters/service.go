package sitters

import (
	"context"
	"errors"
	"math"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("sitter not found")
	// ErrUnavailable agrupa cualquier fallo del backend: el usuario solo ve
	// "Something went wrong, please try again".
	ErrUnavailable = errors.New("sitter directory unavailable")
)

// Directory es el backend de Double Paws visto desde este módulo.
type Directory interface {
	Search(ctx context.Context, token string, f SearchFilter) ([]Sitter, error)
	GetByID(ctx context.Context, token, sitterID string) (Sitter, error)
	Me(ctx context.Context, token string) (Sitter, error)
	ListReviews(ctx context.Context, token, sitterID string) ([]Review, error)
}

type Service struct {
	dir Directory
}

func NewService(dir Directory) *Service {
	return &Service{dir: dir}
}

func (s *Service) Search(ctx context.Context, token string, f SearchFilter) ([]Sitter, error) {
	f.Query = strings.TrimSpace(f.Query)
	if (f.Latitude == nil) != (f.Longitude == nil) {
		return nil, ErrInvalidInput
	}
	if f.RadiusKm < 0 {
		return nil, ErrInvalidInput
	}

	out, err := s.dir.Search(ctx, token, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Sitter{}
	}
	return out, nil
}

// Profile arma la vista de perfil (sitter + reviews).
func (s *Service) Profile(ctx context.Context, token, sitterID string) (Profile, error) {
	sitterID = strings.TrimSpace(sitterID)
	if sitterID == "" {
		return Profile{}, ErrInvalidInput
	}

	sitter, err := s.dir.GetByID(ctx, token, sitterID)
	if err != nil {
		return Profile{}, err
	}
	return s.withReviews(ctx, token, sitter)
}

// Me devuelve el perfil de sitter del usuario autenticado.
func (s *Service) Me(ctx context.Context, token string) (Profile, error) {
	if strings.TrimSpace(token) == "" {
		return Profile{}, ErrInvalidInput
	}
	sitter, err := s.dir.Me(ctx, token)
	if err != nil {
		return Profile{}, err
	}
	return s.withReviews(ctx, token, sitter)
}

func (s *Service) withReviews(ctx context.Context, token string, sitter Sitter) (Profile, error) {
	reviews, err := s.dir.ListReviews(ctx, token, sitter.ID)
	if err != nil {
		return Profile{}, err
	}
	if reviews == nil {
		reviews = []Review{}
	}

	return Profile{
		Sitter:        sitter,
		Reviews:       reviews,
		AverageRating: averageRating(reviews),
	}, nil
}

// averageRating redondea a un decimal, como se muestra en el perfil.
func averageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return math.Round(avg*10) / 10
}
