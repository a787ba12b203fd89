package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// MaxMonthOffset acota cuántos meses hacia atrás o adelante se puede pedir.
const MaxMonthOffset = 1200

// SitterSource trae las preferencias y reservas de un sitter desde el backend.
type SitterSource interface {
	AvailabilityInput(ctx context.Context, token, sitterID string) (Input, error)
}

type Service struct {
	source SitterSource
	now    func() time.Time
}

func NewService(source SitterSource) *Service {
	return &Service{
		source: source,
		now:    time.Now,
	}
}

// ForSitter calcula el calendario de un sitter para el mes actual + monthOffset.
func (s *Service) ForSitter(ctx context.Context, token, sitterID string, monthOffset int) (Month, error) {
	sitterID = strings.TrimSpace(sitterID)
	if sitterID == "" {
		return Month{}, ErrInvalidInput
	}
	if monthOffset < -MaxMonthOffset || monthOffset > MaxMonthOffset {
		return Month{}, fmt.Errorf("%w: monthOffset out of range", ErrInvalidInput)
	}

	in, err := s.source.AvailabilityInput(ctx, token, sitterID)
	if err != nil {
		return Month{}, err
	}
	return Calculate(in, s.now(), monthOffset), nil
}
