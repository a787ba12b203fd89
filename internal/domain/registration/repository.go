package registration

import (
	"context"
	"time"
)

// Repository guarda sesiones de wizard en curso. Una sesión enviada o
// abandonada se borra: no hay persistencia parcial del registro.
type Repository interface {
	Create(ctx context.Context, w Wizard) error
	Get(ctx context.Context, id string) (Wizard, error)
	Update(ctx context.Context, w Wizard) error
	Delete(ctx context.Context, id string) error
	DeleteIdleSince(ctx context.Context, cutoff time.Time) (int, error)
}
