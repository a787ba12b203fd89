package pets

import "context"

// Repository es el backend de Double Paws (/pets). No hay storage local de mascotas.
type Repository interface {
	Create(ctx context.Context, token string, p Pet) (Pet, error)
	ListMine(ctx context.Context, token string) ([]Pet, error)
}
