package doublepaws

import (
	"context"

	"double-paws/internal/domain/pets"
)

// PetsRepo implementa pets.Repository sobre /pets.
type PetsRepo struct {
	c *Client
}

func NewPetsRepo(c *Client) *PetsRepo {
	return &PetsRepo{c: c}
}

func (r *PetsRepo) Create(ctx context.Context, token string, p pets.Pet) (pets.Pet, error) {
	var out pets.Pet
	if err := r.c.post(ctx, token, "/pets", p, &out); err != nil {
		return pets.Pet{}, mapErr(err, nil, pets.ErrUnavailable)
	}
	return out, nil
}

func (r *PetsRepo) ListMine(ctx context.Context, token string) ([]pets.Pet, error) {
	var out []pets.Pet
	if err := r.c.get(ctx, token, "/pets", nil, &out); err != nil {
		return nil, mapErr(err, nil, pets.ErrUnavailable)
	}
	return out, nil
}
