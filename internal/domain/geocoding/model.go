package geocoding

import (
	"context"
	"time"
)

// Place es una sugerencia de dirección con coordenadas.
type Place struct {
	DisplayName string  `json:"displayName"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty"`
	Country     string  `json:"country,omitempty"`
	PostalCode  string  `json:"postalCode,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Provider es el servicio público de geocoding (búsqueda directa e inversa).
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Place, error)
	Reverse(ctx context.Context, lat, lng float64) (Place, error)
}

// Cache guarda resultados de búsqueda por query normalizada.
type Cache interface {
	Get(ctx context.Context, key string) ([]Place, bool, error)
	Set(ctx context.Context, key string, places []Place, ttl time.Duration) error
}
