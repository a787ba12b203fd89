package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"double-paws/internal/domain/geocoding"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "double-paws:geocode:"

// GeocodeCache implementa geocoding.Cache sobre Redis (JSON + TTL).
type GeocodeCache struct {
	client goredis.Cmdable
}

func NewGeocodeCache(client goredis.Cmdable) *GeocodeCache {
	return &GeocodeCache{client: client}
}

func (c *GeocodeCache) Get(ctx context.Context, key string) ([]geocoding.Place, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var places []geocoding.Place
	if err := json.Unmarshal(val, &places); err != nil {
		// Entrada corrupta: se trata como miss y se pisa en el próximo Set.
		return nil, false, nil
	}
	return places, true, nil
}

func (c *GeocodeCache) Set(ctx context.Context, key string, places []geocoding.Place, ttl time.Duration) error {
	data, err := json.Marshal(places)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+key, data, ttl).Err()
}

// Open crea el cliente y verifica la conexión.
func Open(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
