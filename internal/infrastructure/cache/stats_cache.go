// Package cache implementa el caché Redis para los agregados del dashboard.
// El caché es opcional: sin REDIS_ADDR la aplicación funciona igual, solo que
// cada consulta del panel va a la base de datos.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tu-usuario/almacen-escolar/internal/application/analytics"
	"github.com/tu-usuario/almacen-escolar/pkg/config"
)

var _ analytics.StatsCache = (*StatsCache)(nil)

// StatsCache caché JSON con TTL corto sobre Redis.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache conecta a Redis y devuelve el caché. Falla si el servidor no
// responde al ping: mejor arrancar sin caché que con uno roto a medias.
func NewStatsCache(ctx context.Context, cfg config.RedisConfig) (*StatsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatsCache{client: client, ttl: ttl}, nil
}

// Get carga el valor cacheado en dest. Devuelve false si la clave no existe.
func (c *StatsCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, fmt.Errorf("decodificar caché %s: %w", key, err)
	}
	return true, nil
}

// Set guarda el valor serializado a JSON con el TTL configurado.
func (c *StatsCache) Set(ctx context.Context, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serializar caché %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close cierra la conexión con Redis.
func (c *StatsCache) Close() error {
	return c.client.Close()
}
