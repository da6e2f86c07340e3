// Package redis implementa la última selección de producto sobre Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-bot/internal/domain/repository"
	"github.com/jhoicas/inventario-bot/pkg/config"
)

const keyNamespace = "invbot:last_selected"

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
}

var _ repository.SelectionRepository = (*SelectionStore)(nil)

// SelectionStore un SET por (usuario, sucursal); la escritura es atómica en el servidor.
type SelectionStore struct {
	store cmdable
	raw   *redis.Client
	ttl   time.Duration
}

// NewSelectionStore abre la conexión y verifica conectividad.
func NewSelectionStore(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (*SelectionStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &SelectionStore{store: raw, raw: raw, ttl: ttl}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		if opts.DB == 0 {
			opts.DB = cfg.DB
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}

// Key clave de la selección de un usuario en una sucursal.
func Key(userID, branch string) string {
	return fmt.Sprintf("%s:%s:%s", keyNamespace, branch, userID)
}

// Upsert sobrescribe la selección; ttl 0 = sin vencimiento.
func (s *SelectionStore) Upsert(ctx context.Context, userID, branch, sku string) error {
	if s.store == nil {
		return errors.New("redis client not initialized")
	}
	if err := s.store.Set(ctx, Key(userID, branch), sku, s.ttl).Err(); err != nil {
		return fmt.Errorf("set last selected: %w", err)
	}
	return nil
}

// GetLast devuelve el SKU guardado o found=false si no hay clave.
func (s *SelectionStore) GetLast(ctx context.Context, userID, branch string) (string, bool, error) {
	if s.store == nil {
		return "", false, errors.New("redis client not initialized")
	}
	sku, err := s.store.Get(ctx, Key(userID, branch)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get last selected: %w", err)
	}
	return sku, sku != "", nil
}

// Ping verificación de salud.
func (s *SelectionStore) Ping(ctx context.Context) error {
	if s.store == nil {
		return errors.New("redis client not initialized")
	}
	return s.store.Ping(ctx).Err()
}

// Close cierra la conexión subyacente.
func (s *SelectionStore) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}
