package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dario-aloisi/gestionale-ordini/internal/dto"
)

// ErrBozzaScaduta is returned when no draft exists under the token: either it
// expired or preview was never called. Finalize aborts before any persistence.
var ErrBozzaScaduta = errors.New("bozza ordine assente o scaduta")

// Bozza is the transient order payload carried between preview and finalize,
// keyed by a single-owner token with an explicit expiry.
type Bozza struct {
	DataConsegna string                   `json:"data_consegna"`
	Note         *string                  `json:"note"`
	Righe        []dto.RigaPreviewRequest `json:"righe"`
	FilePreview  string                   `json:"file_preview"`
	OraCreazione string                   `json:"ora_creazione"`
}

// DraftStore holds in-progress orders between preview and finalize.
type DraftStore interface {
	Save(ctx context.Context, token string, b *Bozza) error
	Load(ctx context.Context, token string) (*Bozza, error)
	Drop(ctx context.Context, token string) error
}

type redisDraftStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDraftStore(rdb *redis.Client, ttl time.Duration) DraftStore {
	return &redisDraftStore{rdb: rdb, ttl: ttl}
}

func chiaveBozza(token string) string { return "bozza:" + token }

func (s *redisDraftStore) Save(ctx context.Context, token string, b *Bozza) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("draft store: marshal: %w", err)
	}
	return s.rdb.Set(ctx, chiaveBozza(token), payload, s.ttl).Err()
}

func (s *redisDraftStore) Load(ctx context.Context, token string) (*Bozza, error) {
	payload, err := s.rdb.Get(ctx, chiaveBozza(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrBozzaScaduta
	}
	if err != nil {
		return nil, fmt.Errorf("draft store: get: %w", err)
	}
	var b Bozza
	if err := json.Unmarshal(payload, &b); err != nil {
		return nil, fmt.Errorf("draft store: unmarshal: %w", err)
	}
	return &b, nil
}

func (s *redisDraftStore) Drop(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, chiaveBozza(token)).Err()
}
