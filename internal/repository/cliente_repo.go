package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dario-aloisi/gestionale-ordini/internal/model"
)

// ClienteRepository defines the data access contract for clients.
// Services depend on this interface, not on the concrete GORM implementation,
// so unit tests can swap in in-memory stubs.
type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	ListAttivi(ctx context.Context) ([]model.Cliente, error)
	CountAttivi(ctx context.Context) (int64, error)
	Update(ctx context.Context, c *model.Cliente) error

	// MappaCodici maps every business code (active and retired) to its row id.
	MappaCodici(ctx context.Context) (map[string]uuid.UUID, error)

	// DB exposes the underlying *gorm.DB so callers can open transactions.
	DB() *gorm.DB
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *clienteRepo) ListAttivi(ctx context.Context) ([]model.Cliente, error) {
	var clienti []model.Cliente
	err := r.db.WithContext(ctx).Where("attivo = ?", true).Order("nome ASC").Find(&clienti).Error
	return clienti, err
}

func (r *clienteRepo) CountAttivi(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("attivo = ?", true).Count(&n).Error
	return n, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) MappaCodici(ctx context.Context) (map[string]uuid.UUID, error) {
	var righe []struct {
		Codice string
		ID     uuid.UUID
	}
	if err := r.db.WithContext(ctx).Model(&model.Cliente{}).Select("codice", "id").Scan(&righe).Error; err != nil {
		return nil, err
	}
	mappa := make(map[string]uuid.UUID, len(righe))
	for _, r := range righe {
		mappa[r.Codice] = r.ID
	}
	return mappa, nil
}

func (r *clienteRepo) DB() *gorm.DB { return r.db }
