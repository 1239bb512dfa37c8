package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dario-aloisi/gestionale-ordini/internal/model"
)

// ProdottoRepository defines the data access contract for catalogue products.
type ProdottoRepository interface {
	Create(ctx context.Context, p *model.Prodotto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Prodotto, error)
	ListAttivi(ctx context.Context) ([]model.Prodotto, error)
	CountAttivi(ctx context.Context) (int64, error)
	Update(ctx context.Context, p *model.Prodotto) error

	// PerCodice maps every business code (active and retired) to its row,
	// the shape the reconciliation passes work on.
	PerCodice(ctx context.Context) (map[string]model.Prodotto, error)

	// Used inside reconciliation transactions — callers pass the tx instance.
	CreateTx(tx *gorm.DB, p *model.Prodotto) error
	UpdatePrezzoTx(tx *gorm.DB, id uuid.UUID, prezzo decimal.Decimal) error

	DB() *gorm.DB
}

type prodottoRepo struct{ db *gorm.DB }

func NewProdottoRepository(db *gorm.DB) ProdottoRepository { return &prodottoRepo{db: db} }

func (r *prodottoRepo) Create(ctx context.Context, p *model.Prodotto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *prodottoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Prodotto, error) {
	var p model.Prodotto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *prodottoRepo) ListAttivi(ctx context.Context) ([]model.Prodotto, error) {
	var prodotti []model.Prodotto
	err := r.db.WithContext(ctx).Where("attivo = ?", true).Order("nome ASC").Find(&prodotti).Error
	return prodotti, err
}

func (r *prodottoRepo) CountAttivi(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Prodotto{}).Where("attivo = ?", true).Count(&n).Error
	return n, err
}

func (r *prodottoRepo) Update(ctx context.Context, p *model.Prodotto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *prodottoRepo) PerCodice(ctx context.Context) (map[string]model.Prodotto, error) {
	var prodotti []model.Prodotto
	if err := r.db.WithContext(ctx).Find(&prodotti).Error; err != nil {
		return nil, err
	}
	mappa := make(map[string]model.Prodotto, len(prodotti))
	for _, p := range prodotti {
		mappa[p.Codice] = p
	}
	return mappa, nil
}

func (r *prodottoRepo) CreateTx(tx *gorm.DB, p *model.Prodotto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return tx.Create(p).Error
}

func (r *prodottoRepo) UpdatePrezzoTx(tx *gorm.DB, id uuid.UUID, prezzo decimal.Decimal) error {
	return tx.Model(&model.Prodotto{}).Where("id = ?", id).Update("prezzo", prezzo).Error
}

func (r *prodottoRepo) DB() *gorm.DB { return r.db }
