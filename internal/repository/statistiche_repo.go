package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dario-aloisi/gestionale-ordini/internal/model"
)

// VoceClassifica is one row of a ranking: a display name plus its total.
type VoceClassifica struct {
	Nome   string
	Totale decimal.Decimal
}

// VoceMensile is one point of a monthly series, keyed "YYYY-MM".
type VoceMensile struct {
	Mese   string
	Totale decimal.Decimal
}

// UltimaConsegna pairs an active client with the date of their last delivery.
// Data is nil for clients that never ordered.
type UltimaConsegna struct {
	ClienteID uuid.UUID
	Nome      string
	Data      *time.Time
}

// StatisticheRepository runs the aggregate queries behind the dashboard.
// Quantity rankings span every order; revenue rankings multiply quantities by
// snapshot prices and skip cancelled orders.
type StatisticheRepository interface {
	TopProdottiPerQuantita(ctx context.Context, limite int) ([]VoceClassifica, error)
	TopClientiPerQuantita(ctx context.Context, limite int) ([]VoceClassifica, error)
	QuantitaMensili(ctx context.Context) ([]VoceMensile, error)
	UltimeConsegne(ctx context.Context) ([]UltimaConsegna, error)

	FatturatoMensile(ctx context.Context) ([]VoceMensile, error)
	TopClientiPerFatturato(ctx context.Context, limite int) ([]VoceClassifica, error)
	TopProdottiPerFatturato(ctx context.Context, limite int) ([]VoceClassifica, error)
}

type statisticheRepo struct{ db *gorm.DB }

func NewStatisticheRepository(db *gorm.DB) StatisticheRepository { return &statisticheRepo{db: db} }

func (r *statisticheRepo) TopProdottiPerQuantita(ctx context.Context, limite int) ([]VoceClassifica, error) {
	var voci []VoceClassifica
	err := r.db.WithContext(ctx).
		Table("righe_ordine").
		Select("prodotti.nome AS nome, SUM(righe_ordine.quantita) AS totale").
		Joins("JOIN prodotti ON prodotti.id = righe_ordine.prodotto_id").
		Group("prodotti.id").
		Order("totale DESC").
		Limit(limite).
		Scan(&voci).Error
	return voci, err
}

func (r *statisticheRepo) TopClientiPerQuantita(ctx context.Context, limite int) ([]VoceClassifica, error) {
	var voci []VoceClassifica
	err := r.db.WithContext(ctx).
		Table("righe_ordine").
		Select("clienti.nome AS nome, SUM(righe_ordine.quantita) AS totale").
		Joins("JOIN clienti ON clienti.id = righe_ordine.cliente_id").
		Group("clienti.id").
		Order("totale DESC").
		Limit(limite).
		Scan(&voci).Error
	return voci, err
}

func (r *statisticheRepo) QuantitaMensili(ctx context.Context) ([]VoceMensile, error) {
	var voci []VoceMensile
	err := r.db.WithContext(ctx).
		Table("righe_ordine").
		Select("strftime('%Y-%m', ordini.data_consegna) AS mese, SUM(righe_ordine.quantita) AS totale").
		Joins("JOIN ordini ON ordini.id = righe_ordine.ordine_id").
		Group("mese").
		Order("mese ASC").
		Scan(&voci).Error
	return voci, err
}

func (r *statisticheRepo) UltimeConsegne(ctx context.Context) ([]UltimaConsegna, error) {
	var voci []UltimaConsegna
	err := r.db.WithContext(ctx).
		Table("clienti").
		Select("clienti.id AS cliente_id, clienti.nome AS nome, MAX(ordini.data_consegna) AS data").
		Joins("LEFT JOIN righe_ordine ON righe_ordine.cliente_id = clienti.id").
		Joins("LEFT JOIN ordini ON ordini.id = righe_ordine.ordine_id").
		Where("clienti.attivo = ?", true).
		Group("clienti.id").
		Scan(&voci).Error
	return voci, err
}

func (r *statisticheRepo) FatturatoMensile(ctx context.Context) ([]VoceMensile, error) {
	var voci []VoceMensile
	err := r.db.WithContext(ctx).
		Table("righe_ordine").
		Select("strftime('%Y-%m', ordini.data_consegna) AS mese, SUM(righe_ordine.quantita * righe_ordine.prezzo_storico) AS totale").
		Joins("JOIN ordini ON ordini.id = righe_ordine.ordine_id").
		Where("ordini.stato <> ?", model.StatoCancellato).
		Group("mese").
		Order("mese ASC").
		Scan(&voci).Error
	return voci, err
}

func (r *statisticheRepo) TopClientiPerFatturato(ctx context.Context, limite int) ([]VoceClassifica, error) {
	var voci []VoceClassifica
	err := r.db.WithContext(ctx).
		Table("righe_ordine").
		Select("clienti.nome AS nome, SUM(righe_ordine.quantita * righe_ordine.prezzo_storico) AS totale").
		Joins("JOIN clienti ON clienti.id = righe_ordine.cliente_id").
		Joins("JOIN ordini ON ordini.id = righe_ordine.ordine_id").
		Where("ordini.stato <> ?", model.StatoCancellato).
		Group("clienti.id").
		Order("totale DESC").
		Limit(limite).
		Scan(&voci).Error
	return voci, err
}

func (r *statisticheRepo) TopProdottiPerFatturato(ctx context.Context, limite int) ([]VoceClassifica, error) {
	var voci []VoceClassifica
	err := r.db.WithContext(ctx).
		Table("righe_ordine").
		Select("prodotti.nome AS nome, SUM(righe_ordine.quantita * righe_ordine.prezzo_storico) AS totale").
		Joins("JOIN prodotti ON prodotti.id = righe_ordine.prodotto_id").
		Joins("JOIN ordini ON ordini.id = righe_ordine.ordine_id").
		Where("ordini.stato <> ?", model.StatoCancellato).
		Group("prodotti.id").
		Order("totale DESC").
		Limit(limite).
		Scan(&voci).Error
	return voci, err
}
