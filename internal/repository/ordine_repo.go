package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dario-aloisi/gestionale-ordini/internal/model"
)

// StoricoProdotto is one aggregated history row for a client: what they bought,
// how much in total, and when last.
type StoricoProdotto struct {
	ProdottoID  uuid.UUID
	Codice      string
	Nome        string
	TotalePezzi int
	UltimaData  time.Time
}

// OrdineRepository defines the data access contract for orders and their lines.
type OrdineRepository interface {
	// Create persists the order together with its lines. When tx is non-nil
	// the write joins that transaction.
	Create(ctx context.Context, tx *gorm.DB, o *model.Ordine) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ordine, error)
	List(ctx context.Context) ([]model.Ordine, error)
	CountNelMese(ctx context.Context, anno int, mese time.Month) (int64, error)

	// ReplaceRighe drops every line of the order and writes the new set, then
	// updates the note, all in one transaction.
	ReplaceRighe(ctx context.Context, ordineID uuid.UUID, righe []model.RigaOrdine, note *string) error
	// Delete removes the order and cascades over its lines.
	Delete(ctx context.Context, id uuid.UUID) error

	CreateTx(tx *gorm.DB, o *model.Ordine) error

	// Storico per cliente: aggregated per-product totals plus the snapshot
	// price of the most recent delivery.
	StoricoCliente(ctx context.Context, clienteID uuid.UUID) ([]StoricoProdotto, error)
	UltimoPrezzo(ctx context.Context, clienteID, prodottoID uuid.UUID, data time.Time) (decimal.Decimal, error)
	Suggerimenti(ctx context.Context, clienteID uuid.UUID) (map[string]int, error)

	DB() *gorm.DB
}

type ordineRepo struct{ db *gorm.DB }

func NewOrdineRepository(db *gorm.DB) OrdineRepository { return &ordineRepo{db: db} }

func (r *ordineRepo) Create(ctx context.Context, tx *gorm.DB, o *model.Ordine) error {
	db := r.db.WithContext(ctx)
	if tx != nil {
		db = tx
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Righe {
		if o.Righe[i].ID == uuid.Nil {
			o.Righe[i].ID = uuid.New()
		}
	}
	return db.Create(o).Error
}

func (r *ordineRepo) CreateTx(tx *gorm.DB, o *model.Ordine) error {
	return r.Create(context.Background(), tx, o)
}

func (r *ordineRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ordine, error) {
	var o model.Ordine
	err := r.db.WithContext(ctx).
		Preload("Righe").
		Preload("Righe.Cliente").
		Preload("Righe.Prodotto").
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *ordineRepo) List(ctx context.Context) ([]model.Ordine, error) {
	var ordini []model.Ordine
	err := r.db.WithContext(ctx).Preload("Righe").Order("data_consegna DESC").Find(&ordini).Error
	return ordini, err
}

func (r *ordineRepo) CountNelMese(ctx context.Context, anno int, mese time.Month) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Ordine{}).
		Where("strftime('%Y-%m', data_consegna) = ?", time.Date(anno, mese, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")).
		Count(&n).Error
	return n, err
}

func (r *ordineRepo) ReplaceRighe(ctx context.Context, ordineID uuid.UUID, righe []model.RigaOrdine, note *string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ordine_id = ?", ordineID).Delete(&model.RigaOrdine{}).Error; err != nil {
			return err
		}
		for i := range righe {
			righe[i].ID = uuid.New()
			righe[i].OrdineID = ordineID
		}
		if len(righe) > 0 {
			if err := tx.Create(&righe).Error; err != nil {
				return err
			}
		}
		if note != nil {
			if err := tx.Model(&model.Ordine{}).Where("id = ?", ordineID).Update("note", note).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ordineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ordine_id = ?", id).Delete(&model.RigaOrdine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Ordine{}, "id = ?", id).Error
	})
}

func (r *ordineRepo) StoricoCliente(ctx context.Context, clienteID uuid.UUID) ([]StoricoProdotto, error) {
	var righe []StoricoProdotto
	err := r.db.WithContext(ctx).
		Table("righe_ordine").
		Select(`prodotti.id AS prodotto_id,
		        prodotti.codice AS codice,
		        prodotti.nome AS nome,
		        SUM(righe_ordine.quantita) AS totale_pezzi,
		        MAX(ordini.data_consegna) AS ultima_data`).
		Joins("JOIN prodotti ON prodotti.id = righe_ordine.prodotto_id").
		Joins("JOIN ordini ON ordini.id = righe_ordine.ordine_id").
		Where("righe_ordine.cliente_id = ?", clienteID).
		Group("prodotti.id").
		Order("totale_pezzi DESC").
		Scan(&righe).Error
	return righe, err
}

func (r *ordineRepo) UltimoPrezzo(ctx context.Context, clienteID, prodottoID uuid.UUID, data time.Time) (decimal.Decimal, error) {
	var riga model.RigaOrdine
	err := r.db.WithContext(ctx).
		Joins("JOIN ordini ON ordini.id = righe_ordine.ordine_id").
		Where("righe_ordine.cliente_id = ? AND righe_ordine.prodotto_id = ? AND ordini.data_consegna = ?",
			clienteID, prodottoID, data).
		First(&riga).Error
	if err != nil {
		return decimal.Zero, err
	}
	return riga.PrezzoStorico, nil
}

func (r *ordineRepo) Suggerimenti(ctx context.Context, clienteID uuid.UUID) (map[string]int, error) {
	var righe []struct {
		ProdottoID uuid.UUID
		Totale     int
	}
	err := r.db.WithContext(ctx).
		Table("righe_ordine").
		Select("prodotto_id, SUM(quantita) AS totale").
		Joins("JOIN ordini ON ordini.id = righe_ordine.ordine_id").
		Where("righe_ordine.cliente_id = ? AND ordini.stato = ?", clienteID, model.StatoInviato).
		Group("prodotto_id").
		Scan(&righe).Error
	if err != nil {
		return nil, err
	}
	mappa := make(map[string]int, len(righe))
	for _, r := range righe {
		mappa[r.ProdottoID.String()] = r.Totale
	}
	return mappa, nil
}

func (r *ordineRepo) DB() *gorm.DB { return r.db }
