package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RigaOrdine is one (cliente, prodotto, quantità) line of an Ordine.
// PrezzoStorico is the price snapshot captured at order creation; it never
// changes when the Prodotto list price does. Cliente and Prodotto are
// referenced, not owned: only the soft-delete convention keeps them alive.
type RigaOrdine struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrdineID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ClienteID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ProdottoID uuid.UUID `gorm:"type:uuid;index;not null"`

	Quantita      int             `gorm:"not null"`
	PrezzoStorico decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`

	Cliente  *Cliente  `gorm:"foreignKey:ClienteID"`
	Prodotto *Prodotto `gorm:"foreignKey:ProdottoID"`
}

func (RigaOrdine) TableName() string { return "righe_ordine" }
