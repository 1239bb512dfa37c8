package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Prodotto is a list-price catalogue entry. Prezzo is the CURRENT list price
// and is mutable with no history: historical accuracy is guaranteed by the
// price snapshot copied onto each RigaOrdine at order time.
type Prodotto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Codice      string    `gorm:"uniqueIndex;not null"`
	Nome        string    `gorm:"index;not null"`
	Ingredienti *string
	Prezzo      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Attivo      bool            `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Righe []RigaOrdine `gorm:"foreignKey:ProdottoID"`
}

func (Prodotto) TableName() string { return "prodotti" }
