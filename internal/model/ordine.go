package model

import (
	"time"

	"github.com/google/uuid"
)

// Stato values for Ordine.
const (
	StatoInviato    = "inviato"
	StatoCancellato = "cancellato"
)

// Ordine is one daily multi-client order batch. OraCreazione ("HH-MM") is only
// used to build unique artifact filenames; it is not a timestamp.
type Ordine struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	DataConsegna time.Time `gorm:"type:date;index;not null"`
	Note         *string
	Stato        string `gorm:"type:varchar(20);not null;default:'inviato'"`
	OraCreazione string `gorm:"type:varchar(10)"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Righe are exclusively owned: deleting the Ordine deletes them.
	Righe []RigaOrdine `gorm:"foreignKey:OrdineID;constraint:OnDelete:CASCADE"`
}

func (Ordine) TableName() string { return "ordini" }
