package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a customer of the agent. Codice is the user-facing business code:
// unique among active rows only, because soft delete retires the code
// (see service.RetireCode) so it can be reassigned.
type Cliente struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Codice string    `gorm:"uniqueIndex;not null"`
	Nome   string    `gorm:"index;not null"`
	Note   *string
	Attivo bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Righe []RigaOrdine `gorm:"foreignKey:ClienteID"`
}

func (Cliente) TableName() string { return "clienti" }
