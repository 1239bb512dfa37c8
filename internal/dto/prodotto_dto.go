package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreaProdottoRequest struct {
	Codice      string          `json:"codice"      validate:"required,min=1,max=30"`
	Nome        string          `json:"nome"        validate:"required,min=2,max=120"`
	Ingredienti *string         `json:"ingredienti"`
	Prezzo      decimal.Decimal `json:"prezzo"`
}

type AggiornaProdottoRequest struct {
	Codice      *string          `json:"codice"      validate:"omitempty,min=1,max=30"`
	Nome        *string          `json:"nome"        validate:"omitempty,min=2,max=120"`
	Ingredienti *string          `json:"ingredienti"`
	Prezzo      *decimal.Decimal `json:"prezzo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProdottoResponse struct {
	ID          string          `json:"id"`
	Codice      string          `json:"codice"`
	Nome        string          `json:"nome"`
	Ingredienti *string         `json:"ingredienti"`
	Prezzo      decimal.Decimal `json:"prezzo"`
	Attivo      bool            `json:"attivo"`
}
