package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreaClienteRequest struct {
	Codice string  `json:"codice" validate:"required,min=1,max=30"`
	Nome   string  `json:"nome"   validate:"required,min=2,max=120"`
	Note   *string `json:"note"`
}

type AggiornaClienteRequest struct {
	Codice *string `json:"codice" validate:"omitempty,min=1,max=30"`
	Nome   *string `json:"nome"   validate:"omitempty,min=2,max=120"`
	Note   *string `json:"note"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID     string  `json:"id"`
	Codice string  `json:"codice"`
	Nome   string  `json:"nome"`
	Note   *string `json:"note"`
	Attivo bool    `json:"attivo"`
}

// StoricoProdottoResponse is one row of a client's purchase history:
// lifetime totals plus the last delivery and last snapshot price.
type StoricoProdottoResponse struct {
	ProdottoID     string          `json:"prodotto_id"`
	Codice         string          `json:"codice"`
	Nome           string          `json:"nome"`
	QuantitaTotale int             `json:"quantita_totale"`
	UltimaConsegna string          `json:"ultima_consegna"` // YYYY-MM-DD
	UltimoPrezzo   decimal.Decimal `json:"ultimo_prezzo"`
}

// SuggerimentiResponse maps product id → lifetime quantity for order prefill.
type SuggerimentiResponse struct {
	Suggerimenti map[string]int `json:"suggerimenti"`
}
