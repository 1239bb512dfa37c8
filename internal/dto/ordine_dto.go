package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RigaPreviewRequest is one submitted order line. Labels come straight from
// the UI selects and may embed the business code ("Nome (Cod. X)").
type RigaPreviewRequest struct {
	ClienteID     string `json:"cliente_id"     validate:"required,uuid"`
	ClienteLabel  string `json:"cliente_label"  validate:"required"`
	ProdottoID    string `json:"prodotto_id"    validate:"required,uuid"`
	ProdottoLabel string `json:"prodotto_label" validate:"required"`
	Quantita      int    `json:"quantita"       validate:"min=0"`
}

type PreviewOrdineRequest struct {
	DataConsegna string               `json:"data_consegna" validate:"required,datetime=2006-01-02"`
	Note         *string              `json:"note"`
	Righe        []RigaPreviewRequest `json:"righe" validate:"required,min=1,dive"`
}

type FinalizzaOrdineRequest struct {
	Token string `json:"token" validate:"required"`
}

// RigaModificaRequest replaces one order line on edit. The price snapshot is
// resolved server-side, never accepted from the client.
type RigaModificaRequest struct {
	ClienteID  string `json:"cliente_id"  validate:"required,uuid"`
	ProdottoID string `json:"prodotto_id" validate:"required,uuid"`
	Quantita   int    `json:"quantita"    validate:"min=0"`
}

type AggiornaOrdineRequest struct {
	Note  *string               `json:"note"`
	Righe []RigaModificaRequest `json:"righe" validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PreviewOrdineResponse struct {
	File  string `json:"file"`
	Token string `json:"token"`
}

type FinalizzaOrdineResponse struct {
	ID           string `json:"id"`
	Archivio     string `json:"archivio"`
	EmailInviata bool   `json:"email_inviata"`
}

type OrdineResponse struct {
	ID           string          `json:"id"`
	DataConsegna string          `json:"data_consegna"` // YYYY-MM-DD
	Note         *string         `json:"note"`
	Stato        string          `json:"stato"`
	OraCreazione string          `json:"ora_creazione"`
	NumeroRighe  int             `json:"numero_righe"`
	Clienti      int             `json:"clienti"`
	Totale       decimal.Decimal `json:"totale"`
}

type RigaOrdineResponse struct {
	ID            string          `json:"id"`
	ClienteID     string          `json:"cliente_id"`
	Cliente       string          `json:"cliente"`
	ProdottoID    string          `json:"prodotto_id"`
	Prodotto      string          `json:"prodotto"`
	Quantita      int             `json:"quantita"`
	PrezzoStorico decimal.Decimal `json:"prezzo_storico"`
	TotaleRiga    decimal.Decimal `json:"totale_riga"`
}

type OrdineDettaglioResponse struct {
	OrdineResponse
	Cartoni int                  `json:"cartoni"` // total quantity across lines
	Righe   []RigaOrdineResponse `json:"righe"`
}

type ExcelOrdineResponse struct {
	File string `json:"file"`
}
