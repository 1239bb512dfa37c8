package dto

import "github.com/shopspring/decimal"

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RiepilogoStatisticheResponse struct {
	ClientiAttivi  int64 `json:"clienti_attivi"`
	ProdottiAttivi int64 `json:"prodotti_attivi"`
	OrdiniDelMese  int64 `json:"ordini_del_mese"`
}

type VoceClassificaResponse struct {
	Nome   string          `json:"nome"`
	Valore decimal.Decimal `json:"valore"`
}

type VoceMensileResponse struct {
	Mese   string          `json:"mese"` // YYYY-MM
	Valore decimal.Decimal `json:"valore"`
}

type ClienteDormienteResponse struct {
	ID             string  `json:"id"`
	Nome           string  `json:"nome"`
	UltimaConsegna *string `json:"ultima_consegna"` // nil = never ordered
}

type AttivitaResponse struct {
	TopProdotti      []VoceClassificaResponse   `json:"top_prodotti"`
	TopClienti       []VoceClassificaResponse   `json:"top_clienti"`
	QuantitaMensili  []VoceMensileResponse      `json:"quantita_mensili"`
	ClientiDormienti []ClienteDormienteResponse `json:"clienti_dormienti"`
}

type FatturatoResponse struct {
	Mensile     []VoceMensileResponse    `json:"mensile"`
	TopClienti  []VoceClassificaResponse `json:"top_clienti"`
	TopProdotti []VoceClassificaResponse `json:"top_prodotti"`
}
