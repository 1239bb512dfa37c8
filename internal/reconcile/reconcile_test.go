package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dario-aloisi/gestionale-ordini/internal/model"
	"github.com/dario-aloisi/gestionale-ordini/internal/repository"
)

// ── In-memory repository stubs ───────────────────────────────────────────────

type stubProdotti struct {
	perCodice map[string]model.Prodotto
}

func newStubProdotti() *stubProdotti {
	return &stubProdotti{perCodice: make(map[string]model.Prodotto)}
}

func (s *stubProdotti) Create(_ context.Context, p *model.Prodotto) error { return s.CreateTx(nil, p) }

func (s *stubProdotti) CreateTx(_ *gorm.DB, p *model.Prodotto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, esiste := s.perCodice[p.Codice]; esiste {
		return errors.New("UNIQUE constraint failed: prodotti.codice")
	}
	s.perCodice[p.Codice] = *p
	return nil
}

func (s *stubProdotti) FindByID(_ context.Context, id uuid.UUID) (*model.Prodotto, error) {
	for _, p := range s.perCodice {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProdotti) ListAttivi(_ context.Context) ([]model.Prodotto, error) { return nil, nil }
func (s *stubProdotti) CountAttivi(_ context.Context) (int64, error)           { return 0, nil }
func (s *stubProdotti) Update(_ context.Context, _ *model.Prodotto) error      { return nil }

func (s *stubProdotti) PerCodice(_ context.Context) (map[string]model.Prodotto, error) {
	copia := make(map[string]model.Prodotto, len(s.perCodice))
	for k, v := range s.perCodice {
		copia[k] = v
	}
	return copia, nil
}

func (s *stubProdotti) UpdatePrezzoTx(_ *gorm.DB, id uuid.UUID, prezzo decimal.Decimal) error {
	for codice, p := range s.perCodice {
		if p.ID == id {
			p.Prezzo = prezzo
			s.perCodice[codice] = p
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubProdotti) DB() *gorm.DB { return nil }

var _ repository.ProdottoRepository = (*stubProdotti)(nil)

type stubClienti struct {
	codici map[string]uuid.UUID
}

func (s *stubClienti) Create(_ context.Context, _ *model.Cliente) error { return nil }
func (s *stubClienti) FindByID(_ context.Context, _ uuid.UUID) (*model.Cliente, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubClienti) ListAttivi(_ context.Context) ([]model.Cliente, error) { return nil, nil }
func (s *stubClienti) CountAttivi(_ context.Context) (int64, error)          { return 0, nil }
func (s *stubClienti) Update(_ context.Context, _ *model.Cliente) error      { return nil }
func (s *stubClienti) MappaCodici(_ context.Context) (map[string]uuid.UUID, error) {
	return s.codici, nil
}
func (s *stubClienti) DB() *gorm.DB { return nil }

var _ repository.ClienteRepository = (*stubClienti)(nil)

type stubOrdini struct {
	creati []*model.Ordine
}

func (s *stubOrdini) Create(_ context.Context, tx *gorm.DB, o *model.Ordine) error {
	return s.CreateTx(tx, o)
}
func (s *stubOrdini) CreateTx(_ *gorm.DB, o *model.Ordine) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	s.creati = append(s.creati, o)
	return nil
}
func (s *stubOrdini) FindByID(_ context.Context, _ uuid.UUID) (*model.Ordine, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubOrdini) List(_ context.Context) ([]model.Ordine, error) { return nil, nil }
func (s *stubOrdini) CountNelMese(_ context.Context, _ int, _ time.Month) (int64, error) {
	return 0, nil
}
func (s *stubOrdini) ReplaceRighe(_ context.Context, _ uuid.UUID, _ []model.RigaOrdine, _ *string) error {
	return nil
}
func (s *stubOrdini) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (s *stubOrdini) StoricoCliente(_ context.Context, _ uuid.UUID) ([]repository.StoricoProdotto, error) {
	return nil, nil
}
func (s *stubOrdini) UltimoPrezzo(_ context.Context, _, _ uuid.UUID, _ time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (s *stubOrdini) Suggerimenti(_ context.Context, _ uuid.UUID) (map[string]int, error) {
	return nil, nil
}
func (s *stubOrdini) DB() *gorm.DB { return nil }

var _ repository.OrdineRepository = (*stubOrdini)(nil)

// ── Normalizzazione ──────────────────────────────────────────────────────────

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "100", NormalizeCode("100.0"))
	assert.Equal(t, "100", NormalizeCode(" 100 "))
	assert.Equal(t, "100.5", NormalizeCode("100.5"))
	assert.Equal(t, "A-12", NormalizeCode("A-12"))
	assert.Equal(t, "007", NormalizeCode("007"))
	assert.Equal(t, "", NormalizeCode(""))
	assert.Equal(t, "", NormalizeCode("  "))
	assert.Equal(t, "", NormalizeCode("None"))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Focaccia Classica", NormalizeName(" *Focaccia Classica* "))
	assert.Equal(t, "Pane", NormalizeName("Pane"))
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 33.0, ParsePrice("33,00"))
	assert.Equal(t, 12.5, ParsePrice("12.5"))
	assert.Equal(t, 0.0, ParsePrice("n.d."))
	assert.Equal(t, 0.0, ParsePrice(""))
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, "2025-12-15", ParseDate("2025-12-15 00:00:00"))
	assert.Equal(t, "2025-12-15", ParseDate("2025-12-15T00:00:00Z"))
	assert.Equal(t, "2025-12-15", ParseDate("15/12/2025"))
	assert.Equal(t, "2025-02-03", ParseDate("3/2/2025"))
	assert.Equal(t, "", ParseDate("boh"))
}

// ── Analisi listino ──────────────────────────────────────────────────────────

func TestAnalizzaListino(t *testing.T) {
	esistenti := map[string]model.Prodotto{
		"100": {ID: uuid.New(), Codice: "100", Nome: "Focaccia Classica"},
		"200": {ID: uuid.New(), Codice: "200", Nome: "Pane di Altamura"},
	}
	righe := []RigaListino{
		{Codice: "100", Nome: "focaccia classica", Prezzo: decimal.NewFromInt(5)},
		{Codice: "200", Nome: "Pane Pugliese", Prezzo: decimal.NewFromInt(4)},
		{Codice: "300", Nome: "Taralli", Prezzo: decimal.NewFromInt(3)},
		{Codice: "", Nome: "Riga sporca"},
	}

	esito := AnalizzaListino(righe, esistenti)

	assert.Equal(t, 4, esito.RigheTotali)
	assert.Equal(t, 2, esito.Presenti)
	assert.Equal(t, 1, esito.SenzaCodice)
	require.Len(t, esito.Nuovi, 1)
	assert.Equal(t, "300", esito.Nuovi[0].Codice)
	// Il confronto nomi ignora le maiuscole: "100" non è un conflitto.
	require.Len(t, esito.ConflittiNome, 1)
	assert.Equal(t, "200", esito.ConflittiNome[0].Codice)
	assert.Equal(t, "Pane di Altamura", esito.ConflittiNome[0].NomeDB)
}

// ── Sincronizzazione listino ─────────────────────────────────────────────────

func TestSincronizzaListino_Idempotente(t *testing.T) {
	prodotti := newStubProdotti()
	s := NewSincronizzatore(prodotti, &stubClienti{}, &stubOrdini{})

	righe := []RigaListino{
		{Codice: "100", Nome: "Focaccia", Prezzo: decimal.NewFromFloat(5.50)},
		{Codice: "200", Nome: "Taralli", Prezzo: decimal.NewFromFloat(3.20)},
		{Codice: "", Nome: "scarto"},
	}

	primo, err := s.SincronizzaListino(context.Background(), righe)
	require.NoError(t, err)
	assert.Equal(t, 2, primo.Inseriti)
	assert.Equal(t, 0, primo.PrezziAggiornati)
	assert.Equal(t, 1, primo.SenzaCodice)

	secondo, err := s.SincronizzaListino(context.Background(), righe)
	require.NoError(t, err)
	assert.Equal(t, 0, secondo.Inseriti, "la seconda esecuzione non crea nulla")
	assert.Equal(t, 2, secondo.PrezziAggiornati)

	assert.True(t, prodotti.perCodice["100"].Prezzo.Equal(decimal.NewFromFloat(5.50)))
	assert.True(t, prodotti.perCodice["200"].Prezzo.Equal(decimal.NewFromFloat(3.20)))
}

func TestSincronizzaListino_AggiornaSoloIlPrezzo(t *testing.T) {
	prodotti := newStubProdotti()
	ingredienti := "farina, acqua"
	require.NoError(t, prodotti.Create(context.Background(), &model.Prodotto{
		Codice:      "100",
		Nome:        "Nome Storico",
		Ingredienti: &ingredienti,
		Prezzo:      decimal.NewFromInt(1),
		Attivo:      true,
	}))
	s := NewSincronizzatore(prodotti, &stubClienti{}, &stubOrdini{})

	esito, err := s.SincronizzaListino(context.Background(), []RigaListino{
		{Codice: "100", Nome: "Nome Diverso Nel Listino", Prezzo: decimal.NewFromFloat(9.90)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, esito.PrezziAggiornati)

	p := prodotti.perCodice["100"]
	assert.Equal(t, "Nome Storico", p.Nome, "il nome non viene mai sovrascritto")
	assert.True(t, p.Prezzo.Equal(decimal.NewFromFloat(9.90)))
}

// ── Import storico ───────────────────────────────────────────────────────────

func TestImportaStorico_UnOrdinePerData(t *testing.T) {
	prodotti := newStubProdotti()
	clienti := &stubClienti{codici: map[string]uuid.UUID{
		"C1": uuid.New(),
		"C2": uuid.New(),
	}}
	ordini := &stubOrdini{}
	s := NewSincronizzatore(prodotti, clienti, ordini)

	righe := []RigaStorico{
		{Data: "2025-11-03", ClienteCodice: "C1", ProdottoCodice: "100", ProdottoNome: "Focaccia", Quantita: 4, Prezzo: decimal.NewFromInt(5)},
		{Data: "2025-11-03", ClienteCodice: "C2", ProdottoCodice: "100", ProdottoNome: "Focaccia", Quantita: 2, Prezzo: decimal.NewFromInt(5)},
		{Data: "2025-11-04", ClienteCodice: "C1", ProdottoCodice: "200", ProdottoNome: "Taralli", Quantita: 6, Prezzo: decimal.NewFromInt(3)},
	}

	esito, err := s.ImportaStorico(context.Background(), righe)
	require.NoError(t, err)

	assert.Equal(t, 2, esito.OrdiniCreati, "le righe si raggruppano solo per data")
	assert.Equal(t, 3, esito.RigheInserite)
	assert.Equal(t, 2, esito.ProdottiNuovi)
	assert.Equal(t, 1, esito.PrezziAggiornati, "la seconda riga della focaccia riaggiorna il prezzo")

	require.Len(t, ordini.creati, 2)
	assert.Equal(t, "2025-11-03", ordini.creati[0].DataConsegna.Format("2006-01-02"))
	assert.Len(t, ordini.creati[0].Righe, 2, "entrambi i clienti finiscono nello stesso ordine giornaliero")
	assert.Equal(t, "00-00", ordini.creati[0].OraCreazione)
	assert.Equal(t, model.StatoInviato, ordini.creati[0].Stato)
}

func TestImportaStorico_ClientiMaiFabbricati(t *testing.T) {
	prodotti := newStubProdotti()
	clienti := &stubClienti{codici: map[string]uuid.UUID{"C1": uuid.New()}}
	ordini := &stubOrdini{}
	s := NewSincronizzatore(prodotti, clienti, ordini)

	esito, err := s.ImportaStorico(context.Background(), []RigaStorico{
		{Data: "2025-11-03", ClienteCodice: "C1", ProdottoCodice: "100", ProdottoNome: "Focaccia", Quantita: 1},
		{Data: "2025-11-03", ClienteCodice: "SCONOSCIUTO", ProdottoCodice: "100", ProdottoNome: "Focaccia", Quantita: 1},
		{Data: "", ClienteCodice: "C1", ProdottoCodice: "100", Quantita: 1},
		{Data: "2025-11-03", ClienteCodice: "C1", ProdottoCodice: "", Quantita: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, esito.RigheScartate)
	assert.Equal(t, []string{"SCONOSCIUTO"}, esito.ClientiMancanti)
	assert.Equal(t, 1, esito.RigheInserite)
	require.Len(t, ordini.creati, 1)
}

func TestImportaStorico_PrezzoFotografatoSullaRiga(t *testing.T) {
	prodotti := newStubProdotti()
	clienti := &stubClienti{codici: map[string]uuid.UUID{"C1": uuid.New()}}
	ordini := &stubOrdini{}
	s := NewSincronizzatore(prodotti, clienti, ordini)

	_, err := s.ImportaStorico(context.Background(), []RigaStorico{
		{Data: "2025-10-01", ClienteCodice: "C1", ProdottoCodice: "100", ProdottoNome: "Focaccia", Quantita: 1, Prezzo: decimal.NewFromFloat(4.00)},
		{Data: "2025-11-01", ClienteCodice: "C1", ProdottoCodice: "100", ProdottoNome: "Focaccia", Quantita: 1, Prezzo: decimal.NewFromFloat(4.80)},
	})
	require.NoError(t, err)

	// Il prezzo corrente segue l'ultima riga, gli snapshot restano storici.
	assert.True(t, prodotti.perCodice["100"].Prezzo.Equal(decimal.NewFromFloat(4.80)))
	require.Len(t, ordini.creati, 2)
	assert.True(t, ordini.creati[0].Righe[0].PrezzoStorico.Equal(decimal.NewFromFloat(4.00)))
	assert.True(t, ordini.creati[1].Righe[0].PrezzoStorico.Equal(decimal.NewFromFloat(4.80)))
}
