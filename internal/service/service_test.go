package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dario-aloisi/gestionale-ordini/internal/config"
	"github.com/dario-aloisi/gestionale-ordini/internal/dto"
	"github.com/dario-aloisi/gestionale-ordini/internal/infra"
	"github.com/dario-aloisi/gestionale-ordini/internal/model"
	"github.com/dario-aloisi/gestionale-ordini/internal/repository"
)

// ── In-memory stubs ──────────────────────────────────────────────────────────

type memClienti struct {
	righe map[uuid.UUID]*model.Cliente
}

func newMemClienti() *memClienti { return &memClienti{righe: make(map[uuid.UUID]*model.Cliente)} }

func (m *memClienti) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for _, esistente := range m.righe {
		if esistente.Codice == c.Codice {
			return errors.New("UNIQUE constraint failed: clienti.codice")
		}
	}
	copia := *c
	m.righe[c.ID] = &copia
	return nil
}

func (m *memClienti) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, presente := m.righe[id]
	if !presente {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	return &copia, nil
}

func (m *memClienti) ListAttivi(_ context.Context) ([]model.Cliente, error) {
	var attivi []model.Cliente
	for _, c := range m.righe {
		if c.Attivo {
			attivi = append(attivi, *c)
		}
	}
	return attivi, nil
}

func (m *memClienti) CountAttivi(_ context.Context) (int64, error) {
	attivi, _ := m.ListAttivi(context.Background())
	return int64(len(attivi)), nil
}

func (m *memClienti) Update(_ context.Context, c *model.Cliente) error {
	copia := *c
	m.righe[c.ID] = &copia
	return nil
}

func (m *memClienti) MappaCodici(_ context.Context) (map[string]uuid.UUID, error) {
	codici := make(map[string]uuid.UUID)
	for _, c := range m.righe {
		if c.Attivo {
			codici[c.Codice] = c.ID
		}
	}
	return codici, nil
}

func (m *memClienti) DB() *gorm.DB { return nil }

var _ repository.ClienteRepository = (*memClienti)(nil)

type memProdotti struct {
	righe map[uuid.UUID]*model.Prodotto
}

func newMemProdotti() *memProdotti { return &memProdotti{righe: make(map[uuid.UUID]*model.Prodotto)} }

func (m *memProdotti) Create(_ context.Context, p *model.Prodotto) error { return m.CreateTx(nil, p) }

func (m *memProdotti) CreateTx(_ *gorm.DB, p *model.Prodotto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	copia := *p
	m.righe[p.ID] = &copia
	return nil
}

func (m *memProdotti) FindByID(_ context.Context, id uuid.UUID) (*model.Prodotto, error) {
	p, presente := m.righe[id]
	if !presente {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (m *memProdotti) ListAttivi(_ context.Context) ([]model.Prodotto, error) {
	var attivi []model.Prodotto
	for _, p := range m.righe {
		if p.Attivo {
			attivi = append(attivi, *p)
		}
	}
	return attivi, nil
}

func (m *memProdotti) CountAttivi(_ context.Context) (int64, error) {
	attivi, _ := m.ListAttivi(context.Background())
	return int64(len(attivi)), nil
}

func (m *memProdotti) Update(_ context.Context, p *model.Prodotto) error {
	copia := *p
	m.righe[p.ID] = &copia
	return nil
}

func (m *memProdotti) PerCodice(_ context.Context) (map[string]model.Prodotto, error) {
	per := make(map[string]model.Prodotto)
	for _, p := range m.righe {
		per[p.Codice] = *p
	}
	return per, nil
}

func (m *memProdotti) UpdatePrezzoTx(_ *gorm.DB, id uuid.UUID, prezzo decimal.Decimal) error {
	p, presente := m.righe[id]
	if !presente {
		return gorm.ErrRecordNotFound
	}
	p.Prezzo = prezzo
	return nil
}

func (m *memProdotti) DB() *gorm.DB { return nil }

var _ repository.ProdottoRepository = (*memProdotti)(nil)

type memOrdini struct {
	righe map[uuid.UUID]*model.Ordine
}

func newMemOrdini() *memOrdini { return &memOrdini{righe: make(map[uuid.UUID]*model.Ordine)} }

func (m *memOrdini) Create(_ context.Context, tx *gorm.DB, o *model.Ordine) error {
	return m.CreateTx(tx, o)
}

func (m *memOrdini) CreateTx(_ *gorm.DB, o *model.Ordine) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	copia := *o
	m.righe[o.ID] = &copia
	return nil
}

func (m *memOrdini) FindByID(_ context.Context, id uuid.UUID) (*model.Ordine, error) {
	o, presente := m.righe[id]
	if !presente {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *o
	return &copia, nil
}

func (m *memOrdini) List(_ context.Context) ([]model.Ordine, error) { return nil, nil }
func (m *memOrdini) CountNelMese(_ context.Context, _ int, _ time.Month) (int64, error) {
	return 0, nil
}
func (m *memOrdini) ReplaceRighe(_ context.Context, _ uuid.UUID, _ []model.RigaOrdine, _ *string) error {
	return nil
}
func (m *memOrdini) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.righe, id)
	return nil
}
func (m *memOrdini) StoricoCliente(_ context.Context, _ uuid.UUID) ([]repository.StoricoProdotto, error) {
	return nil, nil
}
func (m *memOrdini) UltimoPrezzo(_ context.Context, _, _ uuid.UUID, _ time.Time) (decimal.Decimal, error) {
	return decimal.Zero, gorm.ErrRecordNotFound
}
func (m *memOrdini) Suggerimenti(_ context.Context, _ uuid.UUID) (map[string]int, error) {
	return nil, nil
}
func (m *memOrdini) DB() *gorm.DB { return nil }

var _ repository.OrdineRepository = (*memOrdini)(nil)

// memDraftStore keeps drafts in a map; scaduti simulates expiry.
type memDraftStore struct {
	bozze   map[string]*Bozza
	scaduto bool
}

func newMemDraftStore() *memDraftStore { return &memDraftStore{bozze: make(map[string]*Bozza)} }

func (m *memDraftStore) Save(_ context.Context, token string, b *Bozza) error {
	m.bozze[token] = b
	return nil
}

func (m *memDraftStore) Load(_ context.Context, token string) (*Bozza, error) {
	b, presente := m.bozze[token]
	if !presente || m.scaduto {
		return nil, ErrBozzaScaduta
	}
	return b, nil
}

func (m *memDraftStore) Drop(_ context.Context, token string) error {
	delete(m.bozze, token)
	return nil
}

func artifactsDiTest(t *testing.T) *infra.Artifacts {
	t.Helper()
	base := t.TempDir()
	a, err := infra.NewArtifacts(&config.Config{
		PreviewDir:   filepath.Join(base, "previews"),
		ArchivioPDF:  filepath.Join(base, "archivio", "pdf"),
		ArchivioXLSX: filepath.Join(base, "archivio", "excel"),
		BackupDir:    filepath.Join(base, "backup"),
		DatabaseDSN:  filepath.Join(base, "test.db"),
	})
	require.NoError(t, err)
	return a
}

// ── Codici ritirati ──────────────────────────────────────────────────────────

func TestRetireCode(t *testing.T) {
	at := time.Unix(1700000000, 0)
	assert.Equal(t, "C1_DEL_1700000000", RetireCode("C1", at))
	assert.Equal(t, "Panificio Rossi (ELIMINATO)", RetireName("Panificio Rossi"))
}

func TestSoftDeletePoiRiusoDelCodice(t *testing.T) {
	clienti := newMemClienti()
	svc := NewClienteService(clienti, newMemOrdini())

	primo, err := svc.Crea(context.Background(), dto.CreaClienteRequest{Codice: "C1", Nome: "Panificio Rossi"})
	require.NoError(t, err)

	id := uuid.MustParse(primo.ID)
	require.NoError(t, svc.Elimina(context.Background(), id))

	eliminato := clienti.righe[id]
	assert.False(t, eliminato.Attivo)
	assert.NotEqual(t, "C1", eliminato.Codice, "il codice ritirato libera l'originale")
	assert.Contains(t, eliminato.Nome, "(ELIMINATO)")

	// Il codice originale torna disponibile.
	secondo, err := svc.Crea(context.Background(), dto.CreaClienteRequest{Codice: "C1", Nome: "Panificio Verdi"})
	require.NoError(t, err)
	assert.NotEqual(t, primo.ID, secondo.ID)

	// La riga eliminata sparisce dall'elenco ma resta leggibile per lo storico.
	attivi, err := svc.Lista(context.Background())
	require.NoError(t, err)
	require.Len(t, attivi, 1)
	assert.Equal(t, "Panificio Verdi", attivi[0].Nome)
}

func TestCodiceDuplicatoSegnalato(t *testing.T) {
	svc := NewClienteService(newMemClienti(), newMemOrdini())

	_, err := svc.Crea(context.Background(), dto.CreaClienteRequest{Codice: "C1", Nome: "Panificio Rossi"})
	require.NoError(t, err)

	_, err = svc.Crea(context.Background(), dto.CreaClienteRequest{Codice: "C1", Nome: "Altro Panificio"})
	var dup *CodiceDuplicatoError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "C1", dup.Codice)
}

// ── Flusso ordine ────────────────────────────────────────────────────────────

func nuovoOrdineServiceDiTest(t *testing.T, ordini *memOrdini, prodotti *memProdotti, bozze DraftStore) OrdineService {
	t.Helper()
	return NewOrdineService(ordini, prodotti, bozze, nil, artifactsDiTest(t), "Agente di Test", "ordini@example.com")
}

func TestPreviewScriveBozzaEPDF(t *testing.T) {
	prodotti := newMemProdotti()
	p := model.Prodotto{Codice: "100", Nome: "Focaccia", Prezzo: decimal.NewFromInt(5), Attivo: true}
	require.NoError(t, prodotti.Create(context.Background(), &p))

	bozze := newMemDraftStore()
	arte := artifactsDiTest(t)
	svc := NewOrdineService(newMemOrdini(), prodotti, bozze, nil, arte, "Agente di Test", "ordini@example.com")

	resp, err := svc.Preview(context.Background(), dto.PreviewOrdineRequest{
		DataConsegna: "2026-09-01",
		Righe: []dto.RigaPreviewRequest{{
			ClienteID:     uuid.NewString(),
			ClienteLabel:  "Bar Alfa (Cod. C1)",
			ProdottoID:    p.ID.String(),
			ProdottoLabel: "Focaccia (Cod. 100)",
			Quantita:      3,
		}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Contains(t, resp.File, "preview_ordini_01-09-2026")

	contenuto, err := os.ReadFile(filepath.Join(arte.PreviewDir, resp.File))
	require.NoError(t, err)
	assert.True(t, len(contenuto) > 4 && string(contenuto[:5]) == "%PDF-")

	require.Len(t, bozze.bozze, 1)
	assert.Equal(t, "2026-09-01", bozze.bozze[resp.Token].DataConsegna)
}

func TestFinalizzaSenzaBozzaNonPersisteNulla(t *testing.T) {
	ordini := newMemOrdini()
	bozze := newMemDraftStore()
	bozze.scaduto = true
	svc := nuovoOrdineServiceDiTest(t, ordini, newMemProdotti(), bozze)

	_, err := svc.Finalizza(context.Background(), "token-scaduto")
	require.ErrorIs(t, err, ErrBozzaScaduta)
	assert.Empty(t, ordini.righe, "nessun ordine deve nascere da una bozza assente")
}

func TestFinalizzaFotografaIlPrezzoCorrente(t *testing.T) {
	prodotti := newMemProdotti()
	p := model.Prodotto{Codice: "100", Nome: "Focaccia", Prezzo: decimal.NewFromFloat(5.50), Attivo: true}
	require.NoError(t, prodotti.Create(context.Background(), &p))

	ordini := newMemOrdini()
	bozze := newMemDraftStore()
	arte := artifactsDiTest(t)
	svc := NewOrdineService(ordini, prodotti, bozze, nil, arte, "Agente di Test", "ordini@example.com")

	preview, err := svc.Preview(context.Background(), dto.PreviewOrdineRequest{
		DataConsegna: "2026-09-01",
		Righe: []dto.RigaPreviewRequest{{
			ClienteID:     uuid.NewString(),
			ClienteLabel:  "Bar Alfa (Cod. C1)",
			ProdottoID:    p.ID.String(),
			ProdottoLabel: "Focaccia (Cod. 100)",
			Quantita:      2,
		}},
	})
	require.NoError(t, err)

	resp, err := svc.Finalizza(context.Background(), preview.Token)
	require.NoError(t, err)
	assert.False(t, resp.EmailInviata, "senza mailer configurato l'invio resta false")

	// La bozza è consumata.
	_, err = bozze.Load(context.Background(), preview.Token)
	require.ErrorIs(t, err, ErrBozzaScaduta)

	// Il PDF finisce in archivio con il nome definitivo.
	_, err = os.Stat(filepath.Join(arte.ArchivioPDF, resp.Archivio))
	require.NoError(t, err)

	ordine := ordini.righe[uuid.MustParse(resp.ID)]
	require.Len(t, ordine.Righe, 1)
	require.True(t, ordine.Righe[0].PrezzoStorico.Equal(decimal.NewFromFloat(5.50)))

	// Il listino cambia dopo il commit: lo snapshot non si muove.
	p2, _ := prodotti.FindByID(context.Background(), p.ID)
	p2.Prezzo = decimal.NewFromFloat(9.99)
	require.NoError(t, prodotti.Update(context.Background(), p2))
	assert.True(t, ordine.Righe[0].PrezzoStorico.Equal(decimal.NewFromFloat(5.50)))
}

func TestPrezzoAggiornatoNonToccaLoStorico(t *testing.T) {
	prodotti := newMemProdotti()
	p := model.Prodotto{Codice: "100", Nome: "Focaccia", Prezzo: decimal.NewFromInt(4), Attivo: true}
	require.NoError(t, prodotti.Create(context.Background(), &p))

	svc := NewProdottoService(prodotti)
	nuovo := decimal.NewFromInt(7)
	_, err := svc.Aggiorna(context.Background(), p.ID, dto.AggiornaProdottoRequest{Prezzo: &nuovo})
	require.NoError(t, err)

	aggiornato, _ := prodotti.FindByID(context.Background(), p.ID)
	assert.True(t, aggiornato.Prezzo.Equal(nuovo))
}
