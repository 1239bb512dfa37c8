package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dario-aloisi/gestionale-ordini/internal/dto"
	"github.com/dario-aloisi/gestionale-ordini/internal/infra"
	"github.com/dario-aloisi/gestionale-ordini/internal/model"
	"github.com/dario-aloisi/gestionale-ordini/internal/pivot"
	"github.com/dario-aloisi/gestionale-ordini/internal/report"
	"github.com/dario-aloisi/gestionale-ordini/internal/repository"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Mailer sends the finalized summary. Satisfied by infra.Mailer; nil disables
// outbound mail (local development without SMTP credentials).
type Mailer interface {
	SendRiepilogo(to, subject, pdfPath, attachmentName string) error
}

type OrdineService interface {
	Preview(ctx context.Context, req dto.PreviewOrdineRequest) (*dto.PreviewOrdineResponse, error)
	Finalizza(ctx context.Context, token string) (*dto.FinalizzaOrdineResponse, error)
	Lista(ctx context.Context) ([]dto.OrdineResponse, error)
	Dettaglio(ctx context.Context, id uuid.UUID) (*dto.OrdineDettaglioResponse, error)
	Aggiorna(ctx context.Context, id uuid.UUID, req dto.AggiornaOrdineRequest) (*dto.OrdineDettaglioResponse, error)
	Elimina(ctx context.Context, id uuid.UUID) error
	Excel(ctx context.Context, id uuid.UUID) (*dto.ExcelOrdineResponse, error)
}

type ordineService struct {
	ordini   repository.OrdineRepository
	prodotti repository.ProdottoRepository
	bozze    DraftStore
	mailer   Mailer
	archivio *infra.Artifacts

	intestazione string
	mailTo       string
}

func NewOrdineService(
	ordini repository.OrdineRepository,
	prodotti repository.ProdottoRepository,
	bozze DraftStore,
	mailer Mailer,
	archivio *infra.Artifacts,
	intestazione, mailTo string,
) OrdineService {
	return &ordineService{
		ordini:       ordini,
		prodotti:     prodotti,
		bozze:        bozze,
		mailer:       mailer,
		archivio:     archivio,
		intestazione: intestazione,
		mailTo:       mailTo,
	}
}

// ── Preview ──────────────────────────────────────────────────────────────────
// Renders the submitted lines to a preview PDF in the scratch directory and
// stashes the payload as a draft under a fresh token. Nothing touches the
// database until finalize.

func (s *ordineService) Preview(ctx context.Context, req dto.PreviewOrdineRequest) (*dto.PreviewOrdineResponse, error) {
	data, err := time.Parse("2006-01-02", req.DataConsegna)
	if err != nil {
		return nil, fmt.Errorf("data_consegna non valida: %w", err)
	}

	// Previews of an abandoned cycle are dead weight: clear first.
	if err := s.archivio.SvuotaPreview(); err != nil {
		return nil, err
	}

	righe := make([]pivot.Riga, 0, len(req.Righe))
	for _, r := range req.Righe {
		righe = append(righe, pivot.Riga{
			ClienteID:     r.ClienteID,
			ClienteLabel:  r.ClienteLabel,
			ProdottoID:    r.ProdottoID,
			ProdottoLabel: r.ProdottoLabel,
			Quantita:      r.Quantita,
		})
	}
	tab := pivot.Build(righe)

	doc := report.Documento{
		Intestazione: s.intestazione,
		DataLabel:    report.DataLabel(data),
		Note:         derefNote(req.Note),
	}
	pdf, err := report.RenderPDF(doc, tab)
	if err != nil {
		return nil, err
	}

	ora := report.OraLabel(time.Now())
	nome := report.NomePreview(data, ora)
	if err := os.WriteFile(filepath.Join(s.archivio.PreviewDir, nome), pdf, 0o644); err != nil {
		return nil, fmt.Errorf("scrittura preview: %w", err)
	}

	token := uuid.NewString()
	bozza := &Bozza{
		DataConsegna: req.DataConsegna,
		Note:         req.Note,
		Righe:        req.Righe,
		FilePreview:  nome,
		OraCreazione: ora,
	}
	if err := s.bozze.Save(ctx, token, bozza); err != nil {
		return nil, err
	}

	return &dto.PreviewOrdineResponse{File: nome, Token: token}, nil
}

// ── Finalizza ────────────────────────────────────────────────────────────────
// Loads the draft (absent draft aborts before any persistence), persists the
// order with price snapshots in one transaction, drops the draft, archives the
// PDF and mails it. A mail failure is reported in the response, not fatal: the
// order is already committed.

func (s *ordineService) Finalizza(ctx context.Context, token string) (*dto.FinalizzaOrdineResponse, error) {
	b, err := s.bozze.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	data, err := time.Parse("2006-01-02", b.DataConsegna)
	if err != nil {
		return nil, fmt.Errorf("bozza corrotta: %w", err)
	}

	// Snapshot prices from the catalogue as it is NOW: later list-price
	// changes must not rewrite this order.
	prezzi := make(map[string]decimal.Decimal)
	for _, r := range b.Righe {
		if _, visto := prezzi[r.ProdottoID]; visto {
			continue
		}
		pid, err := uuid.Parse(r.ProdottoID)
		if err != nil {
			return nil, fmt.Errorf("prodotto_id non valido: %w", err)
		}
		p, err := s.prodotti.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("prodotto %s non trovato", r.ProdottoID)
		}
		prezzi[r.ProdottoID] = p.Prezzo
	}

	ordine := model.Ordine{
		DataConsegna: data,
		Note:         b.Note,
		Stato:        model.StatoInviato,
		OraCreazione: b.OraCreazione,
	}
	for _, r := range b.Righe {
		cid, err := uuid.Parse(r.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id non valido: %w", err)
		}
		pid, _ := uuid.Parse(r.ProdottoID)
		ordine.Righe = append(ordine.Righe, model.RigaOrdine{
			ClienteID:     cid,
			ProdottoID:    pid,
			Quantita:      r.Quantita,
			PrezzoStorico: prezzi[r.ProdottoID],
		})
	}

	txErr := runTx(ctx, s.ordini.DB(), func(tx *gorm.DB) error {
		return s.ordini.CreateTx(tx, &ordine)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Only a committed order consumes its draft.
	if err := s.bozze.Drop(ctx, token); err != nil {
		log.Warn().Err(err).Msg("drop bozza dopo commit")
	}

	nomeArchivio := report.NomeArchivioPDF(data, b.OraCreazione)
	percorso, err := s.archivio.Archivia(filepath.Join(s.archivio.PreviewDir, b.FilePreview), nomeArchivio)
	if err != nil {
		return nil, err
	}

	inviata := false
	if s.mailer != nil {
		oggetto := fmt.Sprintf("Consegne del %s", report.DataFile(data))
		if err := s.mailer.SendRiepilogo(s.mailTo, oggetto, percorso, report.NomeAllegato(data)); err != nil {
			log.Warn().Err(err).Str("ordine", ordine.ID.String()).Msg("invio email riepilogo fallito")
		} else {
			inviata = true
		}
	}

	return &dto.FinalizzaOrdineResponse{
		ID:           ordine.ID.String(),
		Archivio:     nomeArchivio,
		EmailInviata: inviata,
	}, nil
}

// ── Consultazione ────────────────────────────────────────────────────────────

func (s *ordineService) Lista(ctx context.Context) ([]dto.OrdineResponse, error) {
	ordini, err := s.ordini.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrdineResponse, 0, len(ordini))
	for i := range ordini {
		out = append(out, *ordineToResponse(&ordini[i]))
	}
	return out, nil
}

func (s *ordineService) Dettaglio(ctx context.Context, id uuid.UUID) (*dto.OrdineDettaglioResponse, error) {
	o, err := s.trova(ctx, id)
	if err != nil {
		return nil, err
	}
	return ordineToDettaglio(o), nil
}

// Aggiorna replaces every line of the order (plus the note) in one
// transaction. The snapshot for each new line is the last price that client
// paid for that product; lines with no precedent fall back to the current
// list price.
func (s *ordineService) Aggiorna(ctx context.Context, id uuid.UUID, req dto.AggiornaOrdineRequest) (*dto.OrdineDettaglioResponse, error) {
	o, err := s.trova(ctx, id)
	if err != nil {
		return nil, err
	}

	righe := make([]model.RigaOrdine, 0, len(req.Righe))
	for _, r := range req.Righe {
		cid, err := uuid.Parse(r.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id non valido: %w", err)
		}
		pid, err := uuid.Parse(r.ProdottoID)
		if err != nil {
			return nil, fmt.Errorf("prodotto_id non valido: %w", err)
		}

		prezzo, err := s.ordini.UltimoPrezzo(ctx, cid, pid, o.DataConsegna)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p, perr := s.prodotti.FindByID(ctx, pid)
			if perr != nil {
				return nil, fmt.Errorf("prodotto %s non trovato", r.ProdottoID)
			}
			prezzo = p.Prezzo
		} else if err != nil {
			return nil, err
		}

		righe = append(righe, model.RigaOrdine{
			ClienteID:     cid,
			ProdottoID:    pid,
			Quantita:      r.Quantita,
			PrezzoStorico: prezzo,
		})
	}

	if err := s.ordini.ReplaceRighe(ctx, id, righe, req.Note); err != nil {
		return nil, err
	}
	aggiornato, err := s.trova(ctx, id)
	if err != nil {
		return nil, err
	}
	return ordineToDettaglio(aggiornato), nil
}

func (s *ordineService) Elimina(ctx context.Context, id uuid.UUID) error {
	if _, err := s.trova(ctx, id); err != nil {
		return err
	}
	return s.ordini.Delete(ctx, id)
}

// Excel re-renders a stored order as a spreadsheet, writes it to the Excel
// archive under the order's original creation label, and reports the filename.
func (s *ordineService) Excel(ctx context.Context, id uuid.UUID) (*dto.ExcelOrdineResponse, error) {
	o, err := s.trova(ctx, id)
	if err != nil {
		return nil, err
	}

	righe := make([]pivot.Riga, 0, len(o.Righe))
	for _, r := range o.Righe {
		riga := pivot.Riga{
			ClienteID:  r.ClienteID.String(),
			ProdottoID: r.ProdottoID.String(),
			Quantita:   r.Quantita,
		}
		if r.Cliente != nil {
			riga.ClienteLabel = fmt.Sprintf("%s (Cod. %s)", r.Cliente.Nome, r.Cliente.Codice)
		}
		if r.Prodotto != nil {
			riga.ProdottoLabel = fmt.Sprintf("%s (Cod. %s)", r.Prodotto.Nome, r.Prodotto.Codice)
		}
		righe = append(righe, riga)
	}
	tab := pivot.Build(righe)

	doc := report.Documento{
		Intestazione: s.intestazione,
		DataLabel:    report.DataLabel(o.DataConsegna),
		Note:         derefNote(o.Note),
	}
	foglio, err := report.RenderExcel(doc, tab)
	if err != nil {
		return nil, err
	}

	nome := report.NomeArchivioExcel(o.DataConsegna, o.OraCreazione)
	if err := foglio.SaveAs(filepath.Join(s.archivio.ArchivioXLSX, nome)); err != nil {
		return nil, fmt.Errorf("scrittura excel: %w", err)
	}
	return &dto.ExcelOrdineResponse{File: nome}, nil
}

func (s *ordineService) trova(ctx context.Context, id uuid.UUID) (*model.Ordine, error) {
	o, err := s.ordini.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNonTrovato
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func ordineToResponse(o *model.Ordine) *dto.OrdineResponse {
	totale := decimal.Zero
	clienti := make(map[uuid.UUID]bool)
	for _, r := range o.Righe {
		totale = totale.Add(r.PrezzoStorico.Mul(decimal.NewFromInt(int64(r.Quantita))))
		clienti[r.ClienteID] = true
	}
	return &dto.OrdineResponse{
		ID:           o.ID.String(),
		DataConsegna: o.DataConsegna.Format("2006-01-02"),
		Note:         o.Note,
		Stato:        o.Stato,
		OraCreazione: o.OraCreazione,
		NumeroRighe:  len(o.Righe),
		Clienti:      len(clienti),
		Totale:       totale,
	}
}

func ordineToDettaglio(o *model.Ordine) *dto.OrdineDettaglioResponse {
	resp := dto.OrdineDettaglioResponse{OrdineResponse: *ordineToResponse(o)}
	for _, r := range o.Righe {
		resp.Cartoni += r.Quantita
		riga := dto.RigaOrdineResponse{
			ID:            r.ID.String(),
			ClienteID:     r.ClienteID.String(),
			ProdottoID:    r.ProdottoID.String(),
			Quantita:      r.Quantita,
			PrezzoStorico: r.PrezzoStorico,
			TotaleRiga:    r.PrezzoStorico.Mul(decimal.NewFromInt(int64(r.Quantita))),
		}
		if r.Cliente != nil {
			riga.Cliente = r.Cliente.Nome
		}
		if r.Prodotto != nil {
			riga.Prodotto = r.Prodotto.Nome
		}
		resp.Righe = append(resp.Righe, riga)
	}
	return &resp
}

func derefNote(n *string) string {
	if n == nil {
		return ""
	}
	return *n
}
