package reconcile

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dario-aloisi/gestionale-ordini/internal/model"
)

// RigaStorico is one normalized transaction row of the history export.
type RigaStorico struct {
	Data           string // "YYYY-MM-DD"
	ClienteCodice  string
	ClienteNome    string
	ProdottoCodice string
	ProdottoNome   string
	Quantita       int
	Prezzo         decimal.Decimal
}

// EsitoImport counts what a history import wrote and what it had to skip.
// Clients are never fabricated: rows naming an unknown client are skipped and
// their codes collected for the operator.
type EsitoImport struct {
	RigheTotali      int
	ProdottiNuovi    int
	PrezziAggiornati int
	OrdiniCreati     int
	RigheInserite    int
	RigheScartate    int
	ClientiMancanti  []string
}

// ImportaStorico synthesizes historical orders from transaction rows. Rows are
// grouped solely by delivery date: one order per distinct date holding every
// client/product line seen that day. This is the historical-import convention,
// not the live order path (one order per submitted batch).
func (s *Sincronizzatore) ImportaStorico(ctx context.Context, righe []RigaStorico) (*EsitoImport, error) {
	mappaClienti, err := s.clienti.MappaCodici(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: lettura clienti: %w", err)
	}
	prodotti, err := s.prodotti.PerCodice(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: lettura prodotti: %w", err)
	}

	esito := &EsitoImport{}
	mancanti := make(map[string]bool)

	type rigaPronta struct {
		clienteID  uuid.UUID
		prodottoID uuid.UUID
		quantita   int
		prezzo     decimal.Decimal
	}
	giornaliere := make(map[string][]rigaPronta)

	err = runTx(ctx, s.prodotti.DB(), func(tx *gorm.DB) error {
		for _, r := range righe {
			esito.RigheTotali++

			if r.ClienteCodice == "" || r.ProdottoCodice == "" || r.Data == "" {
				esito.RigheScartate++
				continue
			}

			clienteID, presente := mappaClienti[r.ClienteCodice]
			if !presente {
				mancanti[r.ClienteCodice] = true
				esito.RigheScartate++
				continue
			}

			p, presente := prodotti[r.ProdottoCodice]
			if !presente {
				ingredienti := ""
				nuovo := model.Prodotto{
					Codice:      r.ProdottoCodice,
					Nome:        r.ProdottoNome,
					Ingredienti: &ingredienti,
					Prezzo:      r.Prezzo,
					Attivo:      true,
				}
				if err := s.prodotti.CreateTx(tx, &nuovo); err != nil {
					return err
				}
				prodotti[r.ProdottoCodice] = nuovo
				p = nuovo
				esito.ProdottiNuovi++
			} else {
				if err := s.prodotti.UpdatePrezzoTx(tx, p.ID, r.Prezzo); err != nil {
					return err
				}
				esito.PrezziAggiornati++
			}

			giornaliere[r.Data] = append(giornaliere[r.Data], rigaPronta{
				clienteID:  clienteID,
				prodottoID: p.ID,
				quantita:   r.Quantita,
				prezzo:     r.Prezzo,
			})
		}

		// One order per distinct date, earliest first so rows land in
		// chronological insertion order.
		date := make([]string, 0, len(giornaliere))
		for d := range giornaliere {
			date = append(date, d)
		}
		sort.Strings(date)

		for _, d := range date {
			consegna, err := time.Parse("2006-01-02", d)
			if err != nil {
				return fmt.Errorf("data consegna %q: %w", d, err)
			}

			note := ""
			ordine := model.Ordine{
				DataConsegna: consegna,
				Note:         &note,
				Stato:        model.StatoInviato,
				OraCreazione: "00-00",
			}
			for _, r := range giornaliere[d] {
				ordine.Righe = append(ordine.Righe, model.RigaOrdine{
					ClienteID:     r.clienteID,
					ProdottoID:    r.prodottoID,
					Quantita:      r.quantita,
					PrezzoStorico: r.prezzo,
				})
			}
			if err := s.ordini.CreateTx(tx, &ordine); err != nil {
				return err
			}
			esito.OrdiniCreati++
			esito.RigheInserite += len(ordine.Righe)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reconcile: import storico: %w", err)
	}

	for codice := range mancanti {
		esito.ClientiMancanti = append(esito.ClientiMancanti, codice)
	}
	sort.Strings(esito.ClientiMancanti)
	return esito, nil
}
