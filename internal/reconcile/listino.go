package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dario-aloisi/gestionale-ordini/internal/model"
	"github.com/dario-aloisi/gestionale-ordini/internal/repository"
)

// RigaListino is one normalized row of the external price list.
type RigaListino struct {
	Codice string
	Nome   string
	Prezzo decimal.Decimal
}

// ConflittoNome records a code whose stored name differs from the list's:
// reported, never auto-overwritten.
type ConflittoNome struct {
	Codice      string
	NomeDB      string
	NomeListino string
}

// EsitoAnalisi is the read-only diff between price list and catalogue.
type EsitoAnalisi struct {
	RigheTotali   int
	Presenti      int
	Nuovi         []RigaListino
	ConflittiNome []ConflittoNome
	SenzaCodice   int
}

// EsitoSincronizzazione counts what a sync run wrote.
type EsitoSincronizzazione struct {
	RigheTotali      int
	Inseriti         int
	PrezziAggiornati int
	SenzaCodice      int
}

// AnalizzaListino classifies every list row against the stored products:
// new (code unknown), existing with matching name, or existing with a
// conflicting name. Name comparison is case-insensitive on trimmed text.
// No writes happen here.
func AnalizzaListino(righe []RigaListino, esistenti map[string]model.Prodotto) *EsitoAnalisi {
	esito := &EsitoAnalisi{}

	for _, r := range righe {
		esito.RigheTotali++
		if r.Codice == "" {
			esito.SenzaCodice++
			continue
		}

		p, presente := esistenti[r.Codice]
		if !presente {
			esito.Nuovi = append(esito.Nuovi, r)
			continue
		}

		esito.Presenti++
		if !strings.EqualFold(strings.TrimSpace(p.Nome), strings.TrimSpace(r.Nome)) {
			esito.ConflittiNome = append(esito.ConflittiNome, ConflittoNome{
				Codice:      r.Codice,
				NomeDB:      p.Nome,
				NomeListino: r.Nome,
			})
		}
	}
	return esito
}

// Sincronizzatore applies reconciliation passes to the store. Every mutating
// run happens inside one transaction: either the whole file lands or none of it.
type Sincronizzatore struct {
	prodotti repository.ProdottoRepository
	clienti  repository.ClienteRepository
	ordini   repository.OrdineRepository
}

func NewSincronizzatore(
	prodotti repository.ProdottoRepository,
	clienti repository.ClienteRepository,
	ordini repository.OrdineRepository,
) *Sincronizzatore {
	return &Sincronizzatore{prodotti: prodotti, clienti: clienti, ordini: ordini}
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly in unit-test mode.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// SincronizzaListino inserts products the catalogue misses and overwrites the
// price of those it has. Names are never touched. Re-running the same file is
// a no-op apart from rewriting identical prices.
func (s *Sincronizzatore) SincronizzaListino(ctx context.Context, righe []RigaListino) (*EsitoSincronizzazione, error) {
	esistenti, err := s.prodotti.PerCodice(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: lettura prodotti: %w", err)
	}

	esito := &EsitoSincronizzazione{}
	err = runTx(ctx, s.prodotti.DB(), func(tx *gorm.DB) error {
		for _, r := range righe {
			esito.RigheTotali++
			if r.Codice == "" {
				esito.SenzaCodice++
				continue
			}

			if p, presente := esistenti[r.Codice]; presente {
				if err := s.prodotti.UpdatePrezzoTx(tx, p.ID, r.Prezzo); err != nil {
					return err
				}
				esito.PrezziAggiornati++
				continue
			}

			ingredienti := ""
			nuovo := model.Prodotto{
				Codice:      r.Codice,
				Nome:        r.Nome,
				Ingredienti: &ingredienti,
				Prezzo:      r.Prezzo,
				Attivo:      true,
			}
			if err := s.prodotti.CreateTx(tx, &nuovo); err != nil {
				return err
			}
			esistenti[r.Codice] = nuovo
			esito.Inseriti++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reconcile: sincronizzazione listino: %w", err)
	}
	return esito, nil
}
