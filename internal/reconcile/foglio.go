package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Expected column headers of the two spreadsheet formats. These names come
// from the agency's management-software exports and are part of the contract.
const (
	colCodice        = "Codice"
	colNomeProdotto  = "Nome Prodotto"
	colPrezzoListino = "Prezzo_Listino"

	colClienteCodice  = "Cd_CF"
	colClienteNome    = "CF_Descrizione"
	colArticoloCodice = "Cd_AR"
	colArticoloNome   = "DORig_Descrizione"
	colDataDocumento  = "DataDoc"
	colQuantita       = "Qta"
	colPrezzoVendita  = "PrezzoUnitarioV"
)

// ErrFoglioMancante reports a workbook that lacks the expected sheet.
var ErrFoglioMancante = errors.New("foglio non trovato nel file")

// LeggiListino reads the price-list workbook (first sheet) into normalized
// rows. Rows with dirty numbers survive with zero values; only a missing file
// or sheet aborts.
func LeggiListino(percorso string) ([]RigaListino, error) {
	f, err := excelize.OpenFile(percorso)
	if err != nil {
		return nil, fmt.Errorf("reconcile: apertura listino: %w", err)
	}
	defer f.Close()

	foglio := f.GetSheetName(0)
	if foglio == "" {
		return nil, fmt.Errorf("reconcile: %q: %w", percorso, ErrFoglioMancante)
	}

	grezze, err := f.GetRows(foglio)
	if err != nil {
		return nil, fmt.Errorf("reconcile: lettura righe: %w", err)
	}
	if len(grezze) == 0 {
		return nil, nil
	}

	colonne := mappaColonne(grezze[0])
	var righe []RigaListino
	for _, r := range grezze[1:] {
		if rigaVuota(r) {
			continue
		}
		righe = append(righe, RigaListino{
			Codice: NormalizeCode(cella(r, indice(colonne, colCodice))),
			Nome:   strings.TrimSpace(cella(r, indice(colonne, colNomeProdotto))),
			Prezzo: decimal.NewFromFloat(ParsePrice(cella(r, indice(colonne, colPrezzoListino)))),
		})
	}
	return righe, nil
}

// LeggiStorico reads the transaction-history workbook from the named sheet.
// A missing sheet is ErrFoglioMancante so callers can decide whether that is
// fatal (import) or just reported (analysis).
func LeggiStorico(percorso, foglio string) ([]RigaStorico, error) {
	f, err := excelize.OpenFile(percorso)
	if err != nil {
		return nil, fmt.Errorf("reconcile: apertura storico: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(foglio); err != nil || idx < 0 {
		return nil, fmt.Errorf("reconcile: %q in %q: %w", foglio, percorso, ErrFoglioMancante)
	}

	grezze, err := f.GetRows(foglio)
	if err != nil {
		return nil, fmt.Errorf("reconcile: lettura righe: %w", err)
	}
	if len(grezze) == 0 {
		return nil, nil
	}

	colonne := mappaColonne(grezze[0])
	var righe []RigaStorico
	for _, r := range grezze[1:] {
		if rigaVuota(r) {
			continue
		}
		righe = append(righe, RigaStorico{
			Data:           ParseDate(cella(r, indice(colonne, colDataDocumento))),
			ClienteCodice:  NormalizeCode(cella(r, indice(colonne, colClienteCodice))),
			ClienteNome:    strings.TrimSpace(cella(r, indice(colonne, colClienteNome))),
			ProdottoCodice: NormalizeCode(cella(r, indice(colonne, colArticoloCodice))),
			ProdottoNome:   strings.TrimSpace(cella(r, indice(colonne, colArticoloNome))),
			Quantita:       ParseQuantity(cella(r, indice(colonne, colQuantita))),
			Prezzo:         decimal.NewFromFloat(ParsePrice(cella(r, indice(colonne, colPrezzoVendita)))),
		})
	}
	return righe, nil
}

// mappaColonne maps trimmed header names to their zero-based index.
func mappaColonne(intestazione []string) map[string]int {
	m := make(map[string]int, len(intestazione))
	for i, nome := range intestazione {
		m[strings.TrimSpace(nome)] = i
	}
	return m
}

// indice resolves a header to its column, -1 when the sheet lacks it. Rows
// then read that column as empty, and the row-level checks discard them.
func indice(colonne map[string]int, nome string) int {
	if i, ok := colonne[nome]; ok {
		return i
	}
	return -1
}

// cella returns the cell at idx, "" when the row is shorter or idx is -1.
func cella(riga []string, idx int) string {
	if idx < 0 || idx >= len(riga) {
		return ""
	}
	return riga[idx]
}

func rigaVuota(riga []string) bool {
	for _, c := range riga {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
