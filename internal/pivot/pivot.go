// Package pivot turns a flat list of order lines into the cliente×prodotto
// matrix consumed by both report renderers (PDF and spreadsheet).
package pivot

import (
	"sort"
	"strings"
)

// CodiceND is the sentinel code for labels missing the "(Cod. …)" suffix.
const CodiceND = "N/D"

// Riga is one flat order line feeding the pivot. The labels may embed the
// business code as "<nome> (Cod. <codice>)".
type Riga struct {
	ClienteID     string
	ClienteLabel  string
	ProdottoID    string
	ProdottoLabel string
	Quantita      int
}

// Voce is a parsed header entry: display name plus business code.
type Voce struct {
	ID     string
	Nome   string
	Codice string
}

// RigaProdotto is one matrix row: a product with its per-cliente quantities.
type RigaProdotto struct {
	Voce
	// Quantita maps cliente ID to the accumulated quantity. A missing key
	// renders as an empty cell.
	Quantita map[string]int
	Totale   int
}

// Tabella is the dense matrix ready for tabular rendering.
type Tabella struct {
	// Clienti and Prodotti are sorted by Nome ascending. Equal names keep
	// their first-seen order (stable sort), matching the historical output.
	Clienti        []Voce
	Prodotti       []RigaProdotto
	TotaliCliente  map[string]int
	TotaleGenerale int
}

// ParseLabel splits "<nome> (Cod. <codice>)" into its parts. A label without
// that pattern is returned whole as the name, with CodiceND as the code.
func ParseLabel(label string) (nome, codice string) {
	parts := strings.SplitN(label, " (Cod. ", 2)
	if len(parts) < 2 {
		return label, CodiceND
	}
	return parts[0], strings.ReplaceAll(parts[1], ")", "")
}

// Build accumulates the lines into a Tabella. Quantities for a repeated
// (cliente, prodotto) pair sum up, so row totals, column totals and the grand
// total stay consistent with the input for every line set.
func Build(righe []Riga) *Tabella {
	t := &Tabella{TotaliCliente: make(map[string]int)}

	clientiVisti := make(map[string]bool)
	prodottiIdx := make(map[string]int)

	for _, r := range righe {
		if !clientiVisti[r.ClienteID] {
			clientiVisti[r.ClienteID] = true
			nome, codice := ParseLabel(r.ClienteLabel)
			t.Clienti = append(t.Clienti, Voce{
				ID:     r.ClienteID,
				Nome:   Sanitize(nome),
				Codice: Sanitize(codice),
			})
		}
		t.TotaliCliente[r.ClienteID] += r.Quantita

		i, ok := prodottiIdx[r.ProdottoID]
		if !ok {
			nome, codice := ParseLabel(r.ProdottoLabel)
			t.Prodotti = append(t.Prodotti, RigaProdotto{
				Voce: Voce{
					ID:     r.ProdottoID,
					Nome:   Sanitize(nome),
					Codice: Sanitize(codice),
				},
				Quantita: make(map[string]int),
			})
			i = len(t.Prodotti) - 1
			prodottiIdx[r.ProdottoID] = i
		}
		// Zero quantities still claim the cell: the pair shows up as "-".
		if _, occupata := t.Prodotti[i].Quantita[r.ClienteID]; !occupata {
			t.Prodotti[i].Quantita[r.ClienteID] = 0
		}
		t.Prodotti[i].Quantita[r.ClienteID] += r.Quantita
		t.Prodotti[i].Totale += r.Quantita
		t.TotaleGenerale += r.Quantita
	}

	sort.SliceStable(t.Clienti, func(a, b int) bool {
		return t.Clienti[a].Nome < t.Clienti[b].Nome
	})
	sort.SliceStable(t.Prodotti, func(a, b int) bool {
		return t.Prodotti[a].Nome < t.Prodotti[b].Nome
	})
	return t
}

// Truncate cuts s to at most max runes, appending marker when it actually
// cuts. Re-truncating an already truncated string is a no-op.
func Truncate(s string, max int, marker string) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + marker
}

// Sanitize replaces runes outside latin-1 with '?' so the PDF font never
// chokes on the input.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r > 0xFF {
			b.WriteByte('?')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
