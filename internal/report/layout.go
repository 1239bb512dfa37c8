// Package report renders a pivot.Tabella as the matrix-style order summary,
// either as a PDF byte stream or as an xlsx workbook. The two renderers share
// the layout decisions (sort order comes from the pivot, truncation budgets and
// totals placement live here) but draw independently.
package report

import (
	"fmt"
	"time"
)

// Print layout, in millimetres. The PDF canvas is sized from these.
const (
	wCodProdotto = 20.0
	wNomeProd    = 70.0
	wCliente     = 22.0
	wTotale      = 15.0
	hRiga        = 7.0
	margineLat   = 10.0

	// Floors so a tiny order still prints as a readable sheet, not a receipt
	// strip. Clamp up only.
	minLarghezza = 200.0
	minAltezza   = 80.0

	// Character budgets.
	maxNomeCliente  = 10
	maxNomeProdotto = 38
	// Note wrap estimate used for canvas height: ~90 chars per line at size 9.
	caratteriRigaNote = 90
)

// Documento carries the non-tabular content shared by both renderers.
type Documento struct {
	Intestazione string // agent heading printed on top
	DataLabel    string // delivery date already formatted for display
	Note         string
}

// Artifact base names embed the delivery date and an "HH-MM" creation label so
// two generations on the same day never collide.

func NomePreview(data time.Time, ora string) string {
	return fmt.Sprintf("preview_ordini_%s_orario_%s.pdf", DataFile(data), ora)
}

func NomeArchivioPDF(data time.Time, ora string) string {
	return fmt.Sprintf("ordini_%s_orario_%s.pdf", DataFile(data), ora)
}

func NomeArchivioExcel(data time.Time, ora string) string {
	return fmt.Sprintf("ordini_%s_orario_%s.xlsx", DataFile(data), ora)
}

// NomeAllegato is the clean attachment name shown in the outgoing email: the
// archive copy keeps the creation label, the email does not.
func NomeAllegato(data time.Time) string {
	return fmt.Sprintf("ordini_%s.pdf", DataFile(data))
}

// DataFile formats a delivery date for filenames (day first, dash separated).
func DataFile(t time.Time) string { return t.Format("02-01-2006") }

// DataLabel formats a delivery date for display inside the documents.
func DataLabel(t time.Time) string { return t.Format("02/01/2006") }

// OraLabel is the "HH-MM" creation label stored on the order.
func OraLabel(t time.Time) string { return t.Format("15-04") }
