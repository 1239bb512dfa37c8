package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/dario-aloisi/gestionale-ordini/internal/pivot"
)

// RenderPDF draws the matrix on a custom-sized canvas computed from the
// content and returns the document bytes. Any drawing error aborts the whole
// render: no partial output is ever returned.
func RenderPDF(doc Documento, tab *pivot.Tabella) ([]byte, error) {
	larghezza, altezza := misuraCanvas(tab, doc.Note)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: larghezza, Ht: altezza},
	})
	pdf.SetMargins(margineLat, 2, margineLat)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Testata
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, pivot.Sanitize(doc.Intestazione), "", 1, "C", false, 0, "")
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Riepilogo del %s", doc.DataLabel), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Numero ordini: %d", len(tab.Clienti)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	larghezzaTabella := wCodProdotto + wNomeProd + float64(len(tab.Clienti))*wCliente + wTotale
	xInizio := pdf.GetX()
	yInizio := pdf.GetY()

	// Griglia interna sottile
	pdf.SetLineWidth(0.1)
	pdf.SetFont("Helvetica", "B", 8)

	// Riga 1: codici cliente
	pdf.CellFormat(wCodProdotto, hRiga, "", "1", 0, "", false, 0, "")
	pdf.CellFormat(wNomeProd, hRiga, "Cod. Cliente", "1", 0, "C", false, 0, "")
	for _, c := range tab.Clienti {
		pdf.CellFormat(wCliente, hRiga, c.Codice, "1", 0, "C", false, 0, "")
	}
	pdf.CellFormat(wTotale, hRiga, "TOT", "1", 1, "C", false, 0, "")

	// Riga 2: nomi
	pdf.CellFormat(wCodProdotto, hRiga, "Cod. Prod.", "1", 0, "C", false, 0, "")
	pdf.CellFormat(wNomeProd, hRiga, "Nome Prodotto", "1", 0, "C", false, 0, "")
	for _, c := range tab.Clienti {
		pdf.CellFormat(wCliente, hRiga, pivot.Truncate(c.Nome, maxNomeCliente, "."), "1", 0, "C", false, 0, "")
	}
	pdf.CellFormat(wTotale, hRiga, "", "1", 1, "C", false, 0, "")

	// Corpo
	for _, p := range tab.Prodotti {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(wCodProdotto, hRiga, p.Codice, "1", 0, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(wNomeProd, hRiga, pivot.Truncate(p.Nome, maxNomeProdotto, ".."), "1", 0, "L", false, 0, "")

		for _, c := range tab.Clienti {
			qta := p.Quantita[c.ID]
			display := "-"
			if qta != 0 {
				display = strconv.Itoa(qta)
				pdf.SetFont("Helvetica", "B", 8)
			} else {
				pdf.SetFont("Helvetica", "", 8)
			}
			pdf.CellFormat(wCliente, hRiga, display, "1", 0, "C", false, 0, "")
		}

		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(wTotale, hRiga, strconv.Itoa(p.Totale), "1", 1, "C", false, 0, "")
	}

	// Riga totali
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(wCodProdotto, hRiga, "", "1", 0, "", false, 0, "")
	pdf.CellFormat(wNomeProd, hRiga, "TOTALI", "1", 0, "C", false, 0, "")
	for _, c := range tab.Clienti {
		pdf.CellFormat(wCliente, hRiga, strconv.Itoa(tab.TotaliCliente[c.ID]), "1", 0, "C", false, 0, "")
	}
	pdf.CellFormat(wTotale, hRiga, strconv.Itoa(tab.TotaleGenerale), "1", 1, "C", false, 0, "")

	// Cornice esterna spessa
	yFine := pdf.GetY()
	pdf.SetLineWidth(0.4)
	pdf.Rect(xInizio, yInizio, larghezzaTabella, yFine-yInizio, "D")

	if note := strings.TrimSpace(doc.Note); note != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, "Note Aggiuntive:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, pivot.Sanitize(note), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// misuraCanvas computes the page size from the content, clamping up to the
// minimum sheet so the result never looks like a receipt strip.
func misuraCanvas(tab *pivot.Tabella, note string) (larghezza, altezza float64) {
	larghezza = margineLat + wCodProdotto + wNomeProd +
		float64(len(tab.Clienti))*wCliente + wTotale + margineLat

	// 30mm page heading + 2 header rows + product rows + totals row.
	altezza = 30 + float64(2+len(tab.Prodotti)+1)*hRiga

	if n := strings.TrimSpace(note); n != "" {
		righeStimate := len(n)/caratteriRigaNote + 1
		// 8mm for the "Note Aggiuntive:" title plus 5mm per estimated line.
		altezza += 8 + float64(righeStimate)*5
	}
	altezza += 5

	if larghezza < minLarghezza {
		larghezza = minLarghezza
	}
	if altezza < minAltezza {
		altezza = minAltezza
	}
	return larghezza, altezza
}
