package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dario-aloisi/gestionale-ordini/internal/pivot"
)

const nomeFoglio = "Riepilogo Ordine"

// Fixed column width for cliente columns: the spreadsheet keeps product names
// untruncated and constrains clients by width instead.
const larghezzaColCliente = 12.0

// RenderExcel builds the same matrix as the PDF in a workbook. The first
// failing write aborts the render and the workbook is discarded.
func RenderExcel(doc Documento, tab *pivot.Tabella) (*excelize.File, error) {
	f := excelize.NewFile()
	w := &foglio{f: f}

	if err := f.SetSheetName("Sheet1", nomeFoglio); err != nil {
		return nil, fmt.Errorf("report: render excel: %w", err)
	}

	grassetto := w.stile(&excelize.Style{Font: &excelize.Font{Bold: true}})
	titolo := w.stile(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	cella := w.stile(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    bordoSottile(),
	})
	cellaGrassetto := w.stile(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    bordoSottile(),
	})
	cellaNome := w.stile(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    bordoSottile(),
	})

	// Testata documento
	w.scrivi(1, 1, doc.Intestazione, titolo)
	w.scrivi(3, 1, fmt.Sprintf("Riepilogo del %s", doc.DataLabel), grassetto)
	w.scrivi(4, 1, fmt.Sprintf("Numero ordini: %d", len(tab.Clienti)), grassetto)

	riga := 6

	// Riga 1 intestazione: codici cliente
	w.scrivi(riga, 2, "Cod. Cliente", cellaGrassetto)
	col := 3
	for _, c := range tab.Clienti {
		w.scrivi(riga, col, c.Codice, cellaGrassetto)
		col++
	}
	w.scrivi(riga, col, "TOT", cellaGrassetto)
	riga++

	// Riga 2 intestazione: nomi
	w.scrivi(riga, 1, "Cod. Prod.", cellaGrassetto)
	w.scrivi(riga, 2, "Nome Prodotto", cellaGrassetto)
	col = 3
	for _, c := range tab.Clienti {
		w.scrivi(riga, col, c.Nome, cellaGrassetto)
		col++
	}
	w.scrivi(riga, col, "", cella)
	riga++

	// Corpo
	for _, p := range tab.Prodotti {
		w.scrivi(riga, 1, p.Codice, cellaGrassetto)
		w.scrivi(riga, 2, p.Nome, cellaNome)

		col = 3
		for _, c := range tab.Clienti {
			qta := p.Quantita[c.ID]
			if qta != 0 {
				w.scrivi(riga, col, qta, cellaGrassetto)
			} else {
				w.scrivi(riga, col, "-", cella)
			}
			col++
		}
		w.scrivi(riga, col, p.Totale, cellaGrassetto)
		riga++
	}

	// Riga totali
	w.scrivi(riga, 1, "", cella)
	w.scrivi(riga, 2, "TOTALI", cellaGrassetto)
	col = 3
	for _, c := range tab.Clienti {
		w.scrivi(riga, col, tab.TotaliCliente[c.ID], cellaGrassetto)
		col++
	}
	w.scrivi(riga, col, tab.TotaleGenerale, cellaGrassetto)
	ultimaCol := col

	if note := strings.TrimSpace(doc.Note); note != "" {
		riga += 2
		w.scrivi(riga, 1, fmt.Sprintf("Note Aggiuntive: %s", note), 0)
	}

	// Larghezze colonne
	w.larghezza("A", "A", 10)
	w.larghezza("B", "B", 40)
	if ultimaCol >= 3 {
		da, _ := excelize.ColumnNumberToName(3)
		a, _ := excelize.ColumnNumberToName(ultimaCol)
		w.larghezza(da, a, larghezzaColCliente)
	}

	if w.err != nil {
		return nil, fmt.Errorf("report: render excel: %w", w.err)
	}
	return f, nil
}

// foglio accumulates the first write error so every cell write stays one line.
type foglio struct {
	f   *excelize.File
	err error
}

func (w *foglio) stile(s *excelize.Style) int {
	if w.err != nil {
		return 0
	}
	id, err := w.f.NewStyle(s)
	if err != nil {
		w.err = err
	}
	return id
}

func (w *foglio) scrivi(riga, col int, valore interface{}, stile int) {
	if w.err != nil {
		return
	}
	cella, err := excelize.CoordinatesToCellName(col, riga)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellValue(nomeFoglio, cella, valore); err != nil {
		w.err = err
		return
	}
	if stile != 0 {
		if err := w.f.SetCellStyle(nomeFoglio, cella, cella, stile); err != nil {
			w.err = err
		}
	}
}

func (w *foglio) larghezza(da, a string, punti float64) {
	if w.err != nil {
		return
	}
	if err := w.f.SetColWidth(nomeFoglio, da, a, punti); err != nil {
		w.err = err
	}
}

func bordoSottile() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}
}
