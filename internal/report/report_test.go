package report

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dario-aloisi/gestionale-ordini/internal/pivot"
)

func tabellaDiProva() *pivot.Tabella {
	return pivot.Build([]pivot.Riga{
		{ClienteID: "c2", ClienteLabel: "Bravo (Cod. B1)", ProdottoID: "p1", ProdottoLabel: "Pane (Cod. 1)", Quantita: 5},
		{ClienteID: "c1", ClienteLabel: "Alfa (Cod. A1)", ProdottoID: "p1", ProdottoLabel: "Pane (Cod. 1)", Quantita: 4},
		{ClienteID: "c1", ClienteLabel: "Alfa (Cod. A1)", ProdottoID: "p2", ProdottoLabel: "Vino (Cod. 2)", Quantita: 6},
		{ClienteID: "c2", ClienteLabel: "Bravo (Cod. B1)", ProdottoID: "p2", ProdottoLabel: "Vino (Cod. 2)", Quantita: 0},
	})
}

func docDiProva() Documento {
	return Documento{
		Intestazione: "Agente 15 ROSSI MARIO",
		DataLabel:    "15/12/2025",
		Note:         "Consegnare entro le 8",
	}
}

func TestMisuraCanvas_MinimiDiSicurezza(t *testing.T) {
	tab := pivot.Build([]pivot.Riga{
		{ClienteID: "c1", ClienteLabel: "Alfa (Cod. A1)", ProdottoID: "p1", ProdottoLabel: "Pane (Cod. 1)", Quantita: 1},
	})

	larghezza, altezza := misuraCanvas(tab, "")
	assert.Equal(t, minLarghezza, larghezza, "un ordine minuscolo si aggancia alla larghezza minima")
	assert.Equal(t, minAltezza, altezza)
}

func TestMisuraCanvas_CresceConIlContenuto(t *testing.T) {
	var righe []pivot.Riga
	for c := 0; c < 10; c++ {
		for p := 0; p < 20; p++ {
			righe = append(righe, pivot.Riga{
				ClienteID:     fmt.Sprintf("c%02d", c),
				ClienteLabel:  fmt.Sprintf("Cliente %02d (Cod. C%02d)", c, c),
				ProdottoID:    fmt.Sprintf("p%02d", p),
				ProdottoLabel: fmt.Sprintf("Prodotto %02d (Cod. P%02d)", p, p),
				Quantita:      1,
			})
		}
	}
	tab := pivot.Build(righe)

	larghezza, altezza := misuraCanvas(tab, "")
	// margini + cod + nome + 10 colonne cliente + totale
	assert.Equal(t, margineLat+wCodProdotto+wNomeProd+10*wCliente+wTotale+margineLat, larghezza)
	// testata + 2 intestazioni + 20 prodotti + totali + margine basso
	assert.Equal(t, 30+float64(2+20+1)*hRiga+5, altezza)
}

func TestMisuraCanvas_BloccoNote(t *testing.T) {
	tab := tabellaDiProva()

	senza, base := misuraCanvas(tab, "")
	_, con := misuraCanvas(tab, strings.Repeat("x", 200))

	// Senza note l'altezza calcolata (70mm) si aggancia al minimo.
	assert.Equal(t, minAltezza, base)
	assert.Equal(t, minLarghezza, senza)
	// 200 caratteri ≈ 3 righe stimate: 8mm di titolo + 15mm di testo
	// sopra i 70mm di struttura, oltre il minimo.
	assert.Equal(t, 30+float64(2+2+1)*hRiga+5+8+3*5, con)
}

func TestRenderPDF(t *testing.T) {
	out, err := RenderPDF(docDiProva(), tabellaDiProva())
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.True(t, strings.HasPrefix(string(out[:5]), "%PDF-"))
}

func TestRenderExcel_StessiTotaliEOrdinamento(t *testing.T) {
	tab := tabellaDiProva()
	f, err := RenderExcel(docDiProva(), tab)
	require.NoError(t, err)
	defer f.Close()

	// Intestazioni cliente ordinate per nome, come nel PDF.
	v, err := f.GetCellValue(nomeFoglio, "C7")
	require.NoError(t, err)
	assert.Equal(t, "Alfa", v)
	v, _ = f.GetCellValue(nomeFoglio, "D7")
	assert.Equal(t, "Bravo", v)

	// Riga totali: 6 (inizio tabella) + 2 intestazioni + 2 prodotti.
	rigaTotali := 10
	v, _ = f.GetCellValue(nomeFoglio, fmt.Sprintf("C%d", rigaTotali))
	assert.Equal(t, strconv.Itoa(tab.TotaliCliente["c1"]), v)
	v, _ = f.GetCellValue(nomeFoglio, fmt.Sprintf("D%d", rigaTotali))
	assert.Equal(t, strconv.Itoa(tab.TotaliCliente["c2"]), v)
	v, _ = f.GetCellValue(nomeFoglio, fmt.Sprintf("E%d", rigaTotali))
	assert.Equal(t, strconv.Itoa(tab.TotaleGenerale), v)

	// Cella a quantità zero: segnaposto, non "0".
	v, _ = f.GetCellValue(nomeFoglio, fmt.Sprintf("D%d", rigaTotali-1))
	assert.Equal(t, "-", v)
}

func TestNomiArtefatti(t *testing.T) {
	data := time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "preview_ordini_15-12-2025_orario_10-30.pdf", NomePreview(data, "10-30"))
	assert.Equal(t, "ordini_15-12-2025_orario_10-30.pdf", NomeArchivioPDF(data, "10-30"))
	assert.Equal(t, "ordini_15-12-2025_orario_10-30.xlsx", NomeArchivioExcel(data, "10-30"))
	assert.Equal(t, "ordini_15-12-2025.pdf", NomeAllegato(data))
}
