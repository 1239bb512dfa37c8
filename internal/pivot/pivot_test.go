package pivot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabel(t *testing.T) {
	cases := []struct {
		label  string
		nome   string
		codice string
	}{
		{"Bar Centrale (Cod. C12)", "Bar Centrale", "C12"},
		{"Focaccia Genovese (Cod. 100)", "Focaccia Genovese", "100"},
		{"Cliente Senza Codice", "Cliente Senza Codice", "N/D"},
		{"Strano (ma vero)", "Strano (ma vero)", "N/D"},
		{"", "", "N/D"},
	}
	for _, c := range cases {
		nome, codice := ParseLabel(c.label)
		assert.Equal(t, c.nome, nome, c.label)
		assert.Equal(t, c.codice, codice, c.label)
	}
}

func TestBuild_OrdinamentoPerNome(t *testing.T) {
	tab := Build([]Riga{
		{ClienteID: "1", ClienteLabel: "Bravo (Cod. B1)", ProdottoID: "p", ProdottoLabel: "Pane (Cod. 9)", Quantita: 2},
		{ClienteID: "2", ClienteLabel: "Alfa (Cod. A1)", ProdottoID: "p", ProdottoLabel: "Pane (Cod. 9)", Quantita: 3},
	})

	require.Len(t, tab.Clienti, 2)
	assert.Equal(t, "Alfa", tab.Clienti[0].Nome)
	assert.Equal(t, "A1", tab.Clienti[0].Codice)
	assert.Equal(t, "Bravo", tab.Clienti[1].Nome)
}

func TestBuild_NomiUguali_OrdineDiInserimento(t *testing.T) {
	tab := Build([]Riga{
		{ClienteID: "primo", ClienteLabel: "Alfa (Cod. A1)", ProdottoID: "p", ProdottoLabel: "Pane", Quantita: 1},
		{ClienteID: "secondo", ClienteLabel: "Alfa (Cod. A2)", ProdottoID: "p", ProdottoLabel: "Pane", Quantita: 1},
	})

	require.Len(t, tab.Clienti, 2)
	assert.Equal(t, "primo", tab.Clienti[0].ID)
	assert.Equal(t, "secondo", tab.Clienti[1].ID)
}

func TestBuild_TotaliCoerenti(t *testing.T) {
	righe := []Riga{
		{ClienteID: "c1", ClienteLabel: "Alfa (Cod. A1)", ProdottoID: "p1", ProdottoLabel: "Pane (Cod. 1)", Quantita: 4},
		{ClienteID: "c1", ClienteLabel: "Alfa (Cod. A1)", ProdottoID: "p2", ProdottoLabel: "Vino (Cod. 2)", Quantita: 6},
		{ClienteID: "c2", ClienteLabel: "Bravo (Cod. B1)", ProdottoID: "p1", ProdottoLabel: "Pane (Cod. 1)", Quantita: 5},
		{ClienteID: "c2", ClienteLabel: "Bravo (Cod. B1)", ProdottoID: "p2", ProdottoLabel: "Vino (Cod. 2)", Quantita: 0},
	}
	tab := Build(righe)

	somma := 0
	for _, r := range righe {
		somma += r.Quantita
	}
	assert.Equal(t, somma, tab.TotaleGenerale)

	perCliente := 0
	for _, v := range tab.TotaliCliente {
		perCliente += v
	}
	assert.Equal(t, somma, perCliente)

	perProdotto := 0
	for _, p := range tab.Prodotti {
		perProdotto += p.Totale
	}
	assert.Equal(t, somma, perProdotto)
}

func TestBuild_QuantitaZero_OccupaLaCella(t *testing.T) {
	tab := Build([]Riga{
		{ClienteID: "c1", ClienteLabel: "Alfa (Cod. A1)", ProdottoID: "p1", ProdottoLabel: "Pane (Cod. 1)", Quantita: 0},
	})

	require.Len(t, tab.Prodotti, 1)
	qta, presente := tab.Prodotti[0].Quantita["c1"]
	assert.True(t, presente, "la coppia deve occupare la cella anche a quantità zero")
	assert.Zero(t, qta)
	assert.Zero(t, tab.Prodotti[0].Totale)
	assert.Zero(t, tab.TotaliCliente["c1"])
	assert.Zero(t, tab.TotaleGenerale)
}

func TestBuild_CoppiaRipetuta_SommaLeQuantita(t *testing.T) {
	tab := Build([]Riga{
		{ClienteID: "c1", ClienteLabel: "Alfa (Cod. A1)", ProdottoID: "p1", ProdottoLabel: "Pane (Cod. 1)", Quantita: 2},
		{ClienteID: "c1", ClienteLabel: "Alfa (Cod. A1)", ProdottoID: "p1", ProdottoLabel: "Pane (Cod. 1)", Quantita: 3},
	})

	require.Len(t, tab.Prodotti, 1)
	assert.Equal(t, 5, tab.Prodotti[0].Quantita["c1"])
	assert.Equal(t, 5, tab.Prodotti[0].Totale)
	assert.Equal(t, 5, tab.TotaliCliente["c1"])
	assert.Equal(t, 5, tab.TotaleGenerale)
}

func TestTruncate_Idempotente(t *testing.T) {
	assert.Equal(t, "corto", Truncate("corto", 10, "."))

	lungo := "NomeClienteMoltoLungo"
	una := Truncate(lungo, 10, ".")
	assert.Equal(t, "NomeClient.", una)
	assert.Equal(t, una, Truncate(una, 10, "."))

	prodotto := Truncate("Nome prodotto davvero molto molto lungo da tagliare", 38, "..")
	assert.Equal(t, prodotto, Truncate(prodotto, 38, ".."))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "caffè", Sanitize("caffè"))
	assert.Equal(t, "sushi ??", Sanitize("sushi 寿司"))
}
