// Command reconcile syncs external spreadsheets against the order database:
//
//	reconcile analyze <listino.xlsx>          read-only diff of the price list
//	reconcile sync <listino.xlsx>             insert new products, overwrite prices
//	reconcile import-history <storico.xlsx>   synthesize historical orders
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/dario-aloisi/gestionale-ordini/internal/config"
	"github.com/dario-aloisi/gestionale-ordini/internal/infra"
	"github.com/dario-aloisi/gestionale-ordini/internal/reconcile"
	"github.com/dario-aloisi/gestionale-ordini/internal/repository"
)

var foglioStorico string

var rootCmd = &cobra.Command{
	Use:          "reconcile",
	Short:        "Riconcilia listini e storici esterni con il database ordini",
	SilenceUsage: true,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <listino.xlsx>",
	Short: "Confronta il listino con il catalogo senza scrivere nulla",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		righe, err := reconcile.LeggiListino(args[0])
		if err != nil {
			return err
		}

		prodotti, err := apriProdotti()
		if err != nil {
			return err
		}

		esistenti, err := prodotti.PerCodice(cmd.Context())
		if err != nil {
			return err
		}

		esito := reconcile.AnalizzaListino(righe, esistenti)
		fmt.Printf("Righe lette:        %d\n", esito.RigheTotali)
		fmt.Printf("Già presenti:       %d\n", esito.Presenti)
		fmt.Printf("Nuovi prodotti:     %d\n", len(esito.Nuovi))
		fmt.Printf("Senza codice:       %d\n", esito.SenzaCodice)
		for _, n := range esito.Nuovi {
			fmt.Printf("  + %s  %s\n", n.Codice, n.Nome)
		}
		if len(esito.ConflittiNome) > 0 {
			fmt.Printf("Conflitti di nome (mai sovrascritti):\n")
			for _, c := range esito.ConflittiNome {
				fmt.Printf("  ! %s  db=%q  listino=%q\n", c.Codice, c.NomeDB, c.NomeListino)
			}
		}
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync <listino.xlsx>",
	Short: "Inserisce i prodotti nuovi e aggiorna i prezzi di quelli esistenti",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		righe, err := reconcile.LeggiListino(args[0])
		if err != nil {
			return err
		}

		s, err := apriSincronizzatore()
		if err != nil {
			return err
		}

		esito, err := s.SincronizzaListino(cmd.Context(), righe)
		if err != nil {
			return err
		}
		fmt.Printf("Righe lette:        %d\n", esito.RigheTotali)
		fmt.Printf("Inseriti:           %d\n", esito.Inseriti)
		fmt.Printf("Prezzi aggiornati:  %d\n", esito.PrezziAggiornati)
		fmt.Printf("Senza codice:       %d\n", esito.SenzaCodice)
		return nil
	},
}

var importHistoryCmd = &cobra.Command{
	Use:   "import-history <storico.xlsx>",
	Short: "Sintetizza gli ordini storici dalle righe di transazione",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		righe, err := reconcile.LeggiStorico(args[0], foglioStorico)
		if err != nil {
			return err
		}

		s, err := apriSincronizzatore()
		if err != nil {
			return err
		}

		esito, err := s.ImportaStorico(cmd.Context(), righe)
		if err != nil {
			return err
		}
		fmt.Printf("Righe lette:        %d\n", esito.RigheTotali)
		fmt.Printf("Ordini creati:      %d\n", esito.OrdiniCreati)
		fmt.Printf("Righe inserite:     %d\n", esito.RigheInserite)
		fmt.Printf("Righe scartate:     %d\n", esito.RigheScartate)
		fmt.Printf("Prodotti nuovi:     %d\n", esito.ProdottiNuovi)
		if len(esito.ClientiMancanti) > 0 {
			fmt.Printf("Clienti sconosciuti (mai fabbricati):\n")
			for _, codice := range esito.ClientiMancanti {
				fmt.Printf("  ? %s\n", codice)
			}
		}
		return nil
	},
}

func apriDatabase() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return infra.NewDatabase(cfg.DatabaseDSN)
}

// apriProdotti serves the read-only analyze pass.
func apriProdotti() (repository.ProdottoRepository, error) {
	db, err := apriDatabase()
	if err != nil {
		return nil, err
	}
	return repository.NewProdottoRepository(db), nil
}

// apriSincronizzatore builds the mutating reconciliation entry point.
func apriSincronizzatore() (*reconcile.Sincronizzatore, error) {
	db, err := apriDatabase()
	if err != nil {
		return nil, err
	}
	prodotti := repository.NewProdottoRepository(db)
	clienti := repository.NewClienteRepository(db)
	ordini := repository.NewOrdineRepository(db)
	return reconcile.NewSincronizzatore(prodotti, clienti, ordini), nil
}

func main() {
	importHistoryCmd.Flags().StringVar(&foglioStorico, "foglio", "Storico", "nome del foglio con le righe di transazione")

	rootCmd.AddCommand(analyzeCmd, syncCmd, importHistoryCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
