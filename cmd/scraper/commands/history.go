package commands

import (
	"fmt"
	"os"
	"time"

	"preciazo-backend/lib/sqliteutil"
	"preciazo-backend/lib/util/serviceutil"
	"preciazo-backend/services/observations"
	"preciazo-backend/services/observations/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyDb *string

func init() {
	historyDb = historyCmd.Flags().String("db", "precios.db", "The database to read observations from.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history <ean> [--db <path>]",
	Short: "Prints the recorded price history of a product.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ean := args[0]

		database, err := sqliteutil.OpenDB(db.Schema, *historyDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()
		service := observations.NewService(database)

		history, err := service.History(cmd.Context(), ean)
		if err != nil {
			serviceutil.Fatal("failed to read history", err)
		}
		if len(history) == 0 {
			serviceutil.Fatal("no history", fmt.Errorf("%w: %s", observations.ErrNotFound, ean))
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"fetched at", "precio", "in stock", "name"})
		for _, o := range history {
			t.AppendRow(table.Row{
				o.FetchedAt.Format(time.ANSIC),
				formatCentavos(o.PrecioCentavos),
				formatStock(o.InStock),
				o.Name,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()

		count, err := service.ApproximateCount(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to read stats", err)
		}
		fmt.Printf("~%d observations total\n", count)
	},
}
