package commands

import (
	"fmt"
	"os"

	"preciazo-backend/lib/htmlutil"
	"preciazo-backend/lib/scrapers"
	"preciazo-backend/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(parseFileCmd)
}

var parseFileCmd = &cobra.Command{
	Use:   "parse-file <path/to/page.html>",
	Short: "Parses a saved product page offline, useful when debugging a retailer's markup.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		body, err := os.ReadFile(args[0])
		if err != nil {
			serviceutil.Fatal("failed to read page", err)
		}

		doc, err := htmlutil.Document(body)
		if err != nil {
			serviceutil.Fatal("failed to parse html", err)
		}
		url, ok := doc.Find(`link[rel="canonical"]`).Attr("href")
		if !ok {
			serviceutil.Fatal("failed to recover source url", fmt.Errorf("page has no canonical link"))
		}

		point, err := scrapers.ParsePage(cmd.Context(), url, body)
		if err != nil {
			serviceutil.Fatal("failed to extract observation", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendRows([]table.Row{
			{"url", url},
			{"ean", point.EAN},
			{"precio", formatCentavos(point.PrecioCentavos)},
			{"in_stock", formatStock(point.InStock)},
			{"name", point.Name},
			{"image_url", point.ImageURL},
			{"parser_version", point.ParserVersion},
		})
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

func formatCentavos(centavos *int64) string {
	if centavos == nil {
		return "-"
	}
	return fmt.Sprintf("$%d.%02d", *centavos/100, *centavos%100)
}

func formatStock(inStock *bool) string {
	if inStock == nil {
		return "-"
	}
	if *inStock {
		return "yes"
	}
	return "no"
}
