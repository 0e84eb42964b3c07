package commands

import (
	"fmt"
	"os"

	"golfkollektivet-backend/lib/serviceutil"
	"golfkollektivet-backend/services/catalog"

	"github.com/spf13/cobra"
)

var exportCatalogFile *string

func init() {
	exportCatalogFile = exportCmd.Flags().String("catalog", "golfbox-cache.json", "The catalog file to read.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--catalog <catalog.json>]",
	Short: "Prints the catalog file after the load-time dedup pass.",
	Run: func(cmd *cobra.Command, args []string) {
		store := catalog.NewStore(*exportCatalogFile)
		if err := store.LoadFromDisk(); err != nil {
			serviceutil.Fatal("failed to load catalog", err)
		}
		data, err := store.ExportJson()
		if err != nil {
			serviceutil.Fatal("failed to export catalog", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
	},
}
