package commands

import (
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"golfkollektivet-backend/lib/scrapers/golfbox"
	"golfkollektivet-backend/lib/serviceutil"
	"golfkollektivet-backend/services/catalog"

	"github.com/spf13/cobra"
)

var seedClubsFile *string
var seedCatalogFile *string
var seedBaseUrl *string

func init() {
	seedClubsFile = seedCmd.Flags().String("clubs", "clubs.json", "JSON file listing the clubs to fetch, [{\"name\": ..., \"guid\": ...}].")
	seedCatalogFile = seedCmd.Flags().String("out", "golfbox-cache.json", "The catalog file to write.")
	seedBaseUrl = seedCmd.Flags().String("base-url", "", "Override the golfbox base url.")
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed [--clubs <clubs.json>] [--out <catalog.json>]",
	Short: "Fetches courses and tees for every listed club and writes the catalog file.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		data, err := os.ReadFile(*seedClubsFile)
		if err != nil {
			serviceutil.Fatal("failed to read clubs file", err)
		}
		var clubs []catalog.ClubInput
		if err := json.Unmarshal(data, &clubs); err != nil {
			serviceutil.Fatal("failed to parse clubs file", err)
		}
		slog.Info("seeding catalog", "clubs", len(clubs), "out", *seedCatalogFile)

		client, err := golfbox.NewClient(ctx, golfbox.ClientOptions{BaseUrl: *seedBaseUrl})
		if err != nil {
			serviceutil.Fatal("failed to initialize golfbox client", err)
		}

		store := catalog.NewStore(*seedCatalogFile)

		t1 := time.Now()
		fetched := store.Refresh(ctx, client, clubs)
		t2 := time.Now()

		slog.Info("catalog seeded", "clubs", len(fetched), "seconds", t2.Sub(t1).Seconds())
	},
}
