package main

import (
	"flag"
	"log/slog"
	"net/http"

	"golfkollektivet-backend/lib/configutil"
	"golfkollektivet-backend/lib/serviceutil"
	"golfkollektivet-backend/lib/telemetry"
	"golfkollektivet-backend/services/catalog"
	"golfkollektivet-backend/services/scorecard"
	"golfkollektivet-backend/services/scores"
)

func main() {
	flag.Parse()

	ctx := serviceutil.SignalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "golfbox-server")
	if err != nil {
		serviceutil.Fatal("init telemetry", err)
	}
	defer tel.Shutdown(ctx)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	store := catalog.NewStore(cfg.CatalogPath())
	if err := store.LoadFromDisk(); err != nil {
		serviceutil.Fatal("load catalog", err)
	}
	slog.Info("catalog loaded", "clubs", len(store.Load()))

	mux := http.NewServeMux()
	RegisterHandlers(mux, Handlers{
		Scores:    scores.NewService(cfg.Golfbox.BaseUrl),
		Scorecard: scorecard.NewClient(cfg.Scorecard),
		Catalog:   store,
		BaseUrl:   cfg.Golfbox.BaseUrl,
	})

	go serviceutil.StartHttpServer(cfg.ServerPort(), mux)
	<-ctx.Done()
}
