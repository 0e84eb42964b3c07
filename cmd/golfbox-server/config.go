package main

import (
	"golfkollektivet-backend/services/scorecard"
)

type GolfboxConfig struct {
	// empty means the production golfbox site
	BaseUrl string `json:"base_url"`
}

type Config struct {
	Port        int              `json:"port"`
	CatalogFile string           `json:"catalog_file"`
	Golfbox     GolfboxConfig    `json:"golfbox"`
	Scorecard   scorecard.Config `json:"scorecard"`
}

func (c Config) ServerPort() int {
	if c.Port == 0 {
		return 8000
	}
	return c.Port
}

func (c Config) CatalogPath() string {
	if c.CatalogFile == "" {
		return "golfbox-cache.json"
	}
	return c.CatalogFile
}
