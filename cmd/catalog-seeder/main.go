package main

import (
	"golfkollektivet-backend/cmd/catalog-seeder/commands"
	"golfkollektivet-backend/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
