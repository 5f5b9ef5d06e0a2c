// migrate aplica o revierte el esquema del ledger en PostgreSQL.
//
// Uso: go run ./cmd/migrate [up|down|version]
// Por defecto ejecuta "up". Lee la conexión de DATABASE_URL o DB_* (ver pkg/config).
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/Ventas-api/internal/infrastructure/migration"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	m, err := migration.New(cfg.DB.ConnectionString(), log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migrador")
	}
	defer m.Close()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		v, dirty, verr := m.Version()
		if verr == nil {
			fmt.Printf("versión %d (dirty=%t)\n", v, dirty)
		}
		err = verr
	default:
		fmt.Fprintf(os.Stderr, "Comando desconocido %q: use up, down o version\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("cmd", cmd).Msg("migración fallida")
		os.Exit(1)
	}
}
