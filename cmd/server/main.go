package main

import (
	"flag"
	"net/http"

	"preciazo-backend/lib/sqliteutil"
	"preciazo-backend/lib/telemetry"
	"preciazo-backend/lib/util/configutil"
	"preciazo-backend/lib/util/serviceutil"
	"preciazo-backend/services/observations"
	"preciazo-backend/services/observations/db"
	"preciazo-backend/services/observations/server"
)

type Config struct {
	Port int    `json:"port"`
	Db   string `json:"db"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(*verbose)
	telemetry.SetupFromEnvOrWarn(ctx, "observations-server")
	telemetry.InstrumentPerfStats(ctx)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.Db == "" {
		cfg.Db = "precios.db"
	}

	database, err := sqliteutil.OpenDB(db.Schema, cfg.Db)
	if err != nil {
		serviceutil.Fatal("open db", err)
	}
	defer database.Close()

	mux := http.NewServeMux()
	server.New(observations.NewService(database)).Register(mux)

	go serviceutil.StartHttpServer(cfg.Port, mux)
	<-ctx.Done()
}
