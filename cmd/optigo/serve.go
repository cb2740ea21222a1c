package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/optigo-xyz/go-optigo/engine"
	"github.com/optigo-xyz/go-optigo/history"
	"github.com/optigo-xyz/go-optigo/server"
	"github.com/optigo-xyz/go-optigo/solver"
)

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 0, "Listen port (overrides OPTIGO_PORT)")
	cors := fs.Bool("cors", false, "Allow cross-origin requests from any origin")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: optigo serve [options]

Run the HTTP optimization service.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  OPTIGO_PORT                listen port (default %d)
  OPTIGO_TIME_LIMIT_SECONDS  default solve time limit
  OPTIGO_GAP_TOLERANCE       default relative gap tolerance
  OPTIGO_POOL_SIZE           solver handle pool size
  OPTIGO_HISTORY             SQLite path for solve history
`, server.DefaultPort)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := server.ConfigFromEnv()
	if *port > 0 {
		cfg.Port = *port
	}

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var store history.Store
	if cfg.HistoryPath != "" {
		s, err := history.NewSQLiteStore(cfg.HistoryPath)
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		defer s.Close()
		store = s
	}

	engOpts := []engine.Option{
		engine.WithDefaults(cfg.DefaultLimits),
		engine.WithLogger(log),
	}
	if store != nil {
		engOpts = append(engOpts, engine.WithHistory(store))
	}
	eng := engine.New(solver.New(cfg.PoolSize), engOpts...)

	srvOpts := []server.Option{server.WithLogger(log)}
	if *cors {
		srvOpts = append(srvOpts, server.WithCORS())
	}
	if store != nil {
		srvOpts = append(srvOpts, server.WithHistory(store))
	}
	srv := server.NewServer(eng, srvOpts...)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info().Str("addr", addr).Msg("optigo listening")
	return http.ListenAndServe(addr, srv.Mux())
}
