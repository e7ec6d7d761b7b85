package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/abhisek/pixelgift/internal/auth"
	"github.com/abhisek/pixelgift/internal/config"
	"github.com/abhisek/pixelgift/internal/logging"
	"github.com/abhisek/pixelgift/internal/progress"
	"github.com/abhisek/pixelgift/internal/store"
	"github.com/spf13/cobra"
)

// env is what every command opens: config, log file, database and the
// progress store on top of it.
type env struct {
	cfg      *config.Config
	log      *slog.Logger
	st       *store.Store
	progress *progress.ProgressStore
	gate     *auth.Gate

	logFile io.Closer
}

func openEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = logging.DefaultFile()
	}
	log, logFile, err := logging.OpenFile(logPath, cfg.SlogLevel())
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log)

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Info("store opened", "path", dbPath)

	ps := progress.New(st.KV(), store.NewMemoryKV(), progress.WithLogger(log))
	gate := auth.New(st.KV(), auth.Credentials{
		Username: cfg.Username,
		Password: cfg.Password,
		Hash:     cfg.PasswordHash,
	}, log)

	return &env{cfg: cfg, log: log, st: st, progress: ps, gate: gate, logFile: logFile}, nil
}

func (e *env) Close() {
	e.progress.Close()
	if err := e.st.Close(); err != nil {
		e.log.Warn("close store", "err", err)
	}
	e.logFile.Close()
}
