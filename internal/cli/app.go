package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/branchsync/internal/archive"
	"github.com/dmitrijs2005/branchsync/internal/backend/filestore"
	"github.com/dmitrijs2005/branchsync/internal/backend/rowstore"
	"github.com/dmitrijs2005/branchsync/internal/config"
	"github.com/dmitrijs2005/branchsync/internal/credentials"
	"github.com/dmitrijs2005/branchsync/internal/logging"
	"github.com/dmitrijs2005/branchsync/internal/store"
	"github.com/dmitrijs2005/branchsync/internal/syncer"
	"github.com/dmitrijs2005/branchsync/internal/transfer"
)

type App struct {
	config       *config.Config
	store        *store.Store
	creds        *credentials.Store
	engine       *archive.Engine
	file         *filestore.Client
	row          *rowstore.Client
	orchestrator *syncer.Orchestrator
	channel      *transfer.Channel
	log          logging.Logger
	reader       *bufio.Reader
	out          *os.File
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	st, err := store.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	creds := credentials.New(st)

	file := filestore.NewClient(creds, st, cfg.BranchID, log)
	row := rowstore.NewClient(creds, st, log)

	orchestrator := syncer.New(file, row, cfg.DebounceWindow, cfg.StatusDisplayWindow, log)
	engine := archive.NewEngine(st, log)
	channel := transfer.NewChannel(file, st, cfg.BranchID, cfg.UserName, log)

	return &App{
		config:       cfg,
		store:        st,
		creds:        creds,
		engine:       engine,
		file:         file,
		row:          row,
		orchestrator: orchestrator,
		channel:      channel,
		log:          log,
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}, nil
}

func (a *App) Close() {
	a.orchestrator.Stop()
	_ = a.store.Close()
}
