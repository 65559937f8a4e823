package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"stock_tracker/internal/app/di"
	stockadapters "stock_tracker/internal/feature/stock/adapters"
	stockusecase "stock_tracker/internal/feature/stock/usecase"
	infradb "stock_tracker/internal/platform/db"
)

// --- profilesCmd ---

type profilesCmd struct {
	file    string
	timeout time.Duration
}

func (*profilesCmd) Name() string     { return "profiles" }
func (*profilesCmd) Synopsis() string { return "fetch company profiles from FMP and upsert stocks" }
func (*profilesCmd) Usage() string {
	return `profiles [-file <symbols.txt>] [-timeout 10m] [SYMBOL...]

  Fetches the FMP company profile of each symbol and creates the stock,
  or replaces its scalar fields when the symbol is already stored.
  Symbols come from the arguments and from -file (one per line, # comments).
`
}

func (c *profilesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "Path to a file with one symbol per line")
	f.DurationVar(&c.timeout, "timeout", 10*time.Minute, "Upper bound for the whole run")
}

func (c *profilesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbols := normalizeSymbols(f.Args())
	if c.file != "" {
		fh, err := os.Open(c.file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening symbol file: %v\n", err)
			return subcommands.ExitFailure
		}
		fromFile, err := readSymbols(fh)
		_ = fh.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading symbol file: %v\n", err)
			return subcommands.ExitFailure
		}
		symbols = append(symbols, fromFile...)
	}
	if len(symbols) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required.")
		return subcommands.ExitUsageError
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	if !cfg.FMP.Enabled() {
		fmt.Fprintln(os.Stderr, "Error: FMP_API_KEY is not set.")
		return subcommands.ExitFailure
	}

	db, err := infradb.OpenDB(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		return subcommands.ExitFailure
	}
	defer func() { _ = infradb.Close(db) }()

	uc := stockusecase.NewIngestUsecase(di.NewProfileClient(cfg.FMP), stockadapters.NewStockRepository(db))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := uc.IngestAll(ctx, symbols)
	if err != nil {
		slog.Error("ingest aborted", "error", err, "created", res.Created, "updated", res.Updated)
		return subcommands.ExitFailure
	}
	slog.Info("ingest ok", "created", res.Created, "updated", res.Updated, "failed", res.Failed)
	if len(res.Failed) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// --- migrateCmd ---

type migrateCmd struct{}

func (*migrateCmd) Name() string             { return "migrate" }
func (*migrateCmd) Synopsis() string         { return "create or update every table" }
func (*migrateCmd) Usage() string            { return "migrate\n\n  Applies the schema regardless of RUN_MIGRATIONS.\n" }
func (*migrateCmd) SetFlags(_ *flag.FlagSet) {}

func (*migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	cfg.DB.RunMigrations = false

	db, err := infradb.OpenDB(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		return subcommands.ExitFailure
	}
	defer func() { _ = infradb.Close(db) }()

	if err := infradb.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		return subcommands.ExitFailure
	}
	slog.Info("migration ok")
	return subcommands.ExitSuccess
}

// normalizeSymbols は空白を除いて大文字にし、重複と空文字を取り除きます。
func normalizeSymbols(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// readSymbols は1行1シンボルで読み込みます。#以降はコメントです。
func readSymbols(r io.Reader) ([]string, error) {
	var raw []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		raw = append(raw, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return normalizeSymbols(raw), nil
}
