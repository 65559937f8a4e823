// Command ingest はデータベースへの一括処理を行うCLIです。
//
// 使い方:
//
//	go run ./cmd/ingest profiles AAPL MSFT TSLA
//	go run ./cmd/ingest profiles -file symbols.txt
//	go run ./cmd/ingest migrate
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"stock_tracker/internal/platform/config"
	"stock_tracker/internal/platform/logger"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "ingest")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(&profilesCmd{}, "")
	commander.Register(&migrateCmd{}, "")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}

// loadConfig は設定を読み込み、ロガーを初期化します。
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}
