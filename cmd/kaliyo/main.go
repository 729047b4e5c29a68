package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/kaliyo-backend/internal/config"
	"github.com/scythe504/kaliyo-backend/internal/logger"
	"github.com/scythe504/kaliyo-backend/internal/server"
	"github.com/scythe504/kaliyo-backend/internal/words"
	"github.com/spf13/cobra"
)

func main() {
	cfg := &config.Config{}
	cmd := config.NewCommand(cfg, run)
	cobra.CheckErr(cmd.Execute())
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	logger.Setup(cfg.Verbose, cfg.LogJSON)

	bank, err := words.Load(cfg.WordsFile)
	if err != nil {
		return err
	}
	log.Info().
		Int("words", bank.Len()).
		Dur("turn", cfg.TurnDuration).
		Int("max_players", cfg.MaxPlayers).
		Msg("kaliyo v" + config.ReleaseVersion + " starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, bank).Run(ctx)
}
