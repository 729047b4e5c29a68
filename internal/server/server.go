package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/kaliyo-backend/internal/config"
	"github.com/scythe504/kaliyo-backend/internal/game"
	"github.com/scythe504/kaliyo-backend/internal/websocket"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg     *config.Config
	loop    *game.Loop
	ctrl    *game.Controller
	hub     *websocket.Hub
	gateway *websocket.Gateway
}

// New wires the game loop, controller and websocket gateway together.
func New(cfg *config.Config, words game.WordPicker) *Server {
	loop := game.NewLoop(1024)
	hub := websocket.NewHub()
	store := game.NewRoomStore(cfg.DefaultScoreGoal)
	ctrl := game.NewController(store, words, hub, game.NewLoopScheduler(loop), GameSettings(cfg))

	gateway := websocket.NewGateway(loop, ctrl, hub, websocket.Options{
		ChatRate:       cfg.ChatRate,
		ChatBurst:      cfg.ChatBurst,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	return &Server{
		cfg:     cfg,
		loop:    loop,
		ctrl:    ctrl,
		hub:     hub,
		gateway: gateway,
	}
}

func GameSettings(cfg *config.Config) game.Settings {
	settings := game.DefaultSettings()
	settings.TurnDuration = cfg.TurnDuration
	settings.NextTurnDelay = cfg.NextTurnDelay
	settings.MinPlayers = cfg.MinPlayers
	settings.MaxPlayers = cfg.MaxPlayers
	settings.DefaultScoreGoal = cfg.DefaultScoreGoal
	settings.MinScoreGoal = cfg.MinScoreGoal
	return settings
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer func() {
		stopLoop()
		<-s.loop.Done()
	}()
	go s.loop.Run(loopCtx)

	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.RegisterRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("[Server] listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("[Server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.hub.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
