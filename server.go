package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"yourturn/internal/config"
	"yourturn/internal/game"
	"yourturn/internal/handlers"
	"yourturn/internal/questions"
	"yourturn/internal/settings"
	"yourturn/internal/store"
	"yourturn/internal/ws"
)

const httpTimeout = 10 * time.Second

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Debug logging is gated on the DEBUG env var throughout; the
	// verbose flag is just another way to set it.
	if cfg.Verbose {
		os.Setenv("DEBUG", "1")
	}

	source, err := newQuestionSource(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := source.(interface{ Close() }); ok {
		defer closer.Close()
	}

	lobbyStore := store.NewLobbyStore()
	hub := ws.NewHub()
	provider := settings.Values{Score: cfg.WinningScore, Speed: cfg.TimerSpeed}
	games := game.NewService(lobbyStore, source, provider, hub)

	handlerCtx := &handlers.Context{
		LobbyStore: lobbyStore,
		Games:      games,
		Hub:        hub,
		Questions:  source,
		Version:    releaseVersion,
	}

	mux := httprouter.New()
	handlerCtx.Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       httpTimeout,
		ReadHeaderTimeout: httpTimeout,
		// WriteTimeout stays unset: lobby websockets are long-lived.
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("yourturn v%s listening on http://%s/", releaseVersion, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newQuestionSource picks the question backend: Postgres when a
// database URL is configured, otherwise the built-in catalog.
func newQuestionSource(ctx context.Context, cfg *config.Config) (questions.Source, error) {
	if cfg.DatabaseURL != "" {
		log.Printf("using postgres question bank")
		return questions.NewPostgresSource(ctx, cfg.DatabaseURL)
	}
	log.Printf("using built-in question catalog")
	return questions.NewSeededSource(), nil
}
