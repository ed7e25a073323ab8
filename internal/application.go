package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/config"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-rooms/transport/rest"
	"github.com/rocketscienceinc/tictactoe-rooms/transport/websocket"
)

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	var resultRepo repository.ResultRepository
	if conf.Redis.Enabled {
		redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		resultRepo = repository.NewResultRepository(redisStorage, conf.Redis.ResultsLimit)
		log.Info("Recording match results", "addr", conf.Redis.GetRedisAddr())
	}

	roomRepo := repository.NewRoomRepository()
	defer roomRepo.Clear(context.Background())

	gameUseCase := usecase.NewGameUseCase(logger, roomRepo, resultRepo, conf.Room.IDAttempts)
	go gameUseCase.RunRecorder(ctx)

	wsServer := websocket.New(logger, gameUseCase, websocket.Options{
		SendBuffer:     conf.WebSocket.SendBuffer,
		MaxMessageSize: websocket.DefaultOptions().MaxMessageSize,
		PingPeriod:     conf.WebSocket.PingPeriod,
		PongWait:       conf.WebSocket.PongWait,
		WriteWait:      conf.WebSocket.WriteWait,
	})
	go wsServer.Run(ctx)

	router := rest.NewRouter(logger, rest.NewHandlers(logger, gameUseCase), wsServer, conf.StaticDir)

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err := rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
