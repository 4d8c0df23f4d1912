// Command bookd runs the order book engine as a server: it consumes
// MBO events from the configured feed, keeps the book in sync, serves
// market-data queries over gRPC and publishes periodic MBP snapshots.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"rainybook/api/grpcserver"
	"rainybook/api/pb"
	"rainybook/config"
	"rainybook/domain/mbo"
	"rainybook/domain/orderbook"
	"rainybook/feed"
	infrakafka "rainybook/infra/kafka"
	infralog "rainybook/infra/log"
	"rainybook/infra/metrics"
	"rainybook/infra/store"
	"rainybook/jobs/broadcaster"
	"rainybook/service"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot := infralog.New("info", true)
		boot.Fatal().Err(err).Msg("config load failed")
	}
	logger := infralog.New(cfg.Logging.Level, cfg.Logging.Pretty)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ---------------- Metrics ----------------

	reg := metrics.Init(logger)
	metricsSrv := &http.Server{Addr: cfg.Server.MetricsAddr, Handler: metrics.Handler(reg)}
	go func() {
		logger.Info().Str("addr", cfg.Server.MetricsAddr).Msg("metrics listening")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server exited")
		}
	}()

	// ---------------- Snapshot store ----------------

	var st *store.Store
	if cfg.Snapshot.Dir != "" {
		st, err = store.Open(cfg.Snapshot.Dir)
		if err != nil {
			logger.Fatal().Err(err).Str("dir", cfg.Snapshot.Dir).Msg("snapshot store open failed")
		}
		defer st.Close()

		if seq, takenAt, _, ok, err := st.Latest(); err != nil {
			logger.Warn().Err(err).Msg("could not read latest snapshot")
		} else if ok {
			logger.Info().
				Uint64("seq", seq).
				Time("taken_at", takenAt).
				Msg("previous snapshot found; book rebuilds from the live feed")
		}
	}

	// ---------------- Service ----------------

	svc := service.New(logger, st)

	// ---------------- Feed ----------------

	go runFeed(ctx, cfg, svc, logger)

	// ---------------- Broadcaster ----------------

	if cfg.Snapshot.Publish {
		bc, err := broadcaster.New(
			svc,
			cfg.Kafka.Brokers,
			cfg.Kafka.SnapshotTopic,
			time.Duration(cfg.Snapshot.IntervalSeconds)*time.Second,
			logger,
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("broadcaster init failed")
		}
		defer bc.Close()
		go bc.Run(ctx)
	}

	// ---------------- gRPC ----------------

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.Server.GRPCAddr).Msg("listen failed")
	}

	grpcSrv := grpc.NewServer(grpc.ForceServerCodec(pb.JSONCodec{}))
	pb.RegisterMarketDataServer(grpcSrv, grpcserver.NewServer(svc, logger))

	go func() {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		grpcSrv.GracefulStop()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", cfg.Server.GRPCAddr).Msg("engine running")
	if err := grpcSrv.Serve(lis); err != nil {
		logger.Fatal().Err(err).Msg("gRPC server exited")
	}
}

// runFeed drives the book from the configured source until the
// context is cancelled.
func runFeed(ctx context.Context, cfg config.Config, svc *service.MarketService, logger infralog.Logger) {
	switch cfg.Feed.Source {
	case "kafka":
		consumer := infrakafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic, cfg.Kafka.GroupID)
		defer consumer.Close()
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.EventsTopic).
			Msg("consuming events")

		for ctx.Err() == nil {
			msg, err := consumer.Next(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				metrics.FeedDecodeErrorsTotal.Inc()
				logger.Warn().Err(err).Msg("skipping bad event")
				continue
			}
			applyEvent(svc, msg, logger)
		}

	case "ws":
		logger.Info().Str("url", cfg.Feed.WSURL).Msg("streaming events")
		for res := range feed.Stream(ctx, cfg.Feed.WSURL, logger) {
			if res.Err != nil {
				logger.Error().Err(res.Err).Msg("feed stream ended")
				return
			}
			applyEvent(svc, res.Msg, logger)
		}

	case "file":
		messages, err := feed.ReadFile(cfg.Feed.File)
		if err != nil {
			logger.Error().Err(err).Str("file", cfg.Feed.File).Msg("feed file decode failed")
			return
		}
		logger.Info().Str("file", cfg.Feed.File).Int("events", len(messages)).Msg("replaying feed file")
		for _, msg := range messages {
			applyEvent(svc, msg, logger)
		}
	}
}

// applyEvent applies one event, treating book desync errors as fatal
// for the feed position but not the process: the operator decides
// whether to restart with a clear.
func applyEvent(svc *service.MarketService, msg mbo.Message, logger infralog.Logger) {
	err := svc.Apply(msg)
	if err == nil {
		return
	}

	var notFound *orderbook.OrderNotFoundError
	if errors.As(err, &notFound) {
		logger.Warn().
			Uint64("order_id", notFound.OrderID).
			Msg("feed references unknown order; book may be desynchronized")
	}
}
