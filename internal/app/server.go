package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

// Run serves HTTP and gRPC and runs the backup schedule until ctx is
// cancelled or one of them fails, then shuts everything down.
func (a *Application) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", a.cfg.HTTPPort)
	if err != nil {
		return fmt.Errorf("failed to listen on HTTP port %s: %w", a.cfg.HTTPPort, err)
	}
	grpcLis, err := net.Listen("tcp", a.cfg.GrpcPort)
	if err != nil {
		_ = httpLis.Close()
		return fmt.Errorf("failed to listen on gRPC port %s: %w", a.cfg.GrpcPort, err)
	}

	sched, err := a.Scheduler()
	if err != nil {
		_ = httpLis.Close()
		_ = grpcLis.Close()
		return err
	}

	httpServer := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := a.GRPCServer()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Infof("Starting HTTP server on %s", httpLis.Addr())
		if err := httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.log.Infof("Starting gRPC server on %s", grpcLis.Addr())
		if err := grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server failed: %w", err)
		}
		return nil
	})

	if sched != nil {
		sched.Start()
	}

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if sched != nil {
			sched.Stop(shutdownCtx)
		}
		grpcServer.GracefulStop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown failed: %w", err)
		}
		a.log.Info("Servers stopped.")
		return nil
	})

	return g.Wait()
}
