package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/WangQiHao-Charlie/screpd/internal/logging"
	"github.com/WangQiHao-Charlie/screpd/internal/service"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		sock  string
		feats string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve screp.v1.Screp over gRPC on a unix socket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("socket") {
				sock = a.cfg.Socket
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, sock, splitComma(feats))
		},
	}
	cmd.Flags().StringVar(&sock, "socket", "", "unix socket path (default $SCREPD_SOCKET)")
	cmd.Flags().StringVar(&feats, "features", "", "comma-separated feature list")
	return cmd
}

func (a *app) serve(ctx context.Context, sock string, features []string) error {
	log := logging.New(logging.ComponentServe)

	// Remove existing socket file if any
	if err := os.MkdirAll(filepath.Dir(sock), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if _, err := os.Stat(sock); err == nil {
		_ = os.Remove(sock)
	}
	l, err := net.Listen("unix", sock)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer l.Close()
	_ = os.Chmod(sock, 0o766)

	drv := a.driver()
	runner := a.runner(drv)
	impl := service.NewScrepServer(runner, features, map[string]string{
		"impl":    "exec",
		"version": version,
	})

	grpcServer := grpc.NewServer()
	service.Register(grpcServer, impl)
	// Enable server reflection for grpcurl and other tools
	reflection.Register(grpcServer)

	if !runner.Available() {
		log.Warn("screp binary not found; requests will fail until it is installed", slog.String("command", runner.Command()))
	}
	log.Info("gRPC screp service listening", slog.String("socket", sock))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return grpcServer.Serve(l) })
	g.Go(func() error {
		<-gctx.Done()
		grpcServer.GracefulStop()
		m := drv.Metrics()
		log.Info("shutting down",
			slog.Uint64("runs", m.DurationCount),
			slog.Uint64("succeeded", m.Success),
		)
		return nil
	})
	if err := g.Wait(); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

func splitComma(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
