// Command canvasraftd runs one canvasraft cluster member: a Raft node, its
// gRPC peer endpoint, and the HTTP/WebSocket façade clients talk to.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"canvasraft/internal/canvas"
	"canvasraft/internal/config"
	"canvasraft/internal/httpapi"
	"canvasraft/internal/logging"
	"canvasraft/internal/metrics"
	"canvasraft/internal/raft"
	"canvasraft/internal/transport"
	"canvasraft/raftpb"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var debugLog bool

	root := &cobra.Command{
		Use:   "canvasraftd",
		Short: "Replicated collaborative pixel canvas over Raft",
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run this process as one cluster member",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(debugLog)
		},
	}
	root.PersistentFlags().BoolVar(&debugLog, "debug", false, "use development-mode logging")
	root.AddCommand(serve)
	return root
}

func runServe(debugLog bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("canvasraftd: %w", err)
	}

	logger, err := logging.New(debugLog)
	if err != nil {
		return fmt.Errorf("canvasraftd: logging: %w", err)
	}
	defer logger.Sync()

	transport.RequestVoteTimeout = cfg.RequestVoteTimeout
	transport.AppendEntriesTimeout = cfg.AppendEntriesTimeout
	transport.HealthCheckTimeout = cfg.HealthCheckTimeout
	transport.SubmitPixelTimeout = cfg.SubmitPixelTimeout

	grid := canvas.New(cfg.CanvasSize)
	broadcaster := canvas.NewClientBroadcaster()
	grid.SetHook(broadcaster.Hook())

	addrs := make(map[string]string, len(cfg.Peers))
	peerIDs := make([]string, 0, len(cfg.Peers))
	for _, p := range cfg.Peers {
		addrs[p.NodeID] = p.GRPCAddr()
		peerIDs = append(peerIDs, p.NodeID)
	}
	peerTransport := transport.NewGRPCTransport(addrs)

	nodeCfg := raft.DefaultConfig(cfg.NodeID, peerIDs)
	nodeCfg.ElectionTimeoutMin = cfg.ElectionTimeoutMin
	nodeCfg.ElectionTimeoutMax = cfg.ElectionTimeoutMax
	nodeCfg.HeartbeatInterval = cfg.HeartbeatInterval

	node := raft.NewNode(nodeCfg, peerTransport, grid, logger)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg, cfg.NodeID)
	node.SetMetrics(m)

	grpcServer := grpc.NewServer()
	raftpb.RegisterRaftServiceServer(grpcServer, raft.NewGRPCServer(node))

	grpcListener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Host, cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("canvasraftd: grpc listen: %w", err)
	}
	go func() {
		logger.Info("grpc server listening", zap.String("addr", grpcListener.Addr().String()))
		if err := grpcServer.Serve(grpcListener); err != nil {
			logger.Error("grpc server stopped", zap.Error(err))
		}
	}()

	httpServer := httpapi.NewServer(node, broadcaster, cfg.CanvasSize, logger)
	mux := http.NewServeMux()
	mux.Handle("/", httpServer.Router())
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	httpAddr := fmt.Sprintf("%s:%d", cfg.Host, cfg.HTTPPort)
	srv := &http.Server{Addr: httpAddr, Handler: mux}
	go func() {
		logger.Info("http server listening", zap.String("addr", httpAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server stopped", zap.Error(err))
		}
	}()

	node.Start()
	logger.Info("node started", zap.String("node_id", cfg.NodeID), zap.Int("canvas_size", cfg.CanvasSize))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	node.Stop()
	grpcServer.GracefulStop()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HealthCheckTimeout)
	defer cancel()
	_ = srv.Shutdown(ctx)
	return nil
}
