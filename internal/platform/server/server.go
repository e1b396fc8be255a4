package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	timesheetv1 "github.com/ogurasousui/timesheet-engine/internal/adapters/grpc/api/timesheet/v1"
	"github.com/ogurasousui/timesheet-engine/internal/adapters/grpc/interceptor"
	"google.golang.org/grpc"
)

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	logger     *slog.Logger
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築し、TimesheetService を登録します。
func New(listenAddr string, svc timesheetv1.TimesheetServiceServer, logger *slog.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	base := []grpc.ServerOption{
		grpc.ForceServerCodec(timesheetv1.Codec{}),
		grpc.ChainUnaryInterceptor(
			interceptor.Recovery(logger),
			interceptor.Logging(logger),
			interceptor.Identity(timesheetv1.ManagerOnlyMethods),
		),
	}
	srv := grpc.NewServer(append(base, opts...)...)
	timesheetv1.RegisterTimesheetServiceServer(srv, svc)

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		logger:     logger,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は指定されたリスナーで待ち受けます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.grpcServer.GracefulStop()
	}()

	s.logger.InfoContext(ctx, "gRPC server listening", slog.String("addr", lis.Addr().String()))
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}
