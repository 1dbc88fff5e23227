package grpc

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/grayson061030/stockapi/pkg/logger"
)

// Server gRPC 서버 구조체입니다.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *zap.Logger
	addr       string
	listener   net.Listener
}

// ServerOption Server 생성을 위한 옵션 함수 타입입니다.
type ServerOption func(*Server)

// WithAddr 서버 주소(host:port)를 설정하는 옵션입니다.
func WithAddr(addr string) ServerOption {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLogger 로거를 설정하는 옵션입니다.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithListener 미리 연 리스너를 사용하는 옵션입니다. 설정하면 주소는 무시됩니다.
func WithListener(lis net.Listener) ServerOption {
	return func(s *Server) {
		s.listener = lis
	}
}

// NewServer 헬스 체크 서비스가 등록된 gRPC 서버를 생성합니다.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		logger: zap.NewNop(),
		addr:   ":9090",
	}

	for _, opt := range opts {
		opt(s)
	}

	s.grpcServer = grpc.NewServer(
		grpc.UnaryInterceptor(logger.NewGrpcUnaryServerInterceptor(s.logger)),
		grpc.StreamInterceptor(logger.NewGrpcStreamServerInterceptor(s.logger)),
	)

	s.health = health.NewServer()
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	reflection.Register(s.grpcServer)

	return s
}

// RegisterService gRPC 서비스를 등록하는 함수를 받아 실행합니다.
func (s *Server) RegisterService(registerFunc func(server *grpc.Server)) {
	registerFunc(s.grpcServer)
}

// SetServingStatus 서비스별 헬스 상태를 설정합니다.
func (s *Server) SetServingStatus(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// Start 서버를 시작합니다.
func (s *Server) Start() error {
	if s.listener == nil {
		lis, err := net.Listen("tcp", s.addr)
		if err != nil {
			return fmt.Errorf("gRPC 서버 리스닝 실패: %w", err)
		}
		s.listener = lis
	}

	s.logger.Info("gRPC 서버 시작", zap.String("addr", s.listener.Addr().String()))
	return s.grpcServer.Serve(s.listener)
}

// Shutdown 서버를 안전하게 종료합니다. ctx가 끝나면 강제로 종료합니다.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("gRPC 서버 종료 중...")
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		s.logger.Warn("gRPC 서버 강제 종료")
		s.grpcServer.Stop()
		return ctx.Err()
	case <-stopped:
		s.logger.Info("gRPC 서버 종료 완료")
		return nil
	}
}
