package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpc_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/bootstrap"
	"github.com/JoeShih716/go-bank-ledger/internal/config"
	"github.com/JoeShih716/go-bank-ledger/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	// 1. 載入設定
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logg := logger.New(cfg.Log)

	// 2. 組裝帳本 (repository、AccountStore、journal、UseCase)
	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg, logg)
	if err != nil {
		log.Fatalf("Failed to init ledger: %v", err)
	}
	logg.Info("ledger ready", "backend", cfg.Store.Backend, "accounts", app.Store.Len())

	// 3. 初始化 gRPC Adapter (Driving Adapter)
	grpcServer := grpc_adapter.NewGrpcServer(app.Core)

	// 4. 啟動 gRPC Server
	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	s := grpc.NewServer(grpc.UnaryInterceptor(grpc_adapter.UnaryLoggingInterceptor(logg)))
	grpc_adapter.Register(s, grpcServer)
	reflection.Register(s) // 方便 grpcurl 測試

	// Graceful Shutdown
	go func() {
		logg.Info("starting gRPC server", "addr", cfg.GRPC.Addr)
		if err := s.Serve(lis); err != nil {
			log.Fatalf("failed to serve: %v", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutting down server")

	s.GracefulStop()

	// 5. 保存帳戶後關閉
	if err := app.Close(ctx); err != nil {
		logg.Error("failed to save accounts", "error", err)
		os.Exit(1)
	}
	logg.Info("server exited")
}
