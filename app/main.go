package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

func main() {
	// 解析命令行参数，例如：
	// ./minihttpd -directory website -uploads uploads -addr 0.0.0.0:8422
	cfg := DefaultConfig()
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}

	log, err := newLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}

	// 收到中断信号后关闭监听器，等待在途连接
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := registerRoutes(newSite(cfg.Directory, cfg.UploadsDir))
	srv := NewServer(cfg, mux, log)
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Error().Err(err).Msg("服务器启动失败")
		stop()
		os.Exit(1)
	}
	log.Info().Msg("bye")
}

// newLogger 按配置创建 zerolog logger
func newLogger(cfg Config, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log-level: %w", err)
	}
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
