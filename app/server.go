package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

const maxAcceptBackoff = time.Second

// Server 持有监听器之外的全部状态：路由、配置、并发上限和在途连接
type Server struct {
	cfg Config
	mux *Mux
	log zerolog.Logger

	sem *semaphore.Weighted
	wg  sync.WaitGroup

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

func NewServer(cfg Config, mux *Mux, log zerolog.Logger) *Server {
	return &Server{
		cfg:   cfg,
		mux:   mux,
		log:   log,
		sem:   semaphore.NewWeighted(cfg.MaxConns),
		conns: make(map[net.Conn]struct{}),
	}
}

// ListenAndServe 在 cfg.Addr 上监听，直到 ctx 被取消
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("绑定端口失败: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve 在 listener 上接受连接，每个连接一个 goroutine
// 同时服务的连接数不超过 MaxConns，名额满时暂停 Accept，多余的连接留在内核 backlog 里
// ctx 取消后关闭监听器，并在 ShutdownTimeout 内等待在途连接结束
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		listener.Close()
	})
	defer stop()
	defer func() {
		if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.log.Warn().Err(err).Msg("关闭监听器时出错")
		}
	}()

	s.log.Info().Str("addr", listener.Addr().String()).Msg("listening")
	var backoff time.Duration // Accept 连续失败时的等待时间，成功后清零
	for {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return s.drain()
		}
		conn, err := listener.Accept()
		if err != nil {
			s.sem.Release(1)
			if errors.Is(err, net.ErrClosed) {
				s.log.Info().Msg("监听器已关闭，停止接受新连接")
				return s.drain()
			}
			backoff = nextBackoff(backoff)
			s.log.Error().Err(err).Dur("retry_in", backoff).Msg("接受连接时出错")
			time.Sleep(backoff)
			continue
		}
		backoff = 0
		s.track(conn, true)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.sem.Release(1)
			defer s.track(conn, false)
			s.serveConn(conn)
		}()
	}
}

// nextBackoff 与 net/http 相同：5ms 起步，每次翻倍，上限 1s
func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	return min(d*2, maxAcceptBackoff)
}

func (s *Server) track(conn net.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

// drain 等待在途连接结束，超时后强制关闭剩余连接
func (s *Server) drain() error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(s.cfg.ShutdownTimeout)
	defer timer.Stop()
	select {
	case <-done:
		s.log.Info().Msg("all connections finished")
		return nil
	case <-timer.C:
	}

	s.mu.Lock()
	n := len(s.conns)
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()
	s.log.Warn().Int("abandoned", n).Dur("timeout", s.cfg.ShutdownTimeout).Msg("shutdown timeout, closing remaining connections")
	<-done
	return nil
}
