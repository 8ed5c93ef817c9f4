package main

import (
	"errors"
	"net"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
)

// serveConn 处理一个连接上的唯一一个请求：读取、分发、写回、关闭
// 帧错误（请求行/头部格式错误、读超时、对端中途关闭）直接关连接，不回任何响应
func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()
	log := s.log.With().Str("remote", conn.RemoteAddr().String()).Logger()

	// 整个连接共用一个截止时间，读写都受它约束
	if err := conn.SetDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
		log.Warn().Err(err).Msg("set deadline")
	}

	req, err := readRequest(conn, s.cfg.MaxHeaderBytes, s.cfg.MaxBodyBytes)
	if err != nil {
		if errors.Is(err, ErrConnClosed) {
			log.Debug().Err(err).Msg("client went away")
		} else {
			log.Warn().Err(err).Msg("Error parsing request")
		}
		return
	}
	if e := log.Debug(); e.Enabled() {
		fields := zerolog.Dict()
		req.Headers.Each(func(name, value string) {
			fields.Str(name, value)
		})
		e.Str("method", req.Method).Str("path", req.Path).Dict("headers", fields).Msg("request")
	}

	res := s.dispatch(req, log)
	log.Info().Str("method", req.Method).Str("path", req.Path).Str("status", res.Status).Msg("served")

	if _, err := conn.Write(buildResponse(res)); err != nil {
		// 写失败一般意味着客户端断开
		log.Warn().Err(err).Msg("write response")
	}
}

// dispatch 调用路由，把 handler 里的 panic 转成 500，保证单个连接的失败不会影响整个进程
func (s *Server) dispatch(req *Request, log zerolog.Logger) (res *Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("handler panicked")
			res = statusResponse(StatusInternalServerError)
		}
	}()

	res, err := s.mux.Serve(req)
	if err != nil {
		if isClientError(err) {
			log.Info().Err(err).Msg("bad request")
		} else {
			log.Error().Err(err).Msg("handler failed")
		}
	}
	return res
}
