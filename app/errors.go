package main

import (
	"errors"
	"fmt"
)

// 连接层面的帧错误：出现后直接关闭连接，不发送任何响应
var (
	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrMalformedHeader      = errors.New("malformed header line")
	ErrHeaderTooLarge       = errors.New("request header too large")
	ErrBadContentLength     = errors.New("invalid Content-Length")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrConnClosed           = errors.New("connection closed mid-read")
)

// errInvalidName 表示上传/读取时客户端给出的文件名不合法
var errInvalidName = errors.New("invalid file name")

// ParamError 表示查询参数缺失或格式不对，对应 400
type ParamError struct {
	Name    string
	Missing bool
	Value   string
}

func (e *ParamError) Error() string {
	if e.Missing {
		return fmt.Sprintf("missing query parameter %q", e.Name)
	}
	return fmt.Sprintf("query parameter %q is not an integer: %q", e.Name, e.Value)
}

// isClientError 判断 handler 返回的错误是否应当映射为 400
func isClientError(err error) bool {
	var pe *ParamError
	return errors.As(err, &pe) || errors.Is(err, errInvalidName) || errors.Is(err, errBadQuery)
}
