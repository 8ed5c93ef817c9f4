package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CRLF \r\n 是两个字符组成的序列：
// \r：carriage return，中文通常叫 回车
// \n：line feed，中文通常叫 换行
const CRLF = "\r\n"

// Request 表示一个简单的 HTTP 请求（不依赖 net/http）
type Request struct {
	Method  string
	Path    string // 原始请求路径，可能带有 ?query
	Version string
	Headers Header
	Body    []byte // 只有带 Content-Length 时才非 nil
}

// readLine 每次从 r 读取一个字节，直到刚好读到 \r\n，返回去掉 CRLF 的行
// limit 是本行最多允许的字节数（含 CRLF），超出返回 ErrHeaderTooLarge
// 不经过 bufio：读取不能越过当前请求的边界
func readLine(r io.Reader, limit int) (string, error) {
	var (
		line []byte
		b    [1]byte
	)
	for {
		n, err := r.Read(b[:])
		if n == 1 {
			line = append(line, b[0])
			if len(line) > limit {
				return "", ErrHeaderTooLarge
			}
			if len(line) >= 2 && line[len(line)-2] == '\r' && line[len(line)-1] == '\n' {
				return string(line[:len(line)-2]), nil
			}
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrConnClosed
			}
			return "", fmt.Errorf("read line: %w", err)
		}
		// 0 字节且无错误：不能原地空转
		return "", io.ErrNoProgress
	}
}

// readRequest 从 r 读取一个完整请求：请求行 + 头部 + Content-Length 指定的请求体
func readRequest(r io.Reader, maxHeader int, maxBody int64) (*Request, error) {
	budget := maxHeader
	var lines []string
	for {
		line, err := readLine(r, budget)
		if err != nil {
			return nil, err
		}
		budget -= len(line) + len(CRLF)
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, ErrMalformedRequestLine
	}

	parts := strings.Fields(lines[0])
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequestLine, lines[0])
	}
	req := &Request{
		Method:  parts[0],
		Path:    parts[1],
		Version: parts[2],
	}

	// 读取请求头，按第一个 ": " 切分
	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, line)
		}
		req.Headers.Set(name, value)
	}

	// 读取请求体（如果有 Content-Length）
	if clStr, ok := req.Headers.Lookup("Content-Length"); ok {
		length, err := strconv.ParseInt(strings.TrimSpace(clStr), 10, 64)
		if err != nil || length < 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadContentLength, clStr)
		}
		if length > maxBody {
			return nil, fmt.Errorf("%w: %d bytes", ErrBodyTooLarge, length)
		}
		req.Body = make([]byte, length)
		if _, err := io.ReadFull(r, req.Body); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, ErrConnClosed
			}
			return nil, fmt.Errorf("error reading request body: %w", err)
		}
	}
	return req, nil
}
