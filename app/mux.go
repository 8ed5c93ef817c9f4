package main

import (
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
)

var errBadQuery = errors.New("malformed query string")

// Query 查询参数，同名参数只保留第一个值
// 查询串格式错误时不立即失败，只有 handler 读取参数时才返回 errBadQuery
type Query struct {
	values map[string]string
	err    error
}

// parseQuery 解析 "?" 之后的部分
func parseQuery(raw string) Query {
	values, err := url.ParseQuery(raw)
	q := Query{values: make(map[string]string, len(values))}
	if err != nil {
		q.err = fmt.Errorf("%w: %v", errBadQuery, err)
	}
	for k, vs := range values {
		if len(vs) > 0 {
			q.values[k] = vs[0]
		}
	}
	return q
}

// Get 取必填参数，缺失时返回 *ParamError
func (q Query) Get(name string) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	v, ok := q.values[name]
	if !ok {
		return "", &ParamError{Name: name, Missing: true}
	}
	return v, nil
}

// Int 取必填的十进制整数参数，精度不受 int64 限制
func (q Query) Int(name string) (*big.Int, error) {
	v, err := q.Get(name)
	if err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(strings.TrimSpace(v), 10)
	if !ok {
		return nil, &ParamError{Name: name, Value: v}
	}
	return n, nil
}

// HandlerFunc 路由处理函数类型
// path 是去掉查询串后的路径
type HandlerFunc func(path string, query Query, req *Request) (*Response, error)

// Mux 非 net/http 版本的极简路由器
type Mux struct {
	routes   map[string]HandlerFunc
	fallback HandlerFunc
}

// NewMux 创建一个新的路由器，fallback 处理所有未注册的路径
func NewMux(fallback HandlerFunc) *Mux {
	return &Mux{
		routes:   make(map[string]HandlerFunc),
		fallback: fallback,
	}
}

// Handle 注册路由，路径区分大小写、精确匹配
func (m *Mux) Handle(path string, handler HandlerFunc) {
	m.routes[path] = handler
}

// Serve 根据路径分发到对应的 Handler，总是返回一个可发送的响应
// 第二个返回值是导致 4xx/5xx 的原因，仅用于记录日志
func (m *Mux) Serve(req *Request) (*Response, error) {
	path, rawQuery, _ := strings.Cut(req.Path, "?")
	query := parseQuery(rawQuery)

	h, ok := m.routes[path]
	if !ok {
		h = m.fallback
	}
	res, err := h(path, query, req)
	if err != nil {
		if isClientError(err) {
			return textResponse(StatusBadRequest, err.Error()), err
		}
		return statusResponse(StatusInternalServerError), err
	}
	return res, nil
}
