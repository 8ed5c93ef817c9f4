package main

import (
	"bytes"
	"strconv"
)

// serverName 写入每个响应的 Server 头
const serverName = "minihttpd"

// 常用状态行
const (
	StatusOK                  = "200 OK"
	StatusBadRequest          = "400 Bad Request"
	StatusForbidden           = "403 Forbidden"
	StatusNotFound            = "404 Not Found"
	StatusInternalServerError = "500 Internal Server Error"
)

// Response 表示一个待发送的响应
// 有 Body 时调用方必须自己设置 Content-Length，buildResponse 不会补
type Response struct {
	Status  string
	Headers Header
	Body    []byte
}

// bodyResponse 构造带正文的响应，顺带设置 Content-Length、Content-Type 和 Server
func bodyResponse(status, contentType string, body []byte) *Response {
	res := &Response{Status: status, Body: body}
	res.Headers.Set("Content-Length", strconv.Itoa(len(body)))
	res.Headers.Set("Content-Type", contentType)
	res.Headers.Set("Server", serverName)
	return res
}

// textResponse 返回 text/plain 响应
func textResponse(status, body string) *Response {
	return bodyResponse(status, "text/plain", []byte(body))
}

// statusResponse 的正文就是状态行本身，例如 "404 Not Found"
func statusResponse(status string) *Response {
	return textResponse(status, status)
}

// emptyResponse 没有正文，只声明 Content-Length: 0
func emptyResponse(status string) *Response {
	res := &Response{Status: status}
	res.Headers.Set("Content-Length", "0")
	res.Headers.Set("Server", serverName)
	return res
}

// buildResponse 把 Response 序列化成线上字节
func buildResponse(res *Response) []byte {
	var buf bytes.Buffer
	buf.WriteString("HTTP/1.1 ")
	buf.WriteString(res.Status)
	buf.WriteString(CRLF)
	res.Headers.Each(func(name, value string) {
		buf.WriteString(name)
		buf.WriteString(": ")
		buf.WriteString(value)
		buf.WriteString(CRLF)
	})
	buf.WriteString(CRLF)
	buf.Write(res.Body)
	return buf.Bytes()
}
