package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func serve(t *testing.T, m *Mux, path string, body []byte) *Response {
	t.Helper()
	res, _ := m.Serve(&Request{Method: "GET", Path: path, Version: "HTTP/1.1", Body: body})
	if res == nil {
		t.Fatalf("%s: nil response", path)
	}
	return res
}

func TestCalculateNext(t *testing.T) {
	m := registerRoutes(newTestSite(t))
	cases := map[string]string{
		"0":                    "1",
		"41":                   "42",
		"-1":                   "0",
		"-5":                   "-4",
		"+7":                   "8",
		"9223372036854775807":  "9223372036854775808",
		"-9223372036854775809": "-9223372036854775808",
	}
	for in, want := range cases {
		res := serve(t, m, "/calculate-next?num="+strings.ReplaceAll(in, "+", "%2B"), nil)
		ExpectEqual(t, StatusOK, res.Status)
		ExpectEqual(t, want, string(res.Body))
		ExpectEqual(t, "text/plain", res.Headers.Get("Content-Type"))
		ExpectEqual(t, fmt.Sprint(len(want)), res.Headers.Get("Content-Length"))
	}
}

func TestCalculateNextFirstValueWins(t *testing.T) {
	m := registerRoutes(newTestSite(t))
	res := serve(t, m, "/calculate-next?num=1&num=100", nil)
	ExpectEqual(t, "2", string(res.Body))
}

func TestCalculateNextBadInput(t *testing.T) {
	m := registerRoutes(newTestSite(t))
	for _, p := range []string{
		"/calculate-next",
		"/calculate-next?",
		"/calculate-next?number=1",
		"/calculate-next?num=",
		"/calculate-next?num=abc",
		"/calculate-next?num=1.5",
		"/calculate-next?num=%zz",
	} {
		res := serve(t, m, p, nil)
		ExpectEqual(t, StatusBadRequest, res.Status)
	}
}

func TestCalculateArea(t *testing.T) {
	m := registerRoutes(newTestSite(t))
	for h := 0; h <= 7; h++ {
		for w := 0; w <= 7; w++ {
			res := serve(t, m, fmt.Sprintf("/calculate-area?height=%d&width=%d", h, w), nil)
			ExpectEqual(t, StatusOK, res.Status)
			ExpectEqual(t, fmt.Sprint(h*w/2), string(res.Body))
		}
	}
	// 负数向下取整
	res := serve(t, m, "/calculate-area?height=-3&width=1", nil)
	ExpectEqual(t, "-2", string(res.Body))
}

func TestCalculateAreaBadInput(t *testing.T) {
	m := registerRoutes(newTestSite(t))
	for _, p := range []string{
		"/calculate-area?height=2",
		"/calculate-area?width=2",
		"/calculate-area?height=x&width=2",
		"/calculate-area?height=2&width=y",
	} {
		res := serve(t, m, p, nil)
		ExpectEqual(t, StatusBadRequest, res.Status)
	}
}

func TestUploadImageRoundTrip(t *testing.T) {
	s := newTestSite(t)
	m := registerRoutes(s)
	payload := []byte("\x89PNG\r\n\x1a\n\x00binary\xff")

	res := serve(t, m, "/upload?file-name=cat.png", payload)
	ExpectEqual(t, StatusOK, res.Status)
	ExpectEqual(t, "0", res.Headers.Get("Content-Length"))
	if res.Body != nil {
		t.Errorf("upload response should have no body, got %q", res.Body)
	}

	res = serve(t, m, "/image?image-name=cat.png", nil)
	ExpectEqual(t, StatusOK, res.Status)
	ExpectEqual(t, "image/png", res.Headers.Get("Content-Type"))
	if !bytes.Equal(payload, res.Body) {
		t.Errorf("got %q, want %q", res.Body, payload)
	}

	// 覆盖写
	serve(t, m, "/upload?file-name=cat.png", []byte("v2"))
	res = serve(t, m, "/image?image-name=cat.png", nil)
	ExpectEqual(t, "v2", string(res.Body))
}

func TestUploadEmptyBody(t *testing.T) {
	s := newTestSite(t)
	m := registerRoutes(s)
	res := serve(t, m, "/upload?file-name=empty", nil)
	ExpectEqual(t, StatusOK, res.Status)
	data, err := os.ReadFile(filepath.Join(s.uploads.dir, "empty"))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("want empty file, got %q", data)
	}
}

func TestUploadRejectsBadNames(t *testing.T) {
	m := registerRoutes(newTestSite(t))
	for _, name := range []string{"", ".", "..", "..%2Fx", "a%2Fb", "%2Fetc%2Fpasswd", "a%5Cb", "a%00b"} {
		res := serve(t, m, "/upload?file-name="+name, []byte("x"))
		ExpectEqual(t, StatusBadRequest, res.Status)
		res = serve(t, m, "/image?image-name="+name, nil)
		ExpectEqual(t, StatusBadRequest, res.Status)
	}
	res := serve(t, m, "/upload", []byte("x"))
	ExpectEqual(t, StatusBadRequest, res.Status)
	res = serve(t, m, "/image", nil)
	ExpectEqual(t, StatusBadRequest, res.Status)
}

func TestUploadWriteFailure(t *testing.T) {
	dir := t.TempDir()
	// uploads 路径被普通文件占用，MkdirAll 失败
	blocker := filepath.Join(dir, "uploads")
	writeFile(t, blocker, "")
	m := registerRoutes(newSite(filepath.Join(dir, "website"), blocker))

	res, err := m.Serve(&Request{Path: "/upload?file-name=a", Body: []byte("x")})
	if err == nil {
		t.Error("want error cause for 500")
	}
	ExpectEqual(t, StatusInternalServerError, res.Status)
}

func TestImageNotFound(t *testing.T) {
	m := registerRoutes(newTestSite(t))
	res := serve(t, m, "/image?image-name=nothing.png", nil)
	ExpectEqual(t, StatusNotFound, res.Status)
	ExpectEqual(t, "404 Not Found", string(res.Body))
}

func TestIndexAndStatic(t *testing.T) {
	s := newTestSite(t)
	writeFile(t, filepath.Join(s.root, "index.html"), "<p>index</p>")
	writeFile(t, filepath.Join(s.root, "js", "app.js"), "alert(1)")
	m := registerRoutes(s)

	res := serve(t, m, "/", nil)
	ExpectEqual(t, StatusOK, res.Status)
	ExpectEqual(t, "text/html", res.Headers.Get("Content-Type"))
	ExpectEqual(t, "<p>index</p>", string(res.Body))

	res = serve(t, m, "/js/app.js?v=3", nil)
	ExpectEqual(t, StatusOK, res.Status)
	ExpectEqual(t, "text/javascript; charset=UTF-8", res.Headers.Get("Content-Type"))
	ExpectEqual(t, "minihttpd", res.Headers.Get("Server"))

	res = serve(t, m, "/nope.html", nil)
	ExpectEqual(t, StatusNotFound, res.Status)
	ExpectEqual(t, "404 Not Found", string(res.Body))
}

func TestRoutesAreCaseSensitive(t *testing.T) {
	m := registerRoutes(newTestSite(t))
	// 不命中 /calculate-next，落到静态文件
	res := serve(t, m, "/Calculate-Next?num=1", nil)
	ExpectEqual(t, StatusNotFound, res.Status)
}

func TestStaticIgnoresMalformedQuery(t *testing.T) {
	s := newTestSite(t)
	writeFile(t, filepath.Join(s.root, "index.html"), "<p>index</p>")
	m := registerRoutes(s)
	for _, p := range []string{"/index.html?q=%zz", "/index.html?a=1;b=2", "/?utm=%"} {
		res := serve(t, m, p, nil)
		ExpectEqual(t, StatusOK, res.Status)
		ExpectEqual(t, "<p>index</p>", string(res.Body))
	}
	// 需要参数的路由仍然拒绝
	res := serve(t, m, "/calculate-next?num=1;x=2", nil)
	ExpectEqual(t, StatusBadRequest, res.Status)
	res = serve(t, m, "/image?image-name=a%zz", nil)
	ExpectEqual(t, StatusBadRequest, res.Status)
}
