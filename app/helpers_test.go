package main

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func ExpectEqual(t *testing.T, expect, actual string) {
	t.Helper()
	if expect != actual {
		t.Errorf("Got %q, want %q", actual, expect)
	}
}

type MockAddr struct {
	str string
}

func (m MockAddr) Network() string { return "" }
func (m MockAddr) String() string  { return m.str }

// MockConn 从 in 读请求，把响应写进 out
type MockConn struct {
	in     *bytes.Buffer
	out    *bytes.Buffer
	addr   MockAddr
	closed bool
}

func newMockConn(request string) *MockConn {
	return &MockConn{
		in:   bytes.NewBufferString(request),
		out:  new(bytes.Buffer),
		addr: MockAddr{"(client)"},
	}
}

func (m *MockConn) Read(b []byte) (int, error)  { return m.in.Read(b) }
func (m *MockConn) Write(b []byte) (int, error) { return m.out.Write(b) }

func (m *MockConn) Close() error {
	m.closed = true
	return nil
}

func (m *MockConn) LocalAddr() net.Addr                { return nil }
func (m *MockConn) RemoteAddr() net.Addr               { return m.addr }
func (m *MockConn) SetDeadline(t time.Time) error      { return nil }
func (m *MockConn) SetReadDeadline(t time.Time) error  { return nil }
func (m *MockConn) SetWriteDeadline(t time.Time) error { return nil }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.ReadTimeout = 2 * time.Second
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func testLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}

// newTestSite 在临时目录下建好 website 和 uploads
func newTestSite(t *testing.T) *site {
	dir := t.TempDir()
	return newSite(dir+"/website", dir+"/uploads")
}
