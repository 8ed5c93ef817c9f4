package main

import (
	"errors"
	"flag"
	"time"
)

// Config 服务器的全部可调参数
type Config struct {
	Addr            string
	Directory       string // 静态内容根目录
	UploadsDir      string
	ReadTimeout     time.Duration
	MaxHeaderBytes  int
	MaxBodyBytes    int64
	MaxConns        int64
	ShutdownTimeout time.Duration
	LogLevel        string
	Pretty          bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Addr:            "0.0.0.0:8422",
		Directory:       "website",
		UploadsDir:      "uploads",
		ReadTimeout:     10 * time.Second,
		MaxHeaderBytes:  8 << 10,
		MaxBodyBytes:    32 << 20,
		MaxConns:        256,
		ShutdownTimeout: 5 * time.Second,
		LogLevel:        "info",
	}
}

// BindFlags 把配置项绑定到 fs 上，默认值取自 c 当前的值
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.StringVar(&c.Directory, "directory", c.Directory, "directory to serve static files from")
	fs.StringVar(&c.UploadsDir, "uploads", c.UploadsDir, "directory uploads are written to")
	fs.DurationVar(&c.ReadTimeout, "read-timeout", c.ReadTimeout, "deadline for reading a request and writing its response")
	fs.IntVar(&c.MaxHeaderBytes, "max-header-bytes", c.MaxHeaderBytes, "maximum size of the request line plus headers")
	fs.Int64Var(&c.MaxBodyBytes, "max-body-bytes", c.MaxBodyBytes, "maximum accepted Content-Length")
	fs.Int64Var(&c.MaxConns, "max-conns", c.MaxConns, "maximum number of connections served at once")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "how long to wait for in-flight connections on shutdown")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&c.Pretty, "pretty", c.Pretty, "human readable console logs")
}

func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return errors.New("addr must not be empty")
	case c.Directory == "":
		return errors.New("directory must not be empty")
	case c.UploadsDir == "":
		return errors.New("uploads must not be empty")
	case c.ReadTimeout <= 0:
		return errors.New("read-timeout must be positive")
	case c.MaxHeaderBytes <= 0:
		return errors.New("max-header-bytes must be positive")
	case c.MaxBodyBytes < 0:
		return errors.New("max-body-bytes must not be negative")
	case c.MaxConns <= 0:
		return errors.New("max-conns must be positive")
	case c.ShutdownTimeout < 0:
		return errors.New("shutdown-timeout must not be negative")
	}
	return nil
}
