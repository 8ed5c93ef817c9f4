package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// uploadStore 是上传目录的扁平键值存储：文件名即键
// 同名并发写入通过每个文件名一把锁串行化，最后写入者胜出
type uploadStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUploadStore(dir string) *uploadStore {
	return &uploadStore{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

// validName 拒绝空名、"." 、".."、绝对路径以及包含路径分隔符或 NUL 的名字
func validName(name string) error {
	if name == "" || name == "." || name == ".." ||
		filepath.IsAbs(name) || strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: %q", errInvalidName, name)
	}
	return nil
}

func (s *uploadStore) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = new(sync.Mutex)
		s.locks[name] = l
	}
	return l
}

// Put 把 data 原样写入 <dir>/<name>，目录不存在时先创建
func (s *uploadStore) Put(name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	l := s.lock(name)
	l.Lock()
	defer l.Unlock()
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write upload %q: %w", name, err)
	}
	return nil
}

// Get 读取 <dir>/<name> 的全部内容
func (s *uploadStore) Get(name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	l := s.lock(name)
	l.Lock()
	defer l.Unlock()
	return readRegularFile(filepath.Join(s.dir, name))
}
