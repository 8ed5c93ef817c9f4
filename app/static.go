package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

const defaultMIMEType = "application/octet-stream"

// mimeTypes 扩展名（小写、不带点） -> Content-Type
var mimeTypes = map[string]string{
	"html": "text/html",
	"js":   "text/javascript; charset=UTF-8",
	"css":  "text/css",
}

// imageTypes 中的扩展名映射为 image/<ext>
var imageTypes = []string{"png", "jpg", "jpeg"}

// mimeType 按最后一个 '.' 之后的扩展名推断类型，没有扩展名时返回默认类型
func mimeType(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return defaultMIMEType
	}
	ext := strings.ToLower(name[i+1:])
	if t, ok := mimeTypes[ext]; ok {
		return t
	}
	for _, img := range imageTypes {
		if img == ext {
			return "image/" + img
		}
	}
	return defaultMIMEType
}

// resolve 把 URL 路径映射到 root 下的文件并构造响应
// 403/404 以状态行本身作为正文；其他文件系统错误原样返回，由上层转成 500
func resolve(root, urlPath string) (*Response, error) {
	rel := strings.Trim(urlPath, "/")
	filePath := filepath.Join(root, rel)
	if !within(root, filePath) {
		return statusResponse(StatusForbidden), nil
	}

	body, err := readRegularFile(filePath)
	if err != nil {
		if res := fileErrorResponse(err); res != nil {
			return res, nil
		}
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}
	return bodyResponse(StatusOK, mimeType(rel), body), nil
}

// readRegularFile 读取整个文件；目录按不存在处理
func readRegularFile(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return io.ReadAll(f)
}

// fileErrorResponse 把可归类的文件系统错误映射为 403/404，无法归类时返回 nil
func fileErrorResponse(err error) *Response {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return statusResponse(StatusForbidden)
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return statusResponse(StatusNotFound)
	}
	return nil
}

// within 判断 path 是否仍在 root 目录之内
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
