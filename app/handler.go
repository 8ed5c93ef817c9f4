package main

import (
	"fmt"
	"math/big"
)

// site 持有处理函数需要的目录：静态内容根目录和上传目录
type site struct {
	root    string
	uploads *uploadStore
}

func newSite(root, uploadsDir string) *site {
	return &site{
		root:    root,
		uploads: newUploadStore(uploadsDir),
	}
}

// registerRoutes 注册所有路由，返回的 Mux 在启动后只读
func registerRoutes(s *site) *Mux {
	m := NewMux(s.staticHandler)
	// 根路径 "/"
	m.Handle("/", s.indexHandler)
	m.Handle("/calculate-next", calculateNextHandler)
	m.Handle("/calculate-area", calculateAreaHandler)
	m.Handle("/upload", s.uploadHandler)
	m.Handle("/image", s.imageHandler)
	return m
}

// 根路径改写为 /index.html
func (s *site) indexHandler(_ string, _ Query, _ *Request) (*Response, error) {
	return resolve(s.root, "/index.html")
}

// 其余路径按静态文件处理，忽略查询串
func (s *site) staticHandler(path string, _ Query, _ *Request) (*Response, error) {
	return resolve(s.root, path)
}

// /calculate-next?num=a -> a+1
func calculateNextHandler(_ string, q Query, _ *Request) (*Response, error) {
	num, err := q.Int("num")
	if err != nil {
		return nil, err
	}
	num.Add(num, big.NewInt(1))
	return textResponse(StatusOK, num.String()), nil
}

// /calculate-area?height=h&width=w -> floor(h*w/2)
func calculateAreaHandler(_ string, q Query, _ *Request) (*Response, error) {
	height, err := q.Int("height")
	if err != nil {
		return nil, err
	}
	width, err := q.Int("width")
	if err != nil {
		return nil, err
	}
	area := new(big.Int).Mul(height, width)
	// 除数为正时 Div 的欧几里得除法等价于向下取整
	area.Div(area, big.NewInt(2))
	return textResponse(StatusOK, area.String()), nil
}

// /upload?file-name=f 把请求体原样写入上传目录
func (s *site) uploadHandler(_ string, q Query, req *Request) (*Response, error) {
	name, err := q.Get("file-name")
	if err != nil {
		return nil, err
	}
	if err := s.uploads.Put(name, req.Body); err != nil {
		return nil, err
	}
	return emptyResponse(StatusOK), nil
}

// /image?image-name=f 返回上传目录中的文件
func (s *site) imageHandler(_ string, q Query, _ *Request) (*Response, error) {
	name, err := q.Get("image-name")
	if err != nil {
		return nil, err
	}
	body, err := s.uploads.Get(name)
	if err != nil {
		if res := fileErrorResponse(err); res != nil {
			return res, nil
		}
		return nil, fmt.Errorf("read upload %q: %w", name, err)
	}
	return bodyResponse(StatusOK, mimeType(name), body), nil
}
