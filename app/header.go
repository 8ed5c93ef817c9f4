package main

import "strings"

// Header 保存按插入顺序排列的头部字段
// 与 map 不同，它能保证写出的顺序和设置的顺序一致；重复设置同名字段时后写覆盖先写
type Header struct {
	fields []headerField
}

type headerField struct {
	name  string
	value string
}

// Set 设置字段，已存在同名字段时原地覆盖
func (h *Header) Set(name, value string) {
	for i := range h.fields {
		if h.fields[i].name == name {
			h.fields[i].value = value
			return
		}
	}
	h.fields = append(h.fields, headerField{name, value})
}

// Get 按名字精确查找
func (h *Header) Get(name string) string {
	for _, f := range h.fields {
		if f.name == name {
			return f.value
		}
	}
	return ""
}

// Lookup 先按名字精确查找，找不到时取最后一个忽略大小写匹配的字段
func (h *Header) Lookup(name string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, f := range h.fields {
		if f.name == name {
			return f.value, true
		}
		if strings.EqualFold(f.name, name) {
			value, found = f.value, true
		}
	}
	return value, found
}

// Each 按顺序遍历所有字段
func (h *Header) Each(fn func(name, value string)) {
	for _, f := range h.fields {
		fn(f.name, f.value)
	}
}
