package util

import (
	"strconv"
	"strings"
)

// Ptr 返回值的指针，用于模型中的可空字段
func Ptr[T any](v T) *T {
	return &v
}

// ParseUint64 解析路径参数中的 ID，0 视为非法
func ParseUint64(s string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// UniqueStrings 去掉空白项与重复项，保持原顺序
func UniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
