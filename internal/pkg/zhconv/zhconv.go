// Package zhconv 简繁转换，字典加载失败时退化为不转换
package zhconv

import (
	log "log/slog"
	"sync"

	"github.com/liuzl/gocc"
)

type converter interface {
	Convert(in string) (string, error)
}

var (
	once       sync.Once
	converters []converter
)

func load() {
	once.Do(func() {
		for _, conversion := range []string{"t2s", "s2t"} {
			cc, err := gocc.New(conversion)
			if err != nil {
				log.Warn("opencc dictionary unavailable", "conversion", conversion, "err", err)
				continue
			}
			converters = append(converters, cc)
		}
	})
}

// Variants 返回 text 的简体、繁体写法，与原文相同或转换失败的省略
func Variants(text string) []string {
	load()
	out := make([]string, 0, len(converters))
	for _, cc := range converters {
		v, err := cc.Convert(text)
		if err != nil || v == text {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == v {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}
