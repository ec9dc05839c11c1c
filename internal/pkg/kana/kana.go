// Package kana 提供平假名/片假名无关的文本匹配，搜索与标签过滤都依赖它。
package kana

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

const (
	hiraganaFirst = 'ぁ' // U+3041
	hiraganaLast  = 'ゖ' // U+3096
	katakanaFirst = 'ァ' // U+30A1
	katakanaLast  = 'ヶ' // U+30F6

	// scriptOffset 两个假名区块之间固定的码点偏移
	scriptOffset = 0x60
)

// ToKatakana 将平假名逐字转换为片假名，其它字符原样保留
func ToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= hiraganaFirst && r <= hiraganaLast {
			return r + scriptOffset
		}
		return r
	}, s)
}

// ToHiragana 将片假名逐字转换为平假名，其它字符原样保留
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= katakanaFirst && r <= katakanaLast {
			return r - scriptOffset
		}
		return r
	}, s)
}

// ExpandQueryVariants 返回查询词本身及其片假名、平假名两种写法（去重，原词在前）。
// 空白查询返回 nil，表示“没有查询”。
func ExpandQueryVariants(query string) []string {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}

	variants := make([]string, 0, 3)
	seen := make(map[string]struct{}, 3)
	for _, v := range []string{q, ToKatakana(q), ToHiragana(q)} {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}
	return variants
}

// Matches 判断 text 是否包含 query，忽略大小写、全半角以及平/片假名差异。
// 空查询永远匹配。
func Matches(text, query string) bool {
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	t := fold(text)

	if strings.Contains(t, q) {
		return true
	}
	if strings.Contains(ToKatakana(t), ToKatakana(q)) {
		return true
	}
	return strings.Contains(ToHiragana(t), ToHiragana(q))
}

// fold 大小写折叠 + 全半角折叠（半角片假名会被折叠成全角）
func fold(s string) string {
	return width.Fold.String(cases.Fold().String(s))
}
