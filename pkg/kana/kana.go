// Package kana 提供全角片假名到半角片假名的规范化。
// 部门名与用户检索用名称在写入前统一为半角，检索时对查询词做同样处理。
package kana

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

const (
	combiningDakuten    = '゙'
	combiningHandakuten = '゚'
	halfwidthDakuten    = 'ﾞ'
	halfwidthHandakuten = 'ﾟ'
)

// ToHalfWidth 将全角片假名及日文标点（。「」、・ー）转换为半角形式。
// 平假名、ASCII、数字与汉字保持不变；浊音/半浊音拆分为基字 + 半角浊点。
func ToHalfWidth(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !isConvertible(r) {
			b.WriteRune(r)
			continue
		}
		for _, d := range norm.NFD.String(string(r)) {
			switch d {
			case combiningDakuten:
				b.WriteRune(halfwidthDakuten)
			case combiningHandakuten:
				b.WriteRune(halfwidthHandakuten)
			default:
				if n := width.LookupRune(d).Narrow(); n != 0 {
					b.WriteRune(n)
				} else {
					b.WriteRune(d)
				}
			}
		}
	}
	return b.String()
}

// isConvertible 片假名区块（含长音符）与 CJK 标点中存在半角形式的字符
func isConvertible(r rune) bool {
	switch {
	case r >= 'ァ' && r <= 'ー':
		return true
	case r == '。' || r == '「' || r == '」' || r == '、':
		return true
	}
	return false
}
