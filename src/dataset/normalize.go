// normalize.go
package dataset

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold: NFKD分解 -> 去掉组合符号 -> 丢弃剩余非ASCII字符
// 例: "Año" -> "ano", "COMUNICACIÓN5" -> "comunicacion5"
var asciiFold = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

// CleanName 规范化单个列名: 小写 + ASCII折叠
// 对任意合法字符串都不会失败
func CleanName(name string) string {
	lowered := strings.ToLower(name)
	folded, _, err := transform.String(asciiFold, lowered)
	if err != nil {
		// transform只会在非法UTF-8上报错, 此时逐字节丢弃非ASCII
		var b strings.Builder
		for _, r := range lowered {
			if r <= unicode.MaxASCII {
				b.WriteRune(r)
			}
		}
		return b.String()
	}
	return folded
}

// CleanNames 规范化一组列名, 保持长度和顺序
// 折叠后重名的列按出现顺序追加 _2, _3 ... 后缀
func CleanNames(names []string) []string {
	cleaned := make([]string, len(names))
	seen := make(map[string]int, len(names))

	for i, name := range names {
		c := CleanName(name)
		seen[c]++
		if n := seen[c]; n > 1 {
			c = fmt.Sprintf("%s_%d", c, n)
			seen[c]++
		}
		cleaned[i] = c
	}
	return cleaned
}
