package render

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

var wellFormedTag = regexp.MustCompile(`^</?([A-Za-z][A-Za-z0-9]*)(\s[^<>]*)?/?>`)

// htmlElements lists the element names treated as markup. Any other "<" is
// plain text, so "x<y" or "<Go>" survive untouched.
var htmlElements = map[string]bool{
	"a": true, "abbr": true, "address": true, "area": true, "article": true,
	"aside": true, "audio": true, "b": true, "base": true, "bdi": true,
	"bdo": true, "blockquote": true, "body": true, "br": true, "button": true,
	"canvas": true, "caption": true, "cite": true, "code": true, "col": true,
	"colgroup": true, "data": true, "datalist": true, "dd": true, "del": true,
	"details": true, "dfn": true, "dialog": true, "div": true, "dl": true,
	"dt": true, "em": true, "embed": true, "fieldset": true, "figcaption": true,
	"figure": true, "font": true, "footer": true, "form": true, "frame": true,
	"frameset": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "head": true, "header": true, "hr": true,
	"html": true, "i": true, "iframe": true, "img": true, "input": true,
	"ins": true, "kbd": true, "label": true, "legend": true, "li": true,
	"link": true, "main": true, "map": true, "mark": true, "math": true,
	"menu": true, "meta": true, "meter": true, "nav": true, "noscript": true,
	"object": true, "ol": true, "optgroup": true, "option": true,
	"output": true, "p": true, "param": true, "picture": true, "pre": true,
	"progress": true, "q": true, "s": true, "samp": true, "script": true,
	"section": true, "select": true, "small": true, "source": true,
	"span": true, "strong": true, "style": true, "sub": true, "summary": true,
	"sup": true, "svg": true, "table": true, "tbody": true, "td": true,
	"template": true, "textarea": true, "tfoot": true, "th": true,
	"thead": true, "time": true, "title": true, "tr": true, "track": true,
	"u": true, "ul": true, "var": true, "video": true, "wbr": true,
}

// StrictSanitizer returns a text filter that strips HTML elements and
// comments, leaving readable plain text. Text that merely contains "<", ">"
// or "&" comes back unchanged. It suits wizard.WithSanitizer.
func StrictSanitizer() func(string) string {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return func(raw string) string {
		if !strings.Contains(raw, "<") {
			return raw
		}
		escaped, markup := escapeText(raw)
		if !markup {
			return raw
		}
		return html.UnescapeString(strictPolicy.Sanitize(escaped))
	}
}

// escapeText entity-encodes every "&" and every "<" that does not open a
// well-formed tag of a known element or a closed comment, and reports whether
// any markup was found.
func escapeText(raw string) (string, bool) {
	var b strings.Builder
	b.Grow(len(raw) + 16)
	markup := false
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '&':
			b.WriteString("&amp;")
		case '<':
			if isMarkup(raw[i:]) {
				markup = true
				b.WriteByte('<')
			} else {
				b.WriteString("&lt;")
			}
		default:
			b.WriteByte(raw[i])
		}
	}
	return b.String(), markup
}

func isMarkup(s string) bool {
	if strings.HasPrefix(s, "<!--") {
		return strings.Contains(s[4:], "-->")
	}
	m := wellFormedTag.FindStringSubmatch(s)
	return m != nil && htmlElements[strings.ToLower(m[1])]
}
