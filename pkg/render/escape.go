package render

import (
	"fmt"
	"strings"
)

// escapeHTML escapes text for safe inclusion in element content.
func escapeHTML(s string) string {
	return escape(s, false)
}

// escapeAttr escapes text for a double-quoted attribute value. Line breaks
// and tabs are encoded as well so values survive reformatting.
func escapeAttr(s string) string {
	return escape(s, true)
}

func escape(s string, attr bool) string {
	if !strings.ContainsAny(s, "&<>\"'\n\r\t") {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n', '\r', '\t':
			if attr {
				fmt.Fprintf(&buf, "&#%d;", r)
				continue
			}
			buf.WriteRune(r)
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
