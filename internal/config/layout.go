package config

import (
	"fmt"
	"strings"
)

// strftime directives found in existing project files, mapped to Go
// reference-time tokens.
var strftimeTokens = map[byte]string{
	'd': "02",
	'm': "01",
	'y': "06",
	'Y': "2006",
	'H': "15",
	'M': "04",
	'S': "05",
	'%': "%",
}

// TranslateTimeLayout converts a strftime-style format (as used by older
// project configs, e.g. "%d.%m.%Y %H:%M") into a Go time layout.
// Formats without '%' are assumed to already be Go layouts and pass
// through unchanged.
func TranslateTimeLayout(format string) (string, error) {
	if !strings.ContainsRune(format, '%') {
		return format, nil
	}
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' {
			b.WriteByte(ch)
			continue
		}
		if i+1 >= len(format) {
			return "", fmt.Errorf("trailing %% in format %q", format)
		}
		i++
		token, ok := strftimeTokens[format[i]]
		if !ok {
			return "", fmt.Errorf("unsupported directive %%%c in format %q", format[i], format)
		}
		b.WriteString(token)
	}
	return b.String(), nil
}
