package options

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

func Wrap80(text string) string {
	return Wrap(text, 80)
}

func Wrap(text string, width int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}
	return wordwrap.String(strings.Join(strings.Fields(trimmed), " "), width)
}
