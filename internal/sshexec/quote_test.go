package sshexec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain word", "status", "status"},
		{"flag", "--porcelain", "--porcelain"},
		{"path", "/srv/repos/api", "/srv/repos/api"},
		{"empty", "", "''"},
		{"spaces", "fix the parser", "'fix the parser'"},
		{"single quote", "don't break", `'don'\''t break'`},
		{"double quotes", `say "hi"`, `'say "hi"'`},
		{"multi-line", "subject\n\nbody line", "'subject\n\nbody line'"},
		{"shell metachars", "a;rm -rf $HOME", "'a;rm -rf $HOME'"},
		{"backticks", "`id`", "'`id`'"},
		{"ref with braces", "main@{upstream}", "'main@{upstream}'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in))
		})
	}
}

func TestQuoteAll(t *testing.T) {
	got := QuoteAll([]string{"commit", "-m", "fix: handle 'odd' input"})
	assert.Equal(t, `commit -m 'fix: handle '\''odd'\'' input'`, got)
}
