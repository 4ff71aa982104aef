package progress

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps TerminalCapabilities
		want ProgressSymbols
	}{
		"unicode terminal": {
			caps: TerminalCapabilities{IsTTY: true, SupportsUnicode: true},
			want: ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14},
		},
		"ascii": {
			caps: TerminalCapabilities{IsTTY: true},
			want: ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SelectSymbols(tt.caps))
		})
	}
}

func TestSpinner_NonTTY(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		finish func(*Spinner)
		want   string
	}{
		"success with detail": {
			finish: func(s *Spinner) { s.Success("42 commits") },
			want:   "[OK] Loading history (42 commits)\n",
		},
		"failure without detail": {
			finish: func(s *Spinner) { s.Fail("") },
			want:   "[FAIL] Loading history\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			s := NewSpinner(&buf, TerminalCapabilities{})
			s.Start("Loading history")
			tt.finish(s)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestFor_NonTerminalWriters(t *testing.T) {
	t.Parallel()

	file, err := os.Create(filepath.Join(t.TempDir(), "out.log"))
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })

	env := func(string) string { return "" }
	assert.Equal(t, TerminalCapabilities{}, detect(&bytes.Buffer{}, env))
	assert.Equal(t, TerminalCapabilities{}, detect(file, env))
	assert.False(t, For(&bytes.Buffer{}).IsTTY)
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		value string
		want  bool
	}{
		"one":    {value: "1", want: true},
		"true":   {value: "TRUE", want: true},
		"yes":    {value: " yes ", want: true},
		"empty":  {value: "", want: false},
		"zero":   {value: "0", want: false},
		"random": {value: "sometimes", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, truthy(tt.value))
		})
	}
}
