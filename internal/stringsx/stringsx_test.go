package stringsx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClip_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "hello", 10, "hello"},
		{"equal", "hello", 5, "hello"},
		{"clip", "hello", 3, "hel"},
		{"zero", "hello", 0, ""},
		{"neg", "hello", -1, ""},
		{"empty", "", 3, ""},
		{"rune boundary", "aé", 2, "a"},
		{"wide first rune", "日本", 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Clip(tt.in, tt.max))
		})
	}
}

func TestPreview(t *testing.T) {
	require.Equal(t, "hello", Preview("  hello  ", 10))
	require.Equal(t, `a\nb`, Preview("a\nb", 10))
	require.Equal(t, "hel...", Preview("hello world", 3))
}

func TestIsEmpty(t *testing.T) {
	require.True(t, IsEmpty("   \n\t  "))
	require.False(t, IsEmpty(" x "))
}
