package bytespan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

func TestResolveWithOffsets(t *testing.T) {
	text := "go to example.com for more"
	r, ok := Resolve(text, "example.com", intp(6), intp(17))
	require.True(t, ok)
	assert.Equal(t, 6, r.Start)
	assert.Equal(t, 11, r.Length)
	assert.Equal(t, "example.com", text[6:17])
}

func TestResolveTitleOnly(t *testing.T) {
	text := "check out @linus, he rants a lot"
	r, ok := Resolve(text, "@linus", nil, nil)
	require.True(t, ok)
	assert.Equal(t, 10, r.Start)
	assert.Equal(t, 6, r.Length)
}

func TestResolveMultibyteText(t *testing.T) {
	// "héllo " is 7 bytes but 6 code points; the link bytes start at 7.
	text := "héllo example.com"
	r, ok := Resolve(text, "", intp(7), intp(18))
	require.True(t, ok)
	assert.Equal(t, 6, r.Start)
	assert.Equal(t, 11, r.Length)
}

func TestResolveNotFound(t *testing.T) {
	_, ok := Resolve("some text", "missing", nil, nil)
	assert.False(t, ok)
}

func TestResolveOutOfRangeOffsets(t *testing.T) {
	_, ok := Resolve("abc", "abc", intp(1), intp(9))
	assert.False(t, ok)

	_, ok = Resolve("abc", "abc", intp(-1), intp(2))
	assert.False(t, ok)
}

func TestResolveFirstOccurrenceFallback(t *testing.T) {
	// Duplicate substrings resolve to the earliest match even when the
	// offsets point at the later one.
	text := "foo bar foo"
	r, ok := Resolve(text, "", intp(8), intp(11))
	require.True(t, ok)
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 3, r.Length)
}

func TestRuneRange(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		start, end int
		wantStart  int
		wantLen    int
	}{
		{"ascii", "hello world", 6, 11, 6, 5},
		{"single multibyte rune", "héllo", 1, 3, 1, 1},
		{"span after multibyte", "héllo", 3, 5, 2, 2},
		{"empty span", "héllo", 3, 3, 2, 0},
		{"emoji", "a\U0001F600b", 1, 5, 1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, ok := RuneRange([]byte(tc.text), tc.start, tc.end)
			require.True(t, ok)
			assert.Equal(t, tc.wantStart, r.Start)
			assert.Equal(t, tc.wantLen, r.Length)
		})
	}
}

func TestRuneRangeCodePointsNeverExceedBytes(t *testing.T) {
	b := []byte("héllo wörld \U0001F680")
	for start := 0; start <= len(b); start++ {
		for end := start; end <= len(b); end++ {
			r, ok := RuneRange(b, start, end)
			require.True(t, ok)
			assert.LessOrEqual(t, r.Length, end-start)
		}
	}
}

func TestRuneRangeBadBounds(t *testing.T) {
	_, ok := RuneRange([]byte("abc"), 2, 1)
	assert.False(t, ok)

	_, ok = RuneRange([]byte("abc"), 0, 4)
	assert.False(t, ok)
}
