package tokenize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSegmenter struct {
	available bool
	err       error
	calls     int
}

func (s *stubSegmenter) Name() string    { return "stub" }
func (s *stubSegmenter) Available() bool { return s.available }

func (s *stubSegmenter) Sentences(text string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []string{"STUB"}, nil
}

func (s *stubSegmenter) Words(text string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []string{"a", "b", "c", "d"}, nil
}

func TestRegexSegmenter_Sentences(t *testing.T) {
	seg := NewRegexSegmenter()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "  \n\n ", nil},
		{"single", "Just one sentence", []string{"Just one sentence"}},
		{"mixed punctuation", "First one. Second one! Third one? Fourth", []string{"First one.", "Second one!", "Third one?", "Fourth"}},
		{"newline after period", "Line one.\nLine two.", []string{"Line one.", "Line two."}},
		{"no space after period", "Version 1.2 is out. Yes.", []string{"Version 1.2 is out.", "Yes."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := seg.Sentences(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegexSegmenter_Words(t *testing.T) {
	got, err := NewRegexSegmenter().Words("  alpha beta\tgamma\n delta ")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma", "delta"}, got)
}

func TestAdapter_UsesPrimaryWhenAvailable(t *testing.T) {
	stub := &stubSegmenter{available: true}
	a := New(stub, nil)

	assert.Equal(t, []string{"STUB"}, a.SplitSentences("Anything. Here."))
	assert.Equal(t, 4, a.CountTokens("one"))
	assert.Equal(t, "stub", a.Name())
}

func TestAdapter_FallsBackWhenUnavailable(t *testing.T) {
	stub := &stubSegmenter{available: false}
	a := New(stub, nil)

	assert.Equal(t, []string{"One.", "Two."}, a.SplitSentences("One. Two."))
	assert.Equal(t, []string{"one", "two"}, a.SplitWords("one two"))
	assert.Zero(t, stub.calls, "unavailable segmenter must not be called")
	assert.Equal(t, "regex", a.Name())
}

func TestAdapter_FallsBackSilentlyOnError(t *testing.T) {
	stub := &stubSegmenter{available: true, err: errors.New("model missing")}
	a := New(stub, nil)

	assert.Equal(t, []string{"One.", "Two."}, a.SplitSentences("One. Two."))
	assert.Equal(t, []string{"x", "y", "z"}, a.SplitWords("x y z"))
	assert.Equal(t, 3, a.CountTokens("x y z"))
}

func TestAdapter_WordsReportsPrimaryError(t *testing.T) {
	boom := errors.New("model missing")
	a := New(&stubSegmenter{available: true, err: boom}, nil)

	_, err := a.Words("x y")
	assert.ErrorIs(t, err, boom)
}

func TestAdapter_NilPrimary(t *testing.T) {
	a := New(nil, nil)
	assert.Equal(t, []string{"a.", "b"}, a.SplitSentences("a. b"))
	assert.Equal(t, 2, a.CountTokens("a. b"))
}

func TestForName(t *testing.T) {
	assert.Equal(t, "regex", ForName("regex", nil).Name())
	assert.Equal(t, "regex", ForName("bogus", nil).Name())
}

func TestProseSegmenter(t *testing.T) {
	seg := NewProseSegmenter()
	if !seg.Available() {
		t.Skip("prose segmenter unavailable")
	}

	sentences, err := seg.Sentences("The cat sat on the mat. The dog barked loudly.")
	require.NoError(t, err)
	assert.Len(t, sentences, 2)

	words, err := seg.Words("The cat sat.")
	require.NoError(t, err)
	assert.Contains(t, words, "cat")
	assert.Contains(t, words, ".")

	empty, err := seg.Sentences("   ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
