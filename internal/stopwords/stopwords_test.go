package stopwords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEnglish(t *testing.T) {
	for _, w := range []string{"the", "and", "won't", "ourselves"} {
		assert.True(t, IsEnglish(w), w)
	}
	for _, w := range []string{"chunk", "The", "", "budget"} {
		assert.False(t, IsEnglish(w), w)
	}
}

func TestEnglishReturnsCopy(t *testing.T) {
	set := English()
	set["chunk"] = struct{}{}

	assert.False(t, IsEnglish("chunk"))
	assert.Len(t, English(), len(english))
}
