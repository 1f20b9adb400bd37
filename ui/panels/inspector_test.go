package panels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalHex(t *testing.T) {
	assert.Equal(t, "#ff0000", canonicalHex("#F00", "#000000"))
	assert.Equal(t, "#4a6fa5", canonicalHex(" #4A6FA5 ", "#000000"))
	assert.Equal(t, "#123456", canonicalHex("garbage", "#123456"))
	assert.Equal(t, "#000000", canonicalHex("garbage", "also-garbage"))
}
