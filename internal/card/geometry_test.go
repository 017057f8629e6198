package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout(t *testing.T) {
	g := Layout(7)
	assert.Equal(t, 7, g.Digits)
	assert.Equal(t, 252, g.DigitsWidth)
	assert.Equal(t, 394, g.ContentWidth)
	assert.Equal(t, 144, g.ContentHeight)
	assert.Equal(t, 422, g.Width)
	assert.Equal(t, 172, g.Height)
	assert.Equal(t, 14, g.ContentOffset)
}

func TestLayout_ClampsAndGrows(t *testing.T) {
	assert.Equal(t, Layout(MinDigits), Layout(1))

	wide := Layout(9)
	assert.Equal(t, 9, wide.Digits)
	assert.Equal(t, Layout(7).Width+2*DigitWidth, wide.Width)
	assert.Equal(t, Layout(7).Height, wide.Height, "height does not depend on digit count")
}
