package card

// Layout constants, in SVG user units.
const (
	MinDigits = 7

	DigitWidth       = 36
	RowGap           = 4
	PaddingLeft      = 40
	PaddingRight     = 12
	PaddingTopBottom = 10
	OuterPadding     = 12
	BorderStroke     = 2
	BorderRadius     = 8

	RowSmallHeight   = 32
	RowCurrentHeight = 52
	FontSmall        = 22
	FontCurrent      = 38

	LabelWidth    = 90
	LabelGap      = 8
	LabelFontSize = 20

	// PreviousRowOpacity dims the previous row in the static card.
	PreviousRowOpacity = 0.4

	// Flip timings in milliseconds. The rightmost digit starts first and
	// each digit to its left waits one more stagger.
	FlipDurationMillis = 400
	FlipStaggerMillis  = 120
)

// Geometry is the computed size of a card for a given digit count.
type Geometry struct {
	Digits        int
	DigitsWidth   int
	ContentWidth  int
	ContentHeight int
	Width         int
	Height        int
	ContentOffset int
}

// Layout computes the card geometry for digits digit cells. Counts below
// MinDigits are clamped up.
func Layout(digits int) Geometry {
	if digits < MinDigits {
		digits = MinDigits
	}
	digitsWidth := digits * DigitWidth
	contentWidth := digitsWidth + LabelWidth + PaddingLeft + PaddingRight
	contentHeight := RowSmallHeight + RowGap + RowCurrentHeight + RowGap + RowSmallHeight + 2*PaddingTopBottom
	return Geometry{
		Digits:        digits,
		DigitsWidth:   digitsWidth,
		ContentWidth:  contentWidth,
		ContentHeight: contentHeight,
		Width:         contentWidth + 2*OuterPadding + 2*BorderStroke,
		Height:        contentHeight + 2*OuterPadding + 2*BorderStroke,
		ContentOffset: OuterPadding + BorderStroke,
	}
}
