// Package card renders the visitor counter SVG.
//
// Render is a pure function of its arguments: the same frame, theme and
// options always produce byte-identical output.
package card

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	cardClipID      = "visitorCountClip"
	digitClipID     = "digitCellClip"
	digitClipSmall  = "digitCellClipSmall"
	shadowFilterID  = "shadow"
	classSmall      = "digit-small"
	classCurrent    = "digit-current"
	classLabel      = "label-visitors"
	labelText       = "Visitors"
	backgroundAlpha = "0.7"
)

// Frame is the three counts shown on the card. Next is normally Current+1
// and Previous is normally Current-1, floored at zero.
type Frame struct {
	Previous int64
	Current  int64
	Next     int64
}

// Options select the rendering mode.
type Options struct {
	// AnimateFromPrev flips each row from its previous value to the shown one.
	AnimateFromPrev bool
	// BackgroundDataURL, when set, is drawn beneath a translucent background.
	BackgroundDataURL string
}

// Render builds the complete SVG document for frame.
func Render(frame Frame, theme Theme, opts Options) string {
	beforePrev := frame.Previous - 1
	if beforePrev < 0 {
		beforePrev = 0
	}
	width := digitCount(beforePrev, frame.Previous, frame.Current, frame.Next)
	g := Layout(width)

	prev := pad(frame.Previous, g.Digits)
	current := pad(frame.Current, g.Digits)
	next := pad(frame.Next, g.Digits)

	r := renderer{g: g, theme: theme}
	var body strings.Builder
	y := PaddingTopBottom
	if opts.AnimateFromPrev {
		r.flipRow(&body, pad(beforePrev, g.Digits), prev, y, RowSmallHeight, classSmall, digitClipSmall, false)
		y += RowSmallHeight + RowGap
		r.flipRow(&body, prev, current, y, RowCurrentHeight, classCurrent, digitClipID, true)
		y += RowCurrentHeight + RowGap
		r.flipRow(&body, current, next, y, RowSmallHeight, classSmall, digitClipSmall, false)
	} else {
		r.staticRow(&body, prev, y, RowSmallHeight, classSmall, PreviousRowOpacity, false)
		y += RowSmallHeight + RowGap
		r.staticRow(&body, current, y, RowCurrentHeight, classCurrent, 1, true)
		y += RowCurrentHeight + RowGap
		r.staticRow(&body, next, y, RowSmallHeight, classSmall, 1, false)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		g.Width, g.Height, g.Width, g.Height)
	r.defs(&b, opts.AnimateFromPrev)
	b.WriteByte('\n')
	r.background(&b, opts.BackgroundDataURL)
	b.WriteByte('\n')
	fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="%s" stroke-width="%d" rx="%d" ry="%d"/>`+"\n",
		BorderStroke/2, BorderStroke/2, g.Width-BorderStroke, g.Height-BorderStroke,
		escapeXML(theme.BorderColor), BorderStroke, BorderRadius, BorderRadius)
	fmt.Fprintf(&b, `<g transform="translate(%d, %d)">%s</g>`+"\n", g.ContentOffset, g.ContentOffset, body.String())
	b.WriteString("</svg>")
	return b.String()
}

type renderer struct {
	g     Geometry
	theme Theme
}

func (r renderer) defs(b *strings.Builder, animated bool) {
	b.WriteString("<defs>\n")
	fmt.Fprintf(b, `<clipPath id="%s"><rect x="0" y="0" width="%d" height="%d" rx="%d" ry="%d"/></clipPath>`+"\n",
		cardClipID, r.g.Width, r.g.Height, BorderRadius, BorderRadius)
	if animated {
		fmt.Fprintf(b, `<clipPath id="%s"><rect x="0" y="0" width="%d" height="%d"/></clipPath>`, digitClipID, DigitWidth, RowCurrentHeight)
		fmt.Fprintf(b, `<clipPath id="%s"><rect x="0" y="0" width="%d" height="%d"/></clipPath>`+"\n", digitClipSmall, DigitWidth, RowSmallHeight)
	}
	fmt.Fprintf(b, `<filter id="%s" x="-10%%" y="-10%%" width="120%%" height="120%%"><feDropShadow dx="0" dy="2" stdDeviation="1" flood-color="#000" flood-opacity="0.35"/></filter>`+"\n", shadowFilterID)
	b.WriteString("<style>\n")
	fmt.Fprintf(b, `.%s { font-family: ui-monospace, "SF Mono", monospace; font-size: %dpx; font-weight: 700; text-anchor: middle; dominant-baseline: middle; }`+"\n", classSmall, FontSmall)
	fmt.Fprintf(b, `.%s { font-family: ui-monospace, "SF Mono", monospace; font-size: %dpx; font-weight: 700; text-anchor: middle; dominant-baseline: middle; }`+"\n", classCurrent, FontCurrent)
	fmt.Fprintf(b, `.%s { font-family: ui-sans-serif, system-ui, sans-serif; font-size: %dpx; font-weight: 600; text-anchor: start; dominant-baseline: middle; }`+"\n", classLabel, LabelFontSize)
	b.WriteString("</style>\n</defs>")
}

func (r renderer) background(b *strings.Builder, dataURL string) {
	fmt.Fprintf(b, `<g clip-path="url(#%s)">`, cardClipID)
	if dataURL != "" {
		fmt.Fprintf(b, `<image href="%s" x="0" y="0" width="%d" height="%d" preserveAspectRatio="xMidYMid slice"/>`,
			escapeXML(dataURL), r.g.Width, r.g.Height)
	}
	fmt.Fprintf(b, `<rect x="0" y="0" width="%d" height="%d" rx="%d" ry="%d" fill="%s"`,
		r.g.Width, r.g.Height, BorderRadius, BorderRadius, escapeXML(r.theme.BackgroundColor))
	if dataURL != "" {
		fmt.Fprintf(b, ` fill-opacity="%s"`, backgroundAlpha)
	}
	b.WriteString("/></g>")
}

// panel draws the shadowed strip behind a row of digits.
func (r renderer) panel(b *strings.Builder, y, h int) {
	fmt.Fprintf(b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" filter="url(#%s)" rx="%d"/>`,
		PaddingLeft, y, r.g.DigitsWidth, h, escapeXML(r.theme.PanelColor), shadowFilterID, BorderRadius)
}

func (r renderer) lastDigitHighlight(b *strings.Builder, y, h int) {
	fmt.Fprintf(b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" rx="%d"/>`,
		PaddingLeft+(r.g.Digits-1)*DigitWidth, y, DigitWidth, h, escapeXML(r.theme.LastDigitColor), BorderRadius)
}

func (r renderer) label(b *strings.Builder, y, h int) {
	fmt.Fprintf(b, `<text class="%s" x="%d" y="%d" fill="%s">%s</text>`,
		classLabel, PaddingLeft+r.g.DigitsWidth+LabelGap, y+h/2, escapeXML(r.theme.LabelColor), labelText)
}

func (r renderer) staticRow(b *strings.Builder, value string, y, h int, class string, opacity float64, withLabel bool) {
	r.panel(b, y, h)
	r.lastDigitHighlight(b, y, h)
	op := strconv.FormatFloat(opacity, 'f', -1, 64)
	for i := 0; i < len(value); i++ {
		fmt.Fprintf(b, `<text class="%s" x="%d" y="%d" fill="%s" opacity="%s">%c</text>`,
			class, PaddingLeft+i*DigitWidth+DigitWidth/2, y+h/2, escapeXML(r.theme.TextColor), op, value[i])
	}
	if withLabel {
		r.label(b, y, h)
	}
}

// flipRow renders the row showing to. Digits that differ from from slide up
// out of a clipped cell; identical digits are plain text.
func (r renderer) flipRow(b *strings.Builder, from, to string, y, h int, class, clipID string, withLabel bool) {
	r.panel(b, y, h)
	r.lastDigitHighlight(b, y, h)
	for i := 0; i < len(to); i++ {
		dx := PaddingLeft + i*DigitWidth
		if from[i] == to[i] {
			fmt.Fprintf(b, `<text class="%s" x="%d" y="%d" fill="%s">%c</text>`,
				class, dx+DigitWidth/2, y+h/2, escapeXML(r.theme.TextColor), to[i])
			continue
		}
		last := i == len(to)-1
		beginMillis := (len(to) - 1 - i) * FlipStaggerMillis
		fmt.Fprintf(b, `<g transform="translate(%d, %d)"><g clip-path="url(#%s)"><g transform="translate(0,0)">`, dx, y, clipID)
		fmt.Fprintf(b, `<animateTransform attributeName="transform" type="translate" from="0 0" to="0 -%d" dur="%ss" begin="%ss" fill="freeze"/>`,
			h, seconds(FlipDurationMillis), seconds(beginMillis))
		r.digitCell(b, from[i], last, class, h)
		fmt.Fprintf(b, `<g transform="translate(0, %d)">`, h)
		r.digitCell(b, to[i], last, class, h)
		b.WriteString("</g></g></g></g>")
	}
	if withLabel {
		r.label(b, y, h)
	}
}

// digitCell draws one digit with its background at the local origin.
func (r renderer) digitCell(b *strings.Builder, digit byte, last bool, class string, h int) {
	fill := r.theme.PanelColor
	if last {
		fill = r.theme.LastDigitColor
	}
	fmt.Fprintf(b, `<rect x="0" y="0" width="%d" height="%d" fill="%s" rx="%d"/>`, DigitWidth, h, escapeXML(fill), BorderRadius)
	fmt.Fprintf(b, `<text class="%s" x="%d" y="%d" fill="%s">%c</text>`, class, DigitWidth/2, h/2, escapeXML(r.theme.TextColor), digit)
}

func seconds(millis int) string {
	return strconv.FormatFloat(float64(millis)/1000, 'f', -1, 64)
}

func digitCount(values ...int64) int {
	n := MinDigits
	for _, v := range values {
		if l := len(strconv.FormatInt(v, 10)); l > n {
			n = l
		}
	}
	return n
}

// pad zero-pads v to width digits. Negative values render as zero.
func pad(v int64, width int) string {
	if v < 0 {
		v = 0
	}
	s := strconv.FormatInt(v, 10)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
