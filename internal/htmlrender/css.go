package htmlrender

import (
	"strconv"
	"strings"
)

// decl builds an inline style attribute value. Properties keep insertion
// order so output is deterministic.
type decl struct {
	b strings.Builder
}

func (d *decl) set(prop, value string) *decl {
	if value == "" {
		return d
	}
	if d.b.Len() > 0 {
		d.b.WriteByte(';')
	}
	d.b.WriteString(prop)
	d.b.WriteByte(':')
	d.b.WriteString(value)
	return d
}

func (d *decl) String() string {
	return d.b.String()
}

func css() *decl {
	return &decl{}
}

// px formats a length rounded to two decimals.
func px(v float64) string {
	return strconv.FormatFloat(float64(int64(v*100+0.5))/100, 'f', -1, 64) + "px"
}

// box formats a four-sided margin or padding shorthand.
func box(top, right, bottom, left float64) string {
	return px(top) + " " + px(right) + " " + px(bottom) + " " + px(left)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
