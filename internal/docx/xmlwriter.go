package docx

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// xw writes namespaced XML. Attribute values and text are escaped.
type xw struct {
	buf bytes.Buffer
}

func newXW() *xw {
	w := &xw{}
	w.buf.WriteString(xmlHeader)
	return w
}

func (w *xw) open(name string, attrs ...string) {
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	w.attrs(attrs)
	w.buf.WriteByte('>')
}

func (w *xw) empty(name string, attrs ...string) {
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	w.attrs(attrs)
	w.buf.WriteString("/>")
}

func (w *xw) close(name string) {
	w.buf.WriteString("</")
	w.buf.WriteString(name)
	w.buf.WriteByte('>')
}

// leaf writes <name>text</name>.
func (w *xw) leaf(name, text string, attrs ...string) {
	w.open(name, attrs...)
	w.text(text)
	w.close(name)
}

func (w *xw) text(s string) {
	_ = xml.EscapeText(&w.buf, []byte(s))
}

func (w *xw) attrs(kv []string) {
	for i := 0; i+1 < len(kv); i += 2 {
		w.buf.WriteByte(' ')
		w.buf.WriteString(kv[i])
		w.buf.WriteString(`="`)
		w.text(kv[i+1])
		w.buf.WriteByte('"')
	}
}

func (w *xw) bytes() []byte {
	return w.buf.Bytes()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
