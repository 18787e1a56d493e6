package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ContentType is the MIME type of a .docx file.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ErrPackage indicates the zip container could not be written.
var ErrPackage = errors.New("docx packaging failed")

const (
	relTypeDocument  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCore      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeApp       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeNumbering = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relTypeImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeLink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	nsRels           = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsTypes          = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// part is one file of the package.
type part struct {
	name string
	data []byte
}

// Bytes packages the document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write packages the document into out. Part order and timestamps are
// fixed, so equal documents produce equal bytes.
func (d *Document) Write(out io.Writer) error {
	body, links := d.documentXML()

	parts := []part{
		{"[Content_Types].xml", contentTypesXML()},
		{"_rels/.rels", rootRelsXML()},
		{"docProps/core.xml", d.coreXML()},
		{"docProps/app.xml", appXML()},
		{"word/document.xml", body},
		{"word/_rels/document.xml.rels", d.documentRelsXML(links)},
		{"word/styles.xml", d.stylesXML()},
		{"word/numbering.xml", numberingXML()},
	}
	for i, m := range d.media {
		parts = append(parts, part{fmt.Sprintf("word/media/image%d.png", i+1), m.data})
	}

	zw := zip.NewWriter(out)
	for _, p := range parts {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrPackage, p.name, err)
		}
		if _, err := f.Write(p.data); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrPackage, p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrPackage, err)
	}
	return nil
}

func contentTypesXML() []byte {
	w := newXW()
	w.open("Types", "xmlns", nsTypes)
	w.empty("Default", "Extension", "rels", "ContentType", "application/vnd.openxmlformats-package.relationships+xml")
	w.empty("Default", "Extension", "xml", "ContentType", "application/xml")
	w.empty("Default", "Extension", "png", "ContentType", "image/png")
	for _, o := range []struct{ part, typ string }{
		{"/word/document.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
		{"/word/styles.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
		{"/word/numbering.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"},
		{"/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml"},
		{"/docProps/app.xml", "application/vnd.openxmlformats-officedocument.extended-properties+xml"},
	} {
		w.empty("Override", "PartName", o.part, "ContentType", o.typ)
	}
	w.close("Types")
	return w.bytes()
}

func rootRelsXML() []byte {
	w := newXW()
	w.open("Relationships", "xmlns", nsRels)
	w.empty("Relationship", "Id", "rId1", "Type", relTypeDocument, "Target", "word/document.xml")
	w.empty("Relationship", "Id", "rId2", "Type", relTypeCore, "Target", "docProps/core.xml")
	w.empty("Relationship", "Id", "rId3", "Type", relTypeApp, "Target", "docProps/app.xml")
	w.close("Relationships")
	return w.bytes()
}

func (d *Document) documentRelsXML(links []string) []byte {
	w := newXW()
	w.open("Relationships", "xmlns", nsRels)
	w.empty("Relationship", "Id", "rIdStyles", "Type", relTypeStyles, "Target", "styles.xml")
	w.empty("Relationship", "Id", "rIdNumbering", "Type", relTypeNumbering, "Target", "numbering.xml")
	for i := range d.media {
		w.empty("Relationship", "Id", imageRelID(i+1), "Type", relTypeImage,
			"Target", fmt.Sprintf("media/image%d.png", i+1))
	}
	for i, url := range links {
		w.empty("Relationship", "Id", linkRelID(i+1), "Type", relTypeLink,
			"Target", url, "TargetMode", "External")
	}
	w.close("Relationships")
	return w.bytes()
}

func (d *Document) coreXML() []byte {
	w := newXW()
	w.open("cp:coreProperties",
		"xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		"xmlns:dc", "http://purl.org/dc/elements/1.1/",
		"xmlns:dcterms", "http://purl.org/dc/terms/",
		"xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	w.leaf("dc:title", d.Title)
	w.leaf("dc:creator", d.Author)
	w.close("cp:coreProperties")
	return w.bytes()
}

func appXML() []byte {
	w := newXW()
	w.open("Properties", "xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	w.leaf("Application", "go-cvkit")
	w.close("Properties")
	return w.bytes()
}

func (d *Document) stylesXML() []byte {
	def := d.Defaults
	w := newXW()
	w.open("w:styles", "xmlns:w", nsW)
	w.open("w:docDefaults")
	w.open("w:rPrDefault")
	w.open("w:rPr")
	if def.Font != "" {
		w.empty("w:rFonts", "w:ascii", def.Font, "w:hAnsi", def.Font, "w:cs", def.Font, "w:eastAsia", def.Font)
	}
	if def.Color != "" {
		w.empty("w:color", "w:val", def.Color)
	}
	if def.Size > 0 {
		w.empty("w:sz", "w:val", itoa(def.Size))
		w.empty("w:szCs", "w:val", itoa(def.Size))
	}
	w.close("w:rPr")
	w.close("w:rPrDefault")
	w.open("w:pPrDefault")
	w.open("w:pPr")
	w.empty("w:spacing", "w:before", "0", "w:after", "0", "w:line", "240", "w:lineRule", "auto")
	w.close("w:pPr")
	w.close("w:pPrDefault")
	w.close("w:docDefaults")

	w.open("w:style", "w:type", "paragraph", "w:default", "1", "w:styleId", "Normal")
	w.empty("w:name", "w:val", "Normal")
	w.empty("w:qFormat")
	w.close("w:style")
	w.open("w:style", "w:type", "table", "w:default", "1", "w:styleId", "TableNormal")
	w.empty("w:name", "w:val", "Normal Table")
	w.close("w:style")
	w.close("w:styles")
	return w.bytes()
}

func numberingXML() []byte {
	w := newXW()
	w.open("w:numbering", "xmlns:w", nsW)
	w.open("w:abstractNum", "w:abstractNumId", "0")
	w.empty("w:multiLevelType", "w:val", "singleLevel")
	w.open("w:lvl", "w:ilvl", "0")
	w.empty("w:start", "w:val", "1")
	w.empty("w:numFmt", "w:val", "bullet")
	w.empty("w:lvlText", "w:val", "•")
	w.empty("w:lvlJc", "w:val", "left")
	w.open("w:pPr")
	w.empty("w:ind", "w:left", "360", "w:hanging", "360")
	w.close("w:pPr")
	w.close("w:lvl")
	w.close("w:abstractNum")
	w.open("w:num", "w:numId", bulletNumID)
	w.empty("w:abstractNumId", "w:val", "0")
	w.close("w:num")
	w.close("w:numbering")
	return w.bytes()
}
