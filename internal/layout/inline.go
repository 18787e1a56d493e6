package layout

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// inlineParser only knows paragraphs, so "1. Won" or "# 1 seller" stay
// literal text. Raw HTML is left out for the same reason.
var inlineParser = parser.NewParser(
	parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 100)),
	parser.WithInlineParsers(
		util.Prioritized(parser.NewCodeSpanParser(), 100),
		util.Prioritized(parser.NewLinkParser(), 200),
		util.Prioritized(parser.NewAutoLinkParser(), 300),
		util.Prioritized(parser.NewEmphasisParser(), 500),
	),
)

// markers are the characters that can start inline markup.
const markers = "*_`[<"

// ParseInline splits one line of text into styled runs. Adjacent runs
// with the same style are merged.
func ParseInline(line string) []Run {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.ContainsAny(line, markers) {
		return []Run{{Text: line}}
	}

	source := []byte(line)
	doc := inlineParser.Parse(text.NewReader(source))

	var runs []Run
	var style Run
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Emphasis:
			if node.Level >= 2 {
				style.Bold = entering
			} else {
				style.Italic = entering
			}
		case *ast.CodeSpan:
			style.Code = entering
		case *ast.Link:
			if entering {
				style.Link = string(node.Destination)
			} else {
				style.Link = ""
			}
		case *ast.AutoLink:
			if entering {
				r := style
				r.Text = string(node.Label(source))
				r.Link = string(node.URL(source))
				runs = appendRun(runs, r)
			}
		case *ast.Text:
			if entering {
				r := style
				value := node.Value(source)
				if !style.Code {
					value = util.ResolveEntityNames(util.UnescapePunctuations(value))
				}
				r.Text = string(value)
				if node.SoftLineBreak() || node.HardLineBreak() {
					r.Text += " "
				}
				runs = appendRun(runs, r)
			}
		case *ast.String:
			if entering {
				r := style
				r.Text = string(node.Value)
				runs = appendRun(runs, r)
			}
		}
		return ast.WalkContinue, nil
	})

	if len(runs) == 0 {
		return []Run{{Text: line}}
	}
	return runs
}

func appendRun(runs []Run, r Run) []Run {
	if r.Text == "" {
		return runs
	}
	if n := len(runs); n > 0 {
		last := &runs[n-1]
		if last.Bold == r.Bold && last.Italic == r.Italic && last.Code == r.Code && last.Link == r.Link {
			last.Text += r.Text
			return runs
		}
	}
	return append(runs, r)
}
