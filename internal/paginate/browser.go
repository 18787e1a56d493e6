package paginate

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
)

// PageOpener opens a blank browser page. *chrome.Browser implements it.
type PageOpener interface {
	Page(ctx context.Context) (*rod.Page, error)
}

// measureJS builds the offscreen container, measures every top-level
// child and removes the container before returning, on every path.
const measureJS = `(html, width, style) => {
	const box = document.createElement('div');
	box.setAttribute('style', style);
	box.style.position = 'absolute';
	box.style.left = '-100000px';
	box.style.top = '0';
	box.style.visibility = 'hidden';
	box.style.width = width + 'px';
	box.style.boxSizing = 'content-box';
	box.innerHTML = html;
	document.body.appendChild(box);
	try {
		const total = box.getBoundingClientRect().height;
		const children = [];
		for (const node of box.childNodes) {
			if (node.nodeType === Node.ELEMENT_NODE) {
				const cs = getComputedStyle(node);
				children.push(node.getBoundingClientRect().height +
					parseFloat(cs.marginTop) + parseFloat(cs.marginBottom));
			} else if (node.nodeType === Node.TEXT_NODE && node.textContent.trim() !== '') {
				const r = document.createRange();
				r.selectNodeContents(node);
				children.push(r.getBoundingClientRect().height);
			}
		}
		return {total, children};
	} finally {
		box.remove();
	}
}`

// BrowserMeasurer measures fragments in headless Chrome.
type BrowserMeasurer struct {
	pages PageOpener
}

// NewBrowserMeasurer creates a BrowserMeasurer using pages.
func NewBrowserMeasurer(pages PageOpener) *BrowserMeasurer {
	return &BrowserMeasurer{pages: pages}
}

// Measure implements Measurer.
func (b *BrowserMeasurer) Measure(ctx context.Context, c Container) (Measurement, error) {
	page, err := b.pages.Page(ctx)
	if err != nil {
		return Measurement{}, fmt.Errorf("%w: %v", ErrMeasure, err)
	}
	defer func() { _ = page.Close() }()

	res, err := page.Eval(measureJS, c.HTML, c.Width, c.Style)
	if err != nil {
		return Measurement{}, fmt.Errorf("%w: %v", ErrMeasure, err)
	}

	var out struct {
		Total    float64   `json:"total"`
		Children []float64 `json:"children"`
	}
	if err := res.Value.Unmarshal(&out); err != nil {
		return Measurement{}, fmt.Errorf("%w: %v", ErrMeasure, err)
	}
	return Measurement{Total: out.Total, Children: out.Children}, nil
}

// Compile-time interface check.
var _ Measurer = (*BrowserMeasurer)(nil)
