// Package cvkit renders résumés to paginated HTML previews, DOCX
// documents and PDF, across eight templates.
//
// # Quick Start
//
// Load a résumé, create a converter, export, and close when done:
//
//	doc, err := resume.Load("ada.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	conv, err := cvkit.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	file, err := conv.Export(ctx, doc, "modern")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(file.Name, file.Data, 0o644)
//
// Templates are referenced by name ("classic", "sidebar") or id ("1" to
// "8"). An empty reference selects DefaultTemplate.
//
// # Pipeline
//
// Every output is derived from the same layout tree:
//
//  1. The template descriptor and the document are laid out once: section
//     order and suppression, sidebar placement, skill columns, bullets and
//     inline emphasis.
//  2. The tree is serialized to inline-styled HTML, or to DOCX.
//  3. HTML is split into pages by measuring its top-level blocks and
//     packing them greedily. A block taller than a page is never split.
//  4. PDF is printed from the paginated HTML by headless Chrome (go-rod).
//
// # Editing Sessions
//
// A Session keeps a document, its template and the page being viewed.
// Editor actions from package resume are applied with Dispatch; each one
// re-paginates and returns to the first page:
//
//	s, err := conv.NewSession(ctx, doc, "sidebar")
//	err = s.Dispatch(ctx, resume.SetSummary{Text: "Mathematician."})
//	n, page := s.Page()
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := cvkit.NewConverter(
//	    cvkit.WithPageSize("Letter"),
//	    cvkit.WithMeasurer(cvkit.MeasurerBrowser),
//	    cvkit.WithAssetPath("/path/to/custom/assets"),
//	    cvkit.WithLogger(slog.Default()),
//	)
//
// # Profile Images
//
// A profile image may be a data URI, an http(s) URL, a local path, or a
// "blob:cvkit/" reference into a BlobStore passed with WithBlobStore. An
// image that cannot be read is replaced by an initials badge; it never
// fails a render or an export.
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool to manage several converters:
//
//	pool, err := cvkit.NewConverterPool(cvkit.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	defer pool.Release(conv)
//
// # Browser Requirements
//
// Browser measuring and PDF printing require Chrome/Chromium. The go-rod
// library downloads a managed Chromium on first use (~/.cache/rod/browser/).
// Use ROD_BROWSER_BIN to select a custom Chrome binary. ROD_NO_SANDBOX=1
// disables the sandbox; a custom binary or CI=true disables it too.
package cvkit
