// Package assets loads the files that define résumé templates: YAML
// template descriptors, base CSS, and the HTML page shell.
//
// Assets ship embedded in the binary. A custom directory with the same
// layout (templates/, styles/, shells/) can override any of them; the
// resolver falls back to the embedded copy when a custom file is absent.
package assets
