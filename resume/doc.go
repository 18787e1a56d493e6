// Package resume defines the in-memory résumé document and the pure
// reducer that edits it.
//
// A Document is a plain serializable value. Editors never mutate it in
// place: they dispatch an Action through Reduce and receive a new
// Document back. Rendering code treats the document as read-only and
// relies on the populated checks in this package to decide which
// sections produce output.
//
// Basic usage:
//
//	doc := resume.New()
//	doc, err := resume.Reduce(doc, resume.SetPersonal{Field: "firstName", Value: "Ada"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, _ = resume.Reduce(doc, resume.AddSkill{Name: "Go", Level: resume.LevelExpert})
//
// Documents can also be loaded from JSON or YAML files with Load. Custom
// sections live at the root of the serialized object under their key,
// next to the built-in fields.
package resume
