package resume

import (
	"encoding/json"
	"maps"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Built-in section keys.
const (
	KeySummary        = "summary"
	KeyEmployment     = "employment"
	KeyEducation      = "education"
	KeyProjects       = "projects"
	KeySkills         = "skills"
	KeyCertifications = "certifications"
	KeyLanguages      = "languages"
)

// builtinKeys lists built-in sections in their default display order.
var builtinKeys = []string{
	KeySummary,
	KeyEmployment,
	KeyEducation,
	KeyProjects,
	KeySkills,
	KeyCertifications,
	KeyLanguages,
}

// reservedKeys are root-level JSON names a custom section cannot take.
var reservedKeys = map[string]bool{
	"personal":       true,
	"sections":       true,
	"customSections": true,
}

// BuiltinKeys returns the built-in section keys in default order.
func BuiltinKeys() []string {
	return slices.Clone(builtinKeys)
}

// IsBuiltin reports whether key names a built-in section.
func IsBuiltin(key string) bool {
	return slices.Contains(builtinKeys, key)
}

// Personal holds the header fields of a résumé.
type Personal struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Tagline      string `json:"tagline"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	LinkedIn     string `json:"linkedin"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// FullName joins first and last name, skipping blanks.
func (p Personal) FullName() string {
	return joinNonEmpty(" ", p.FirstName, p.LastName)
}

// Initials returns up to two uppercase initials from the name fields.
func (p Personal) Initials() string {
	var b strings.Builder
	for _, name := range []string{p.FirstName, p.LastName} {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(name)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Location joins city and country with a comma.
func (p Personal) Location() string {
	return joinNonEmpty(", ", p.City, p.Country)
}

// Employment is one job entry.
type Employment struct {
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Location    string `json:"location"`
	Description string `json:"desc"`
}

// Education is one school entry.
type Education struct {
	Degree      string `json:"degree"`
	School      string `json:"school"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Location    string `json:"location"`
	Description string `json:"desc"`
}

// Project is one project entry.
type Project struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Location    string `json:"location"`
	Description string `json:"desc"`
}

// Document is the canonical résumé model.
type Document struct {
	Personal       Personal        `json:"personal"`
	Sections       []string        `json:"sections"`
	Summary        string          `json:"summary"`
	Employment     []Employment    `json:"employment"`
	Education      []Education     `json:"education"`
	Projects       []Project       `json:"projects"`
	Skills         SkillList       `json:"skills"`
	Certifications StringList      `json:"certifications"`
	Languages      StringList      `json:"languages"`
	CustomSections []CustomSection `json:"customSections"`

	// Custom holds the backing value of each custom section by key.
	// It is serialized at the root of the JSON object.
	Custom map[string]CustomValue `json:"-"`
}

// DefaultSections is the section list of a freshly created document.
func DefaultSections() []string {
	return []string{KeySummary, KeyEmployment, KeyEducation, KeySkills}
}

// New returns an empty document with the default sections enabled.
func New() Document {
	return Document{
		Sections: DefaultSections(),
		Custom:   map[string]CustomValue{},
	}
}

// documentFields avoids recursion into Document's JSON methods.
type documentFields Document

// MarshalJSON writes custom section values at the root of the object.
func (d Document) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(documentFields(d))
	if err != nil {
		return nil, err
	}
	if len(d.CustomSections) == 0 {
		return base, nil
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(base, &root); err != nil {
		return nil, err
	}
	for _, cs := range d.CustomSections {
		raw, err := json.Marshal(d.Custom[cs.Key])
		if err != nil {
			return nil, err
		}
		root[cs.Key] = raw
	}
	return json.Marshal(root)
}

// UnmarshalJSON reads built-in fields and the root-level values of every
// declared custom section.
func (d *Document) UnmarshalJSON(data []byte) error {
	var fields documentFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*d = Document(fields)
	d.Custom = map[string]CustomValue{}
	if len(d.CustomSections) == 0 {
		return nil
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return err
	}
	for _, cs := range d.CustomSections {
		var v CustomValue
		if raw, ok := root[cs.Key]; ok {
			if err := json.Unmarshal(raw, &v); err != nil {
				return err
			}
		}
		d.Custom[cs.Key] = v
	}
	return nil
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	c := d
	c.Sections = slices.Clone(d.Sections)
	c.Employment = slices.Clone(d.Employment)
	c.Education = slices.Clone(d.Education)
	c.Projects = slices.Clone(d.Projects)
	c.Skills = slices.Clone(d.Skills)
	c.Certifications = slices.Clone(d.Certifications)
	c.Languages = slices.Clone(d.Languages)
	c.CustomSections = slices.Clone(d.CustomSections)
	c.Custom = make(map[string]CustomValue, len(d.Custom))
	for k, v := range d.Custom {
		c.Custom[k] = v.clone()
	}
	return c
}

// CustomSection looks up a custom section declaration by key.
func (d Document) CustomSection(key string) (CustomSection, bool) {
	i := d.customIndex(key)
	if i < 0 {
		return CustomSection{}, false
	}
	return d.CustomSections[i], true
}

func (d Document) customIndex(key string) int {
	return slices.IndexFunc(d.CustomSections, func(cs CustomSection) bool {
		return cs.Key == key
	})
}

// Resolves reports whether key names a built-in or declared custom section.
func (d Document) Resolves(key string) bool {
	return IsBuiltin(key) || d.customIndex(key) >= 0
}

// Validate checks the structural invariants of the section list.
// Content is never validated: empty entries are filtered at render time.
func (d Document) Validate() error {
	if len(d.Sections) == 0 {
		return ErrNoSections
	}

	customSeen := make(map[string]bool, len(d.CustomSections))
	for _, cs := range d.CustomSections {
		if cs.Key == "" {
			return ErrEmptyKey
		}
		if IsBuiltin(cs.Key) || reservedKeys[cs.Key] {
			return &KeyError{Key: cs.Key, Err: ErrReservedKey}
		}
		if customSeen[cs.Key] {
			return &KeyError{Key: cs.Key, Err: ErrDuplicateCustom}
		}
		customSeen[cs.Key] = true
	}

	seen := make(map[string]bool, len(d.Sections))
	for _, key := range d.Sections {
		if seen[key] {
			return &KeyError{Key: key, Err: ErrDuplicateSection}
		}
		seen[key] = true
		if !IsBuiltin(key) && !customSeen[key] {
			return &KeyError{Key: key, Err: ErrUnknownSection}
		}
	}
	return nil
}

// KeyError attaches the offending section key to a sentinel error.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return e.Err.Error() + ": " + e.Key
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// SectionLabel returns the display label of a section key.
func (d Document) SectionLabel(key string) string {
	if cs, ok := d.CustomSection(key); ok {
		return cs.Label
	}
	return builtinLabels[key]
}

var builtinLabels = map[string]string{
	KeySummary:        "Profile",
	KeyEmployment:     "Employment History",
	KeyEducation:      "Education",
	KeyProjects:       "Projects",
	KeySkills:         "Skills",
	KeyCertifications: "Certifications",
	KeyLanguages:      "Languages",
}

// BuiltinLabels returns a copy of the default section labels.
func BuiltinLabels() map[string]string {
	return maps.Clone(builtinLabels)
}

var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}_\-]+`)

// Filename returns the suggested export filename "{first}_{last}.docx".
func (d Document) Filename() string {
	return d.FilenameWithExt(".docx")
}

// FilenameWithExt builds the suggested filename with a custom extension.
func (d Document) FilenameWithExt(ext string) string {
	var parts []string
	for _, name := range []string{d.Personal.FirstName, d.Personal.LastName} {
		clean := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(name), "_")
		clean = strings.Trim(clean, "_")
		if clean != "" {
			parts = append(parts, clean)
		}
	}
	if len(parts) == 0 {
		return "resume" + ext
	}
	return strings.Join(parts, "_") + ext
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
