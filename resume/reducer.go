package resume

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Action is an edit dispatched by a section editor.
// Actions are applied by Reduce to a private copy of the document.
type Action interface {
	apply(d *Document) error
}

// Reduce applies a to doc and returns the updated document. doc itself is
// never modified. On error the original document is returned unchanged.
func Reduce(doc Document, a Action) (Document, error) {
	if a == nil {
		return doc, ErrUnknownAction
	}
	next := doc.Clone()
	if err := a.apply(&next); err != nil {
		return doc, err
	}
	return next, nil
}

// ReduceAll applies actions in order and stops at the first error.
func ReduceAll(doc Document, actions ...Action) (Document, error) {
	for i, a := range actions {
		next, err := Reduce(doc, a)
		if err != nil {
			return doc, fmt.Errorf("action %d (%T): %w", i, a, err)
		}
		doc = next
	}
	return doc, nil
}

// ---------------------------------------------------------------------------
// Personal
// ---------------------------------------------------------------------------

// SetPersonal sets one header field by its JSON name.
type SetPersonal struct {
	Field string
	Value string
}

func (a SetPersonal) apply(d *Document) error {
	p := &d.Personal
	target := map[string]*string{
		"firstName":    &p.FirstName,
		"lastName":     &p.LastName,
		"tagline":      &p.Tagline,
		"phone":        &p.Phone,
		"email":        &p.Email,
		"linkedin":     &p.LinkedIn,
		"address":      &p.Address,
		"city":         &p.City,
		"country":      &p.Country,
		"profileImage": &p.ProfileImage,
	}[a.Field]
	if target == nil {
		return fmt.Errorf("%w: personal.%s", ErrUnknownField, a.Field)
	}
	*target = a.Value
	return nil
}

// SetProfileImage replaces the raw image reference. Empty clears it.
type SetProfileImage struct {
	Ref string
}

func (a SetProfileImage) apply(d *Document) error {
	d.Personal.ProfileImage = a.Ref
	return nil
}

// SetSummary replaces the summary text.
type SetSummary struct {
	Text string
}

func (a SetSummary) apply(d *Document) error {
	d.Summary = a.Text
	return nil
}

// ---------------------------------------------------------------------------
// Entry sections
// ---------------------------------------------------------------------------

// AddEntry appends a blank entry to an entry section. Custom sections in
// simple mode with no text switch to structured mode.
type AddEntry struct {
	Section string
}

func (a AddEntry) apply(d *Document) error {
	switch a.Section {
	case KeyEmployment:
		d.Employment = append(d.Employment, Employment{})
	case KeyEducation:
		d.Education = append(d.Education, Education{})
	case KeyProjects:
		d.Projects = append(d.Projects, Project{})
	default:
		v, err := customValue(d, a.Section)
		if err != nil {
			return err
		}
		if v.Mode() == ModeSimple {
			if strings.TrimSpace(v.Text) != "" {
				return fmt.Errorf("%w: %s has text", ErrModeMismatch, a.Section)
			}
			v = EntriesValue()
		}
		v.Entries = append(v.Entries, CustomEntry{})
		d.Custom[a.Section] = v
	}
	return nil
}

// RemoveEntry deletes the entry at Index.
type RemoveEntry struct {
	Section string
	Index   int
}

func (a RemoveEntry) apply(d *Document) error {
	return editEntries(d, a.Section, func(n int) error {
		return checkIndex(a.Index, n)
	}, entryOps{
		employment: func(s []Employment) []Employment { return slices.Delete(s, a.Index, a.Index+1) },
		education:  func(s []Education) []Education { return slices.Delete(s, a.Index, a.Index+1) },
		projects:   func(s []Project) []Project { return slices.Delete(s, a.Index, a.Index+1) },
		custom:     func(s []CustomEntry) []CustomEntry { return slices.Delete(s, a.Index, a.Index+1) },
	})
}

// MoveEntry moves the entry at From so that it ends up at To.
type MoveEntry struct {
	Section  string
	From, To int
}

func (a MoveEntry) apply(d *Document) error {
	return editEntries(d, a.Section, func(n int) error {
		if err := checkIndex(a.From, n); err != nil {
			return err
		}
		return checkIndex(a.To, n)
	}, entryOps{
		employment: func(s []Employment) []Employment { return move(s, a.From, a.To) },
		education:  func(s []Education) []Education { return move(s, a.From, a.To) },
		projects:   func(s []Project) []Project { return move(s, a.From, a.To) },
		custom:     func(s []CustomEntry) []CustomEntry { return move(s, a.From, a.To) },
	})
}

// SetEntryField sets one field of an entry by its JSON name.
type SetEntryField struct {
	Section string
	Index   int
	Field   string
	Value   string
}

func (a SetEntryField) apply(d *Document) error {
	var target *string
	switch a.Section {
	case KeyEmployment:
		if err := checkIndex(a.Index, len(d.Employment)); err != nil {
			return err
		}
		e := &d.Employment[a.Index]
		target = pick(a.Field, map[string]*string{
			"jobTitle": &e.JobTitle, "company": &e.Company, "start": &e.Start,
			"end": &e.End, "location": &e.Location, "desc": &e.Description,
		})
	case KeyEducation:
		if err := checkIndex(a.Index, len(d.Education)); err != nil {
			return err
		}
		e := &d.Education[a.Index]
		target = pick(a.Field, map[string]*string{
			"degree": &e.Degree, "school": &e.School, "start": &e.Start,
			"end": &e.End, "location": &e.Location, "desc": &e.Description,
		})
	case KeyProjects:
		if err := checkIndex(a.Index, len(d.Projects)); err != nil {
			return err
		}
		p := &d.Projects[a.Index]
		target = pick(a.Field, map[string]*string{
			"title": &p.Title, "link": &p.Link, "start": &p.Start,
			"end": &p.End, "location": &p.Location, "desc": &p.Description,
		})
	default:
		v, err := customValue(d, a.Section)
		if err != nil {
			return err
		}
		if v.Mode() != ModeStructured {
			return fmt.Errorf("%w: %s is simple text", ErrModeMismatch, a.Section)
		}
		if err := checkIndex(a.Index, len(v.Entries)); err != nil {
			return err
		}
		e := &v.Entries[a.Index]
		target = pick(a.Field, map[string]*string{
			"title": &e.Title, "date": &e.Date, "subtitle": &e.Subtitle,
			"location": &e.Location, "description": &e.Description,
		})
		d.Custom[a.Section] = v
	}
	if target == nil {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, a.Section, a.Field)
	}
	*target = a.Value
	return nil
}

// InsertBullet inserts a new bullet line into an entry's description at
// rune offset At. A negative At appends at the end.
type InsertBullet struct {
	Section string
	Index   int
	At      int
	Text    string
}

// bulletPrefix starts every inserted bullet line.
const bulletPrefix = "• "

func (a InsertBullet) apply(d *Document) error {
	desc, err := entryDescription(d, a.Section, a.Index)
	if err != nil {
		return err
	}
	*desc = insertBullet(*desc, a.At, a.Text)
	return nil
}

func insertBullet(desc string, at int, text string) string {
	n := utf8.RuneCountInString(desc)
	if at < 0 || at > n {
		at = n
	}
	runes := []rune(desc)
	before, after := string(runes[:at]), string(runes[at:])

	line := bulletPrefix + text
	if before != "" && !strings.HasSuffix(before, "\n") {
		line = "\n" + line
	}
	if after != "" && !strings.HasPrefix(after, "\n") {
		line += "\n"
	}
	return before + line + after
}

func entryDescription(d *Document, section string, index int) (*string, error) {
	switch section {
	case KeyEmployment:
		if err := checkIndex(index, len(d.Employment)); err != nil {
			return nil, err
		}
		return &d.Employment[index].Description, nil
	case KeyEducation:
		if err := checkIndex(index, len(d.Education)); err != nil {
			return nil, err
		}
		return &d.Education[index].Description, nil
	case KeyProjects:
		if err := checkIndex(index, len(d.Projects)); err != nil {
			return nil, err
		}
		return &d.Projects[index].Description, nil
	}
	v, err := customValue(d, section)
	if err != nil {
		return nil, err
	}
	if v.Mode() != ModeStructured {
		return nil, fmt.Errorf("%w: %s is simple text", ErrModeMismatch, section)
	}
	if err := checkIndex(index, len(v.Entries)); err != nil {
		return nil, err
	}
	// Entries shares its backing array with the map value.
	return &v.Entries[index].Description, nil
}

// ---------------------------------------------------------------------------
// Skills
// ---------------------------------------------------------------------------

// AddSkill appends a skill. Name may be empty while the user types.
type AddSkill struct {
	Name  string
	Level Level
}

func (a AddSkill) apply(d *Document) error {
	if !a.Level.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSkillLevel, a.Level)
	}
	d.Skills = append(d.Skills, Skill{Name: a.Name, Level: a.Level})
	return nil
}

// RemoveSkill deletes the skill at Index.
type RemoveSkill struct {
	Index int
}

func (a RemoveSkill) apply(d *Document) error {
	if err := checkIndex(a.Index, len(d.Skills)); err != nil {
		return err
	}
	d.Skills = slices.Delete(d.Skills, a.Index, a.Index+1)
	return nil
}

// SetSkillName renames the skill at Index.
type SetSkillName struct {
	Index int
	Name  string
}

func (a SetSkillName) apply(d *Document) error {
	if err := checkIndex(a.Index, len(d.Skills)); err != nil {
		return err
	}
	d.Skills[a.Index].Name = a.Name
	return nil
}

// SetSkillLevel changes the level of the skill at Index.
type SetSkillLevel struct {
	Index int
	Level Level
}

func (a SetSkillLevel) apply(d *Document) error {
	if !a.Level.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSkillLevel, a.Level)
	}
	if err := checkIndex(a.Index, len(d.Skills)); err != nil {
		return err
	}
	d.Skills[a.Index].Level = a.Level
	return nil
}

// MoveSkill reorders skills.
type MoveSkill struct {
	From, To int
}

func (a MoveSkill) apply(d *Document) error {
	if err := checkIndex(a.From, len(d.Skills)); err != nil {
		return err
	}
	if err := checkIndex(a.To, len(d.Skills)); err != nil {
		return err
	}
	d.Skills = move(d.Skills, a.From, a.To)
	return nil
}

// ---------------------------------------------------------------------------
// String lists
// ---------------------------------------------------------------------------

// SetList replaces a list section. A single comma-separated item is split.
type SetList struct {
	Section string
	Items   []string
}

func (a SetList) apply(d *Document) error {
	list, err := listField(d, a.Section)
	if err != nil {
		return err
	}
	items := slices.Clone(a.Items)
	if len(items) == 1 && strings.Contains(items[0], ",") {
		items = SplitList(items[0])
	}
	*list = items
	return nil
}

// AddListItem appends one item to a list section.
type AddListItem struct {
	Section string
	Item    string
}

func (a AddListItem) apply(d *Document) error {
	list, err := listField(d, a.Section)
	if err != nil {
		return err
	}
	*list = append(*list, a.Item)
	return nil
}

// RemoveListItem deletes the list item at Index.
type RemoveListItem struct {
	Section string
	Index   int
}

func (a RemoveListItem) apply(d *Document) error {
	list, err := listField(d, a.Section)
	if err != nil {
		return err
	}
	if err := checkIndex(a.Index, len(*list)); err != nil {
		return err
	}
	*list = slices.Delete(*list, a.Index, a.Index+1)
	return nil
}

func listField(d *Document, section string) (*StringList, error) {
	switch section {
	case KeyCertifications:
		return &d.Certifications, nil
	case KeyLanguages:
		return &d.Languages, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotListSection, section)
}

// ---------------------------------------------------------------------------
// Section list
// ---------------------------------------------------------------------------

// EnableSection appends a resolvable key to the section list.
// Enabling an already enabled key is a no-op.
type EnableSection struct {
	Key string
}

func (a EnableSection) apply(d *Document) error {
	if !d.Resolves(a.Key) {
		return &KeyError{Key: a.Key, Err: ErrUnknownSection}
	}
	if !slices.Contains(d.Sections, a.Key) {
		d.Sections = append(d.Sections, a.Key)
	}
	return nil
}

// DisableSection removes a key from the section list. Its content is kept.
type DisableSection struct {
	Key string
}

func (a DisableSection) apply(d *Document) error {
	i := slices.Index(d.Sections, a.Key)
	if i < 0 {
		return nil
	}
	if len(d.Sections) == 1 {
		return ErrLastSection
	}
	d.Sections = slices.Delete(d.Sections, i, i+1)
	return nil
}

// MoveSection reorders the section list.
type MoveSection struct {
	From, To int
}

func (a MoveSection) apply(d *Document) error {
	if err := checkIndex(a.From, len(d.Sections)); err != nil {
		return err
	}
	if err := checkIndex(a.To, len(d.Sections)); err != nil {
		return err
	}
	d.Sections = move(d.Sections, a.From, a.To)
	return nil
}

// ---------------------------------------------------------------------------
// Custom sections
// ---------------------------------------------------------------------------

// AddCustomSection declares a new custom section and enables it.
// Use NewCustomKey to generate Key.
type AddCustomSection struct {
	Key        string
	Label      string
	Structured bool
}

func (a AddCustomSection) apply(d *Document) error {
	switch {
	case a.Key == "":
		return ErrEmptyKey
	case IsBuiltin(a.Key) || reservedKeys[a.Key]:
		return &KeyError{Key: a.Key, Err: ErrReservedKey}
	case d.customIndex(a.Key) >= 0:
		return &KeyError{Key: a.Key, Err: ErrDuplicateCustom}
	}
	d.CustomSections = append(d.CustomSections, CustomSection{Key: a.Key, Label: a.Label})
	if d.Custom == nil {
		d.Custom = map[string]CustomValue{}
	}
	if a.Structured {
		d.Custom[a.Key] = EntriesValue()
	} else {
		d.Custom[a.Key] = TextValue("")
	}
	if !slices.Contains(d.Sections, a.Key) {
		d.Sections = append(d.Sections, a.Key)
	}
	return nil
}

// RenameCustomSection changes the display label. The key is unchanged.
type RenameCustomSection struct {
	Key   string
	Label string
}

func (a RenameCustomSection) apply(d *Document) error {
	i := d.customIndex(a.Key)
	if i < 0 {
		return &KeyError{Key: a.Key, Err: ErrNotCustom}
	}
	d.CustomSections[i].Label = a.Label
	return nil
}

// RemoveCustomSection deletes a custom section, its value, and its entry
// in the section list.
type RemoveCustomSection struct {
	Key string
}

func (a RemoveCustomSection) apply(d *Document) error {
	i := d.customIndex(a.Key)
	if i < 0 {
		return &KeyError{Key: a.Key, Err: ErrNotCustom}
	}
	if j := slices.Index(d.Sections, a.Key); j >= 0 {
		if len(d.Sections) == 1 {
			return ErrLastSection
		}
		d.Sections = slices.Delete(d.Sections, j, j+1)
	}
	d.CustomSections = slices.Delete(d.CustomSections, i, i+1)
	delete(d.Custom, a.Key)
	return nil
}

// SetCustomText sets the text of a simple-mode custom section.
type SetCustomText struct {
	Key  string
	Text string
}

func (a SetCustomText) apply(d *Document) error {
	v, err := customValue(d, a.Key)
	if err != nil {
		return err
	}
	if v.Mode() != ModeSimple {
		return fmt.Errorf("%w: %s is structured", ErrModeMismatch, a.Key)
	}
	d.Custom[a.Key] = TextValue(a.Text)
	return nil
}

// SetCustomMode switches a custom section between simple and structured.
// Text becomes the description of a single entry; entries collapse into
// newline-joined text.
type SetCustomMode struct {
	Key  string
	Mode CustomMode
}

func (a SetCustomMode) apply(d *Document) error {
	v, err := customValue(d, a.Key)
	if err != nil {
		return err
	}
	if v.Mode() == a.Mode {
		return nil
	}
	if a.Mode == ModeStructured {
		if strings.TrimSpace(v.Text) == "" {
			d.Custom[a.Key] = EntriesValue()
		} else {
			d.Custom[a.Key] = EntriesValue(CustomEntry{Description: v.Text})
		}
		return nil
	}
	lines := make([]string, 0, len(v.Entries))
	for _, e := range v.Entries {
		if line := joinNonEmpty(": ", e.Title, e.Description); line != "" {
			lines = append(lines, line)
		}
	}
	d.Custom[a.Key] = TextValue(strings.Join(lines, "\n"))
	return nil
}

func customValue(d *Document, key string) (CustomValue, error) {
	if d.customIndex(key) < 0 {
		if IsBuiltin(key) {
			return CustomValue{}, fmt.Errorf("%w: %s", ErrNotEntrySection, key)
		}
		return CustomValue{}, &KeyError{Key: key, Err: ErrNotCustom}
	}
	if d.Custom == nil {
		d.Custom = map[string]CustomValue{}
	}
	return d.Custom[key], nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type entryOps struct {
	employment func([]Employment) []Employment
	education  func([]Education) []Education
	projects   func([]Project) []Project
	custom     func([]CustomEntry) []CustomEntry
}

func editEntries(d *Document, section string, check func(n int) error, ops entryOps) error {
	switch section {
	case KeyEmployment:
		if err := check(len(d.Employment)); err != nil {
			return err
		}
		d.Employment = ops.employment(d.Employment)
	case KeyEducation:
		if err := check(len(d.Education)); err != nil {
			return err
		}
		d.Education = ops.education(d.Education)
	case KeyProjects:
		if err := check(len(d.Projects)); err != nil {
			return err
		}
		d.Projects = ops.projects(d.Projects)
	default:
		v, err := customValue(d, section)
		if err != nil {
			return err
		}
		if v.Mode() != ModeStructured {
			return fmt.Errorf("%w: %s is simple text", ErrModeMismatch, section)
		}
		if err := check(len(v.Entries)); err != nil {
			return err
		}
		v.Entries = ops.custom(v.Entries)
		d.Custom[section] = v
	}
	return nil
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, n)
	}
	return nil
}

func move[T any](s []T, from, to int) []T {
	if from == to {
		return s
	}
	item := s[from]
	s = slices.Delete(s, from, from+1)
	return slices.Insert(s, to, item)
}

func pick(field string, fields map[string]*string) *string {
	return fields[field]
}
