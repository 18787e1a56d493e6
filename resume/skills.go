package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Level is a skill proficiency.
type Level string

// Skill levels.
const (
	LevelNone         Level = ""
	LevelBasic        Level = "Basic"
	LevelIntermediate Level = "Intermediate"
	LevelExpert       Level = "Expert"
)

// Valid reports whether l is empty or one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelNone, LevelBasic, LevelIntermediate, LevelExpert:
		return true
	}
	return false
}

// Rank maps a level onto 0..3 for meters and dot ratings.
func (l Level) Rank() int {
	switch l {
	case LevelBasic:
		return 1
	case LevelIntermediate:
		return 2
	case LevelExpert:
		return 3
	}
	return 0
}

// ParseLevel matches a level name case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return LevelNone, nil
	case "basic":
		return LevelBasic, nil
	case "intermediate":
		return LevelIntermediate, nil
	case "expert":
		return LevelExpert, nil
	}
	return LevelNone, fmt.Errorf("%w: %q", ErrInvalidSkillLevel, s)
}

// Skill is a named skill with an optional level.
type Skill struct {
	Name  string `json:"name"`
	Level Level  `json:"level,omitempty"`
}

// SkillList accepts a comma-separated string, a list of strings, a list
// of {name, level} objects, or any mix of the last two.
type SkillList []Skill

// UnmarshalJSON normalizes every accepted shape into a list.
func (s *SkillList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = skillsFromNames(SplitList(text))
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("skills: expected string or list: %w", err)
	}

	out := make(SkillList, 0, len(items))
	for _, raw := range items {
		var name string
		if err := json.Unmarshal(raw, &name); err == nil {
			out = append(out, Skill{Name: name})
			continue
		}
		var obj struct {
			Name  string `json:"name"`
			Level string `json:"level"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return fmt.Errorf("skills: expected string or object: %w", err)
		}
		level, err := ParseLevel(obj.Level)
		if err != nil {
			level = LevelNone
		}
		out = append(out, Skill{Name: obj.Name, Level: level})
	}
	*s = out
	return nil
}

// MarshalJSON writes unleveled skills as plain strings.
func (s SkillList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	items := make([]any, len(s))
	for i, sk := range s {
		if sk.Level == LevelNone {
			items[i] = sk.Name
		} else {
			items[i] = sk
		}
	}
	return json.Marshal(items)
}

// Normalize trims names, drops empty entries, and clears unknown levels.
func (s SkillList) Normalize() []Skill {
	out := make([]Skill, 0, len(s))
	for _, sk := range s {
		name := strings.TrimSpace(sk.Name)
		if name == "" {
			continue
		}
		level := sk.Level
		if !level.Valid() {
			level = LevelNone
		}
		out = append(out, Skill{Name: name, Level: level})
	}
	return out
}

// Labels returns the display names of the normalized skills.
func (s SkillList) Labels() []string {
	norm := s.Normalize()
	labels := make([]string, len(norm))
	for i, sk := range norm {
		labels[i] = sk.Name
	}
	return labels
}

func skillsFromNames(names []string) SkillList {
	out := make(SkillList, len(names))
	for i, n := range names {
		out[i] = Skill{Name: n}
	}
	return out
}

// StringList accepts either a comma-separated string or a list of strings.
type StringList []string

// UnmarshalJSON splits a plain string on commas.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*l = SplitList(text)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = items
	return nil
}

// MarshalJSON always writes a list.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Normalize trims items and drops empty ones.
func (l StringList) Normalize() []string {
	out := make([]string, 0, len(l))
	for _, item := range l {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// SplitList splits a comma-separated string into trimmed, non-empty items.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Columns splits items into n columns of ceil(len/n) items each.
// Trailing columns may be empty; the result always has n columns.
func Columns[T any](items []T, n int) [][]T {
	if n < 1 {
		n = 1
	}
	cols := make([][]T, n)
	per := (len(items) + n - 1) / n
	for i := range cols {
		start := min(i*per, len(items))
		end := min(start+per, len(items))
		cols[i] = items[start:end:end]
	}
	return cols
}
