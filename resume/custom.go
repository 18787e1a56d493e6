package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// customKeyPrefix marks generated custom section keys.
const customKeyPrefix = "custom-"

// NewCustomKey generates a unique, immutable custom section key.
func NewCustomKey() string {
	return customKeyPrefix + uuid.NewString()
}

// CustomSection declares a user-defined section.
// Key never changes once created; Label is display text only.
type CustomSection struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// CustomMode tells how a custom section's value is shaped.
type CustomMode int

const (
	// ModeSimple holds a single free-text value.
	ModeSimple CustomMode = iota
	// ModeStructured holds an ordered list of entries.
	ModeStructured
)

func (m CustomMode) String() string {
	if m == ModeStructured {
		return "structured"
	}
	return "simple"
}

// CustomEntry is one row of a structured custom section.
type CustomEntry struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Subtitle    string `json:"subtitle"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// IsZero reports whether every field is blank.
func (e CustomEntry) IsZero() bool {
	return isBlank(e.Title, e.Date, e.Subtitle, e.Location, e.Description)
}

// CustomValue is the backing value of a custom section: either a plain
// string or a list of entries. The JSON shape selects the mode.
type CustomValue struct {
	Text    string
	Entries []CustomEntry

	structured bool
}

// TextValue builds a simple-mode value.
func TextValue(text string) CustomValue {
	return CustomValue{Text: text}
}

// EntriesValue builds a structured-mode value.
func EntriesValue(entries ...CustomEntry) CustomValue {
	return CustomValue{Entries: entries, structured: true}
}

// Mode returns the active mode.
func (v CustomValue) Mode() CustomMode {
	if v.structured {
		return ModeStructured
	}
	return ModeSimple
}

// UnmarshalJSON detects the mode from the JSON shape.
func (v *CustomValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*v = CustomValue{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var entries []CustomEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("custom section entries: %w", err)
		}
		*v = EntriesValue(entries...)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("custom section: expected string or list: %w", err)
	}
	v.Text = text
	return nil
}

// MarshalJSON writes a string in simple mode and a list in structured mode.
func (v CustomValue) MarshalJSON() ([]byte, error) {
	if v.structured {
		if v.Entries == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Entries)
	}
	return json.Marshal(v.Text)
}

// Populated reports whether the value would produce any output.
func (v CustomValue) Populated() bool {
	if !v.structured {
		return strings.TrimSpace(v.Text) != ""
	}
	return slices.ContainsFunc(v.Entries, func(e CustomEntry) bool {
		return !isBlank(e.Title, e.Description)
	})
}

func (v CustomValue) clone() CustomValue {
	c := v
	c.Entries = slices.Clone(v.Entries)
	return c
}

func isBlank(values ...string) bool {
	for _, s := range values {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}
