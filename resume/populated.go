package resume

import (
	"strings"
	"unicode/utf8"
)

// bulletGlyphs are stripped from the start of description lines.
const bulletGlyphs = "•·-*–—▪●◦‣"

// Populated reports whether the section behind key has enough data to
// produce output. Unknown keys are never populated.
func (d Document) Populated(key string) bool {
	switch key {
	case KeySummary:
		return strings.TrimSpace(d.Summary) != ""
	case KeyEmployment:
		return len(d.Employment) > 0 && strings.TrimSpace(d.Employment[0].JobTitle) != ""
	case KeyEducation:
		return len(d.Education) > 0 && !isBlank(d.Education[0].School, d.Education[0].Degree)
	case KeyProjects:
		return len(d.Projects) > 0 && strings.TrimSpace(d.Projects[0].Title) != ""
	case KeySkills:
		return len(d.Skills.Normalize()) > 0
	case KeyCertifications:
		return len(d.Certifications.Normalize()) > 0
	case KeyLanguages:
		return len(d.Languages.Normalize()) > 0
	}
	if _, ok := d.CustomSection(key); !ok {
		return false
	}
	return d.Custom[key].Populated()
}

// VisibleSections returns the enabled, resolvable, populated section keys
// in display order. Both renderers iterate this list.
func (d Document) VisibleSections() []string {
	out := make([]string, 0, len(d.Sections))
	seen := make(map[string]bool, len(d.Sections))
	for _, key := range d.Sections {
		if seen[key] || !d.Resolves(key) {
			continue
		}
		seen[key] = true
		if d.Populated(key) {
			out = append(out, key)
		}
	}
	return out
}

// DateRange joins start and end with " - ", omitting the separator when
// either side is missing.
func DateRange(start, end string) string {
	return joinNonEmpty(" - ", start, end)
}

// BulletLines splits a multi-line description into bullet texts.
// Leading bullet glyphs and whitespace are stripped and blank lines dropped.
func BulletLines(desc string) []string {
	lines := strings.Split(strings.ReplaceAll(desc, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = stripBullet(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// stripBullet removes leading glyphs and whitespace. ASCII markers only
// count when followed by a space so that inline emphasis survives.
func stripBullet(line string) string {
	for {
		line = strings.TrimSpace(line)
		if line == "" {
			return ""
		}
		r, size := utf8.DecodeRuneInString(line)
		switch {
		case r == '-' || r == '*':
			rest := line[size:]
			if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
				return line
			}
		case strings.ContainsRune(bulletGlyphs, r):
		default:
			return line
		}
		line = line[size:]
	}
}

// IsZero reports whether every field of the entry is blank.
func (e Employment) IsZero() bool {
	return isBlank(e.JobTitle, e.Company, e.Start, e.End, e.Location, e.Description)
}

// IsZero reports whether every field of the entry is blank.
func (e Education) IsZero() bool {
	return isBlank(e.Degree, e.School, e.Start, e.End, e.Location, e.Description)
}

// IsZero reports whether every field of the entry is blank.
func (p Project) IsZero() bool {
	return isBlank(p.Title, p.Link, p.Start, p.End, p.Location, p.Description)
}
