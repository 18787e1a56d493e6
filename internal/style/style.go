// Package style defines the declarative template descriptors that drive
// both the HTML preview and the DOCX export.
//
// A descriptor is a YAML asset (see internal/assets) decoded into Style and
// checked with go-playground/validator. Colors are six-digit hex without
// "#"; font sizes are points; page dimensions and margins are twips
// (1440 per inch).
package style

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alnah/go-cvkit/internal/dateutil"
	"github.com/alnah/go-cvkit/internal/yamlutil"
)

// ErrInvalidStyle indicates a descriptor that fails validation.
var ErrInvalidStyle = errors.New("invalid template descriptor")

// Layout is the page arrangement of a template.
type Layout string

const (
	LayoutSingle  Layout = "single"
	LayoutSidebar Layout = "sidebar"
	LayoutBanner  Layout = "banner"
)

// Style is one template descriptor.
type Style struct {
	ID         int               `yaml:"id" validate:"min=1,max=99"`
	Name       string            `yaml:"name" validate:"required,max=64"`
	Title      string            `yaml:"title" validate:"required,max=64"`
	Layout     Layout            `yaml:"layout" validate:"oneof=single sidebar banner"`
	DateFormat string            `yaml:"dateFormat" validate:"max=50"`
	Palette    Palette           `yaml:"palette"`
	Fonts      Fonts             `yaml:"fonts"`
	Header     Header            `yaml:"header"`
	Headings   Headings          `yaml:"headings"`
	Sidebar    Sidebar           `yaml:"sidebar"`
	Skills     Skills            `yaml:"skills"`
	Lists      Lists             `yaml:"lists"`
	Entry      Entry             `yaml:"entry"`
	Page       Page              `yaml:"page"`
	Labels     map[string]string `yaml:"labels" validate:"dive,keys,required,endkeys,max=80"`
}

// Palette holds color tokens.
type Palette struct {
	Text              string `yaml:"text" validate:"required,hexadecimal,len=6"`
	Muted             string `yaml:"muted" validate:"required,hexadecimal,len=6"`
	Accent            string `yaml:"accent" validate:"required,hexadecimal,len=6"`
	Heading           string `yaml:"heading" validate:"required,hexadecimal,len=6"`
	Rule              string `yaml:"rule" validate:"required,hexadecimal,len=6"`
	SidebarBackground string `yaml:"sidebarBackground" validate:"omitempty,hexadecimal,len=6"`
	SidebarText       string `yaml:"sidebarText" validate:"omitempty,hexadecimal,len=6"`
	BannerBackground  string `yaml:"bannerBackground" validate:"omitempty,hexadecimal,len=6"`
	BannerText        string `yaml:"bannerText" validate:"omitempty,hexadecimal,len=6"`
	BadgeBackground   string `yaml:"badgeBackground" validate:"required,hexadecimal,len=6"`
	BadgeText         string `yaml:"badgeText" validate:"required,hexadecimal,len=6"`
}

// Fonts holds font families and point sizes.
type Fonts struct {
	Body        string  `yaml:"body" validate:"required,max=64"`
	Heading     string  `yaml:"heading" validate:"required,max=64"`
	Fallback    string  `yaml:"fallback" validate:"oneof=serif sans-serif monospace"`
	Size        float64 `yaml:"size" validate:"gt=0,lte=72"`
	NameSize    float64 `yaml:"nameSize" validate:"gt=0,lte=72"`
	TaglineSize float64 `yaml:"taglineSize" validate:"gt=0,lte=72"`
	HeadingSize float64 `yaml:"headingSize" validate:"gt=0,lte=72"`
	SmallSize   float64 `yaml:"smallSize" validate:"gt=0,lte=72"`
	LineHeight  float64 `yaml:"lineHeight" validate:"gte=1,lte=3"`
}

// Header controls the name block.
type Header struct {
	Align      string `yaml:"align" validate:"oneof=left center"`
	NameCase   string `yaml:"nameCase" validate:"oneof=none upper"`
	Photo      bool   `yaml:"photo"`
	PhotoShape string `yaml:"photoShape" validate:"oneof=circle square"`
	PhotoSize  int    `yaml:"photoSize" validate:"min=0,max=300"` // px
	Icons      bool   `yaml:"icons"`
	Separator  string `yaml:"separator" validate:"max=8"`
}

// Headings controls section titles.
type Headings struct {
	Case          string  `yaml:"case" validate:"oneof=upper title none"`
	Rule          bool    `yaml:"rule"`
	RuleSize      int     `yaml:"ruleSize" validate:"min=0,max=96"` // eighths of a point
	SpacingBefore float64 `yaml:"spacingBefore" validate:"min=0,max=72"`
	SpacingAfter  float64 `yaml:"spacingAfter" validate:"min=0,max=72"`
}

// Sidebar configures the secondary column of sidebar layouts.
type Sidebar struct {
	Side     string   `yaml:"side" validate:"omitempty,oneof=left right"`
	Ratio    int      `yaml:"ratio" validate:"omitempty,min=20,max=50"` // percent of content width
	Padding  float64  `yaml:"padding" validate:"min=0,max=72"`
	Sections []string `yaml:"sections" validate:"dive,required"`
}

// Skills controls the skills section.
type Skills struct {
	Columns int    `yaml:"columns" validate:"min=1,max=4"`
	Levels  bool   `yaml:"levels"`
	Display string `yaml:"display" validate:"oneof=grid tags"`
}

// Lists controls certifications and languages.
type Lists struct {
	Display string `yaml:"display" validate:"oneof=inline bullets"`
}

// Entry controls dated entries.
type Entry struct {
	DatePosition string `yaml:"datePosition" validate:"oneof=right below"`
}

// Page holds the paper size and margins.
type Page struct {
	Size    string  `yaml:"size" validate:"oneof=A4 Letter"`
	Margins Margins `yaml:"margins"`
}

// Margins are in twips.
type Margins struct {
	Top    int `yaml:"top" validate:"min=0,max=4320"`
	Right  int `yaml:"right" validate:"min=0,max=4320"`
	Bottom int `yaml:"bottom" validate:"min=0,max=4320"`
	Left   int `yaml:"left" validate:"min=0,max=4320"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(yamlName)
	return v
}

// Parse decodes and validates a YAML descriptor. Unknown fields are
// rejected.
func Parse(data []byte) (*Style, error) {
	var s Style
	if err := yamlutil.UnmarshalStrict(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStyle, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks field constraints and the rules that span fields.
func (s *Style) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrInvalidStyle, describe(verrs))
		}
		return fmt.Errorf("%w: %v", ErrInvalidStyle, err)
	}

	if s.Layout == LayoutSidebar {
		switch {
		case s.Sidebar.Ratio == 0:
			return fmt.Errorf("%w: sidebar layout requires sidebar.ratio", ErrInvalidStyle)
		case len(s.Sidebar.Sections) == 0:
			return fmt.Errorf("%w: sidebar layout requires sidebar.sections", ErrInvalidStyle)
		case s.Palette.SidebarBackground == "" || s.Palette.SidebarText == "":
			return fmt.Errorf("%w: sidebar layout requires sidebar colors", ErrInvalidStyle)
		}
	}
	if s.Layout == LayoutBanner && (s.Palette.BannerBackground == "" || s.Palette.BannerText == "") {
		return fmt.Errorf("%w: banner layout requires banner colors", ErrInvalidStyle)
	}
	if s.DateFormat != "" {
		if _, err := dateutil.Layout(s.DateFormat); err != nil {
			return fmt.Errorf("%w: dateFormat: %v", ErrInvalidStyle, err)
		}
	}
	return nil
}

func describe(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "Style.palette.accent"; drop the root type.
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		msg := ns + " failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}

// HasSidebar reports whether the template splits content into two columns.
func (s *Style) HasSidebar() bool {
	return s.Layout == LayoutSidebar
}

// InSidebar reports whether a section key belongs to the sidebar column.
func (s *Style) InSidebar(key string) bool {
	if !s.HasSidebar() {
		return false
	}
	for _, k := range s.Sidebar.Sections {
		if k == key {
			return true
		}
	}
	return false
}

// SidebarLeft reports whether the sidebar sits on the left.
func (s *Style) SidebarLeft() bool {
	return s.Sidebar.Side != "right"
}

// MainRatio is the main column share of the content width, in percent.
func (s *Style) MainRatio() int {
	if !s.HasSidebar() {
		return 100
	}
	return 100 - s.Sidebar.Ratio
}

// Label returns the descriptor's override for a section key, or fallback.
func (s *Style) Label(key, fallback string) string {
	if l := strings.TrimSpace(s.Labels[key]); l != "" {
		return l
	}
	return fallback
}

// HeadingText applies the heading case to a section label.
func (s *Style) HeadingText(label string) string {
	switch s.Headings.Case {
	case "upper":
		return strings.ToUpper(label)
	case "title":
		return cases.Title(language.Und, cases.NoLower).String(label)
	}
	return label
}

// NameText applies the header name case.
func (s *Style) NameText(name string) string {
	if s.Header.NameCase == "upper" {
		return strings.ToUpper(name)
	}
	return name
}

// Dates returns the formatter for the descriptor's date format.
func (s *Style) Dates() dateutil.Formatter {
	f, err := dateutil.NewFormatter(s.DateFormat)
	if err != nil {
		return dateutil.Formatter{}
	}
	return f
}

// FontStack renders a CSS font-family value.
func (s *Style) FontStack(family string) string {
	return fmt.Sprintf("%q, %s", family, s.Fonts.Fallback)
}

// Color prefixes a hex token with "#".
func Color(hex string) string {
	if hex == "" {
		return "transparent"
	}
	return "#" + hex
}

// WithPageSize returns a copy using another paper size.
func (s *Style) WithPageSize(size string) (*Style, error) {
	if _, ok := pageSizes[size]; !ok {
		return nil, fmt.Errorf("%w: unknown page size %q", ErrInvalidStyle, size)
	}
	c := *s
	c.Page.Size = size
	return &c, nil
}

// HalfPoints converts points to the half-point unit DOCX uses for sizes.
func HalfPoints(pt float64) int {
	return int(math.Round(pt * 2))
}

// Twips converts points to twentieths of a point.
func Twips(pt float64) int {
	return int(math.Round(pt * 20))
}

// PtToPx converts points to CSS pixels at 96 dpi.
func PtToPx(pt float64) float64 {
	return pt * 96 / 72
}

// TwipsToPx converts twips to CSS pixels at 96 dpi.
func TwipsToPx(tw int) float64 {
	return float64(tw) / 15
}

func yamlName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
	if name == "-" {
		return ""
	}
	return name
}
