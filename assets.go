package cvkit

import (
	"errors"
	"fmt"

	"github.com/alnah/go-cvkit/internal/assets"
	"github.com/alnah/go-cvkit/internal/style"
)

// DefaultTemplate is the template used when none is requested.
const DefaultTemplate = style.DefaultTemplate

// newAssetLoader resolves assets from basePath with fallback to the
// embedded defaults. An empty basePath uses embedded assets only.
//
// The basePath directory may contain:
//   - templates/{name}.yaml for template descriptors
//   - styles/base.css for the page stylesheet
//   - shells/page.html for the page shell
func newAssetLoader(basePath string) (assets.AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return resolver, nil
}

// ValidateAssetPath reports whether path is usable as a custom asset
// directory.
func ValidateAssetPath(path string) error {
	_, err := newAssetLoader(path)
	return err
}

// convertAssetError maps internal asset errors to public ones.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, assets.ErrInvalidBasePath) || errors.Is(err, assets.ErrPathTraversal) {
		return fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	if errors.Is(err, assets.ErrTemplateNotFound) {
		return fmt.Errorf("%w: %v", ErrUnknownTemplate, err)
	}
	return err
}

// Templates lists the available templates ordered by id.
func (c *Converter) Templates() ([]Template, error) {
	styles, err := c.catalog.All()
	if err != nil {
		return nil, convertAssetError(err)
	}
	out := make([]Template, 0, len(styles))
	for _, s := range styles {
		s, err := c.sized(s)
		if err != nil {
			return nil, err
		}
		out = append(out, templateInfo(s))
	}
	return out, nil
}

// template resolves ref by name or id and applies the page size override.
func (c *Converter) template(ref string) (*style.Style, error) {
	s, err := c.catalog.Get(ref)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return c.sized(s)
}

func (c *Converter) sized(s *style.Style) (*style.Style, error) {
	if c.cfg.pageSize == "" || c.cfg.pageSize == s.Page.Size {
		return s, nil
	}
	sized, err := s.WithPageSize(c.cfg.pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPageSize, err)
	}
	return sized, nil
}

func templateInfo(s *style.Style) Template {
	return Template{
		ID:       s.ID,
		Name:     s.Name,
		Title:    s.Title,
		Layout:   string(s.Layout),
		PageSize: s.Page.Size,
	}
}
