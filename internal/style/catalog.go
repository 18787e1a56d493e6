package style

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/alnah/go-cvkit/internal/assets"
)

// ErrUnknownTemplate indicates a template reference that matches no
// descriptor by name or id.
var ErrUnknownTemplate = errors.New("unknown template")

// DefaultTemplate is used when no template is requested.
const DefaultTemplate = "classic"

// Catalog loads descriptors from an asset loader and caches them.
// Safe for concurrent use.
type Catalog struct {
	loader assets.AssetLoader

	mu    sync.Mutex
	cache map[string]*Style
}

// NewCatalog creates a Catalog reading from loader.
func NewCatalog(loader assets.AssetLoader) *Catalog {
	return &Catalog{loader: loader, cache: make(map[string]*Style)}
}

// Get resolves a template by name ("sidebar") or numeric id ("5").
// An empty reference selects DefaultTemplate.
func (c *Catalog) Get(ref string) (*Style, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		ref = DefaultTemplate
	}
	if id, err := strconv.Atoi(ref); err == nil {
		return c.byID(id)
	}
	return c.byName(ref)
}

// All returns every descriptor ordered by id.
func (c *Catalog) All() ([]*Style, error) {
	names, err := c.loader.List(assets.KindTemplate)
	if err != nil {
		return nil, err
	}
	styles := make([]*Style, 0, len(names))
	for _, name := range names {
		s, err := c.byName(name)
		if err != nil {
			return nil, err
		}
		styles = append(styles, s)
	}
	slices.SortStableFunc(styles, func(a, b *Style) int {
		if a.ID != b.ID {
			return a.ID - b.ID
		}
		return strings.Compare(a.Name, b.Name)
	})
	return styles, nil
}

func (c *Catalog) byID(id int) (*Style, error) {
	all, err := c.All()
	if err != nil {
		return nil, err
	}
	for _, s := range all {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrUnknownTemplate, id)
}

func (c *Catalog) byName(name string) (*Style, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.cache[name]; ok {
		return s, nil
	}
	data, err := c.loader.Load(assets.KindTemplate, name)
	if err != nil {
		if assets.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
		}
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}
	if s.Name != name {
		return nil, fmt.Errorf("%w: template %q declares name %q", ErrInvalidStyle, name, s.Name)
	}
	c.cache[name] = s
	return s, nil
}
