package recipe

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"lorax-tracker/internal/cycle"
)

// templateFileName is the authoring template shipped with the catalog;
// it is never a real recipe.
const templateFileName = "TEMPLATE_RECIPE.md"

// Catalog is an in-memory view of the markdown recipe directory. Loads
// are whole-directory; lookups are served from the cached snapshot.
type Catalog struct {
	root string

	mu      sync.RWMutex
	byPhase map[cycle.FunctionalPhase][]Recipe
	byID    map[string]Recipe
}

// NewCatalog creates a catalog rooted at dir. Call Load before use.
func NewCatalog(dir string) *Catalog {
	return &Catalog{
		root:    dir,
		byPhase: make(map[cycle.FunctionalPhase][]Recipe),
		byID:    make(map[string]Recipe),
	}
}

// Load walks the catalog directory and parses every markdown recipe.
// Files that fail to parse are logged and skipped so one bad recipe
// cannot take the catalog down. Returns the number of recipes loaded.
func (c *Catalog) Load() (int, error) {
	byPhase := make(map[cycle.FunctionalPhase][]Recipe)
	byID := make(map[string]Recipe)

	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		if d.Name() == templateFileName {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			log.Printf("recipe catalog: skipping %s: %v", path, err)
			return nil
		}
		rec, perr := Parse(f, path)
		f.Close()
		if perr != nil {
			log.Printf("recipe catalog: skipping %s: %v", path, perr)
			return nil
		}
		if rec.Phase == "" {
			log.Printf("recipe catalog: skipping %s: not under a phase directory", path)
			return nil
		}

		byPhase[rec.Phase] = append(byPhase[rec.Phase], rec)
		byID[rec.ID] = rec
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("load recipe catalog from %s: %w", c.root, err)
	}

	c.mu.Lock()
	c.byPhase = byPhase
	c.byID = byID
	c.mu.Unlock()
	return len(byID), nil
}

// ByPhase returns the recipes for a functional phase.
func (c *Catalog) ByPhase(phase cycle.FunctionalPhase) []Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Recipe, len(c.byPhase[phase]))
	copy(out, c.byPhase[phase])
	return out
}

// ByMealType returns the phase's recipes that can fill the given meal
// slot.
func (c *Catalog) ByMealType(phase cycle.FunctionalPhase, meal MealType) []Recipe {
	var out []Recipe
	for _, r := range c.ByPhase(phase) {
		if r.HasTag(string(meal)) {
			out = append(out, r)
		}
	}
	return out
}

// ByID looks a recipe up by its identifier.
func (c *Catalog) ByID(id string) (Recipe, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.byID[id]
	return r, ok
}

// Len returns the number of loaded recipes.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// Root returns the catalog's base directory.
func (c *Catalog) Root() string {
	return c.root
}
