package recipe

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"lorax-tracker/internal/cycle"
)

// Importer fetches a recipe page and writes it into the catalog as a
// markdown file under the given phase directory.
type Importer struct {
	catalog *Catalog
	client  *http.Client
}

// NewImporter creates an importer writing into the catalog's directory.
func NewImporter(catalog *Catalog) *Importer {
	return &Importer{
		catalog: catalog,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Import fetches the URL, extracts the recipe structure from the page,
// writes it as markdown under the phase directory, and reloads the
// catalog. It returns the stored recipe.
func (im *Importer) Import(url string, phase cycle.FunctionalPhase, tags []string) (Recipe, error) {
	resp, err := im.client.Get(url)
	if err != nil {
		return Recipe{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Recipe{}, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Recipe{}, fmt.Errorf("parse %s: %w", url, err)
	}

	extracted := extract(doc)
	if extracted.Title == "" {
		return Recipe{}, fmt.Errorf("no recipe title found at %s", url)
	}
	if len(extracted.Ingredients) == 0 {
		return Recipe{}, fmt.Errorf("no ingredients found at %s", url)
	}

	path := filepath.Join(im.catalog.Root(), string(phase), slugify(extracted.Title)+".md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Recipe{}, fmt.Errorf("create phase directory: %w", err)
	}
	content := renderMarkdown(extracted, url, tags)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return Recipe{}, fmt.Errorf("write recipe file: %w", err)
	}

	if _, err := im.catalog.Load(); err != nil {
		return Recipe{}, err
	}
	rec, ok := im.catalog.ByID(slugify(extracted.Title))
	if !ok {
		return Recipe{}, fmt.Errorf("imported recipe did not parse back from %s", path)
	}
	return rec, nil
}

// extractedRecipe is the raw structure pulled out of a recipe page.
type extractedRecipe struct {
	Title        string
	Ingredients  []string
	Instructions []string
	PrepTime     string
}

// extract pulls recipe fields from the document, preferring schema.org
// microdata and falling back to common class-name heuristics.
func extract(doc *goquery.Document) extractedRecipe {
	var out extractedRecipe

	out.Title = firstText(doc,
		`[itemprop="name"]`,
		`h1.recipe-title`,
		`h1`,
	)
	if out.Title == "" {
		if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
			out.Title = strings.TrimSpace(og)
		}
	}

	out.Ingredients = allTexts(doc,
		`[itemprop="recipeIngredient"]`,
		`[itemprop="ingredients"]`,
		`.recipe-ingredients li`,
		`.ingredients li`,
	)
	out.Instructions = allTexts(doc,
		`[itemprop="recipeInstructions"] li`,
		`[itemprop="recipeInstructions"]`,
		`.recipe-instructions li`,
		`.instructions li`,
	)
	out.PrepTime = firstText(doc,
		`[itemprop="prepTime"]`,
		`.prep-time`,
	)
	return out
}

func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func allTexts(doc *goquery.Document, selectors ...string) []string {
	for _, sel := range selectors {
		var out []string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				out = append(out, text)
			}
		})
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func renderMarkdown(r extractedRecipe, url string, tags []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	fmt.Fprintf(&b, "URL: %s\n\n", url)
	if r.PrepTime != "" {
		fmt.Fprintf(&b, "## Prep Time\n%s\n\n", r.PrepTime)
	}
	if len(tags) > 0 {
		b.WriteString("## Tags\n")
		for _, t := range tags {
			fmt.Fprintf(&b, "- %s\n", strings.ToLower(t))
		}
		b.WriteString("\n")
	}
	b.WriteString("## Ingredients\n")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&b, "- %s\n", ing)
	}
	b.WriteString("\n## Instructions\n")
	for i, step := range r.Instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	return b.String()
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
