package recipe

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorax-tracker/internal/cycle"
)

const recipePage = `<html><head><title>page</title></head><body>
<h1 itemprop="name">Golden Lentil Soup</h1>
<span itemprop="prepTime">40 minutes</span>
<ul>
  <li itemprop="recipeIngredient">1 cup red lentils</li>
  <li itemprop="recipeIngredient">1 carrot</li>
</ul>
<div itemprop="recipeInstructions">
  <li>Rinse the lentils.</li>
  <li>Simmer everything for 30 minutes.</li>
</div>
</body></html>`

func TestImporterWritesAndReloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(recipePage))
	}))
	defer srv.Close()

	cat := NewCatalog(t.TempDir())
	im := NewImporter(cat)

	rec, err := im.Import(srv.URL, cycle.Nurture, []string{"dinner"})
	require.NoError(t, err)

	assert.Equal(t, "golden-lentil-soup", rec.ID)
	assert.Equal(t, "Golden Lentil Soup", rec.Title)
	assert.Equal(t, cycle.Nurture, rec.Phase)
	assert.Equal(t, 40, rec.PrepMinutes)
	assert.Equal(t, []string{"1 cup red lentils", "1 carrot"}, rec.Ingredients)
	assert.Len(t, rec.Instructions, 2)
	assert.Equal(t, srv.URL, rec.URL)

	// The import is visible through normal catalog lookups.
	assert.Len(t, cat.ByMealType(cycle.Nurture, Dinner), 1)
}

func TestImporterRejectsPagesWithoutRecipe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>nothing here</p></body></html>"))
	}))
	defer srv.Close()

	im := NewImporter(NewCatalog(t.TempDir()))
	_, err := im.Import(srv.URL, cycle.Power, nil)
	assert.Error(t, err)
}

func TestImporterPropagatesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	im := NewImporter(NewCatalog(t.TempDir()))
	_, err := im.Import(srv.URL, cycle.Power, nil)
	assert.ErrorContains(t, err, "status 404")
}
