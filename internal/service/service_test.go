package service_test

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/soyummy/backend/internal/models"
	"github.com/pageza/soyummy/backend/internal/service"
	"github.com/pageza/soyummy/backend/internal/testhelpers"
)

type fixture struct {
	db         *gorm.DB
	catalog    *testhelpers.Catalog
	images     *testhelpers.MockImageStore
	catalogSvc *service.CatalogService
	recipes    *service.RecipeService
	favorites  *service.FavoriteService
	popularity *service.PopularityService
	alice      *models.User
	bob        *models.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	f := &fixture{
		db:      db,
		catalog: testhelpers.SeedCatalog(t, db),
		images:  &testhelpers.MockImageStore{},
		alice:   testhelpers.CreateTestUser(t, db, "alice"),
		bob:     testhelpers.CreateTestUser(t, db, "bob"),
	}
	f.catalogSvc = service.NewCatalogService(db, nil, time.Minute)
	f.recipes = service.NewRecipeService(db, f.catalogSvc, f.images)
	f.favorites = service.NewFavoriteService(db, f.recipes)
	f.popularity = service.NewPopularityService(db, f.recipes)
	return f
}

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func (f *fixture) recipe(t *testing.T, title string, cat models.Category, area models.Area, owner *models.User, age int, ings ...models.Ingredient) *models.Recipe {
	return testhelpers.CreateTestRecipe(t, f.db, testhelpers.RecipeFixture{
		Title:       title,
		Category:    cat,
		Area:        area,
		Owner:       owner,
		Ingredients: ings,
		CreatedAt:   epoch.Add(-time.Duration(age) * time.Hour),
	})
}

func titles(rows []models.Recipe) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Title
	}
	return out
}
