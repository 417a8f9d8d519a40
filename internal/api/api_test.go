package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/soyummy/backend/internal/api"
	"github.com/pageza/soyummy/backend/internal/models"
	"github.com/pageza/soyummy/backend/internal/router"
	"github.com/pageza/soyummy/backend/internal/service"
	"github.com/pageza/soyummy/backend/internal/testhelpers"
)

type testEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	auth    *service.AuthService
	images  *testhelpers.MockImageStore
	catalog *testhelpers.Catalog
	alice   *models.User
	bob     *models.User
}

func setupAPI(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, api.RegisterValidators())

	db := testhelpers.SetupTestDB(t)
	env := &testEnv{
		db:      db,
		images:  &testhelpers.MockImageStore{},
		catalog: testhelpers.SeedCatalog(t, db),
		alice:   testhelpers.CreateTestUser(t, db, "alice"),
		bob:     testhelpers.CreateTestUser(t, db, "bob"),
	}
	env.auth = service.NewAuthService(db, "test-secret", time.Hour)

	catalog := service.NewCatalogService(db, nil, time.Minute)
	recipes := service.NewRecipeService(db, catalog, env.images)
	favorites := service.NewFavoriteService(db, recipes)
	popularity := service.NewPopularityService(db, recipes)
	users := service.NewUserService(db, recipes, favorites, env.images)

	env.router = router.SetupRouter(router.Handlers{
		Recipes:      api.NewRecipeHandler(recipes, favorites, popularity, env.auth, api.RecipeHandlerOptions{MaxUploadSize: 1 << 10}),
		Catalog:      api.NewCatalogHandler(catalog),
		Testimonials: api.NewTestimonialHandler(service.NewTestimonialService(db)),
		Users:        api.NewUserHandler(env.auth, users, 1<<10),
		Health:       api.NewHealthHandler(db),
	}, nil)
	return env
}

// token signs user in and returns a bearer token.
func (e *testEnv) token(t *testing.T, user *models.User) string {
	t.Helper()
	_, token, err := e.auth.Login(context.Background(), user.Email, testhelpers.TestPassword)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return e.do(t, method, path, token, body, "application/json")
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

// multipartBody builds a form with fields and one file part.
func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (io.Reader, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	var body struct {
		Message string `json:"message"`
	}
	decode(t, w, &body)
	return body.Message
}
