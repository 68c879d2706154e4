package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/database"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/security"
)

type testClient struct {
	router  *gin.Engine
	cookies []*http.Cookie
}

func setupCatalogRouter(t *testing.T) *testClient {
	return newCatalogClient(t, nil)
}

// newCatalogClient builds a router over a fresh sqlite catalog with audit
// recording on. wrap, when set, decorates the store the service uses.
func newCatalogClient(t *testing.T, wrap func(catalog.Store) catalog.Store) *testClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(database.DriverSQLite, filepath.Join(t.TempDir(), "catalog.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var store catalog.Store = database.NewStore(db.DB)
	if wrap != nil {
		store = wrap(store)
	}
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))

	router := NewRouter(RouterConfig{
		Service:  catalog.NewService(store, auditService),
		Database: db,
		Audit:    auditService,
		Sessions: security.NewMemorySessionManager(security.SessionConfig{Lifetime: time.Hour}),
		Version:  "test",
	})
	return &testClient{router: router}
}

func (tc *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range tc.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	tc.router.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		tc.cookies = cookies
	}
	return w
}

func (tc *testClient) get(path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	return tc.do(req)
}

func (tc *testClient) post(path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return tc.do(req)
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) (string, map[string]any) {
	t.Helper()
	var resp struct {
		Flash string         `json:"flash"`
		Data  map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Flash, resp.Data
}

func (tc *testClient) createAuthor(t *testing.T) string {
	t.Helper()
	w := tc.post("/catalog/author/create", url.Values{
		"first_name":    {"Jane"},
		"family_name":   {"Austen"},
		"date_of_birth": {"1775-12-16"},
		"date_of_death": {"1817-07-18"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	return w.Header().Get("Location")
}

func TestCatalogController_Authors(t *testing.T) {
	t.Run("create redirects to detail with flash", func(t *testing.T) {
		tc := setupCatalogRouter(t)
		location := tc.createAuthor(t)
		assert.True(t, strings.HasPrefix(location, "/catalog/author/"))

		w := tc.get(location)
		require.Equal(t, http.StatusOK, w.Code)
		flash, data := decodePage(t, w)
		assert.Equal(t, "Author created", flash)

		author := data["author"].(map[string]any)
		assert.Equal(t, "Austen, Jane", author["name"])
		assert.Equal(t, "42", author["lifespan"])

		// flash is shown once
		flash, _ = decodePage(t, tc.get(location))
		assert.Empty(t, flash)
	})

	t.Run("invalid submission returns form with errors", func(t *testing.T) {
		tc := setupCatalogRouter(t)
		w := tc.post("/catalog/author/create", url.Values{
			"first_name":  {""},
			"family_name": {"Austen"},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		_, data := decodePage(t, w)
		assert.Equal(t, "Correct Errors In Author Creation", data["title"])
		errs := data["errors"].([]any)
		require.Len(t, errs, 1)
		assert.Equal(t, "first_name", errs[0].(map[string]any)["field"])
	})

	t.Run("unknown author is 404", func(t *testing.T) {
		tc := setupCatalogRouter(t)
		assert.Equal(t, http.StatusNotFound, tc.get("/catalog/author/missing").Code)
		assert.Equal(t, http.StatusNotFound, tc.get("/catalog/author/missing/update").Code)
		assert.Equal(t, http.StatusNotFound, tc.post("/catalog/author/missing/update", url.Values{"first_name": {"X"}}).Code)
	})

	t.Run("update keeps unsubmitted fields", func(t *testing.T) {
		tc := setupCatalogRouter(t)
		location := tc.createAuthor(t)

		w := tc.post(location+"/update", url.Values{
			"first_name":  {"Cassandra"},
			"family_name": {"Austen"},
		})
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, location, w.Header().Get("Location"))

		_, data := decodePage(t, tc.get(location))
		author := data["author"].(map[string]any)
		assert.Equal(t, "Austen, Cassandra", author["name"])
		assert.Equal(t, "1775-12-16", author["date_of_birth_picker"])
	})
}

func TestCatalogController_DeleteFlow(t *testing.T) {
	tc := setupCatalogRouter(t)
	authorURL := tc.createAuthor(t)
	authorID := strings.TrimPrefix(authorURL, "/catalog/author/")

	w := tc.post("/catalog/genre/create", url.Values{"name": {"Fiction"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	genreID := strings.TrimPrefix(w.Header().Get("Location"), "/catalog/genre/")

	w = tc.post("/catalog/book/create", url.Values{
		"title":   {"Emma"},
		"author":  {authorID},
		"summary": {"A novel"},
		"isbn":    {"9780141439587"},
		"genre":   {genreID},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	bookURL := w.Header().Get("Location")

	t.Run("author with books is blocked", func(t *testing.T) {
		w := tc.post(authorURL+"/delete", url.Values{"authorid": {authorID}})
		assert.Equal(t, http.StatusConflict, w.Code)

		_, data := decodePage(t, w)
		assert.Equal(t, true, data["blocked"])
		books := data["dependents"].(map[string]any)["books"].([]any)
		assert.Len(t, books, 1)

		assert.Equal(t, http.StatusOK, tc.get(authorURL).Code)
	})

	t.Run("delete form lists dependents", func(t *testing.T) {
		w := tc.get(authorURL + "/delete")
		require.Equal(t, http.StatusOK, w.Code)
		_, data := decodePage(t, w)
		assert.Equal(t, "Delete Author:", data["title"])
	})

	t.Run("book then author can be deleted", func(t *testing.T) {
		w := tc.post(bookURL+"/delete", url.Values{})
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/catalog/books", w.Header().Get("Location"))

		w = tc.post(authorURL+"/delete", url.Values{"authorid": {authorID}})
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/catalog/authors", w.Header().Get("Location"))

		assert.Equal(t, http.StatusNotFound, tc.get(authorURL).Code)
	})

	t.Run("delete form of missing record redirects to list", func(t *testing.T) {
		w := tc.get(authorURL + "/delete")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/catalog/authors", w.Header().Get("Location"))
	})
}

func TestCatalogController_Home(t *testing.T) {
	tc := setupCatalogRouter(t)
	tc.createAuthor(t)

	w := tc.get("/catalog/")
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodePage(t, w)
	assert.Equal(t, float64(1), data["author_count"])
	assert.Equal(t, float64(0), data["book_count"])

	w = tc.get("/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/catalog/", w.Header().Get("Location"))
}

func TestCatalogController_CSRF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := database.NewDatabase(database.DriverSQLite, filepath.Join(t.TempDir(), "catalog.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	router := NewRouter(RouterConfig{
		Service:    catalog.NewService(database.NewStore(db.DB), nil),
		Database:   db,
		CSRFSecret: []byte("test-secret-key-32-bytes-long!!!"),
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/catalog/genre/create", strings.NewReader("name=Fiction"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/catalog/genres", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(security.CSRFTokenHeader))
}

func TestAuditController(t *testing.T) {
	tc := setupCatalogRouter(t)
	authorURL := tc.createAuthor(t)
	authorID := strings.TrimPrefix(authorURL, "/catalog/author/")

	w := tc.post(authorURL+"/update", url.Values{
		"first_name":  {"Cassandra"},
		"family_name": {"Austen"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, http.StatusSeeOther, tc.post("/catalog/genre/create", url.Values{"name": {"Fiction"}}).Code)

	t.Run("audit log is paginated", func(t *testing.T) {
		w := tc.get("/catalog/audit?limit=2")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Events      []entities.AuditEvent `json:"events"`
			Page        int                   `json:"page"`
			Limit       int                   `json:"limit"`
			TotalPages  int                   `json:"total_pages"`
			TotalEvents int64                 `json:"total_events"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(3), resp.TotalEvents)
		assert.Equal(t, 2, resp.TotalPages)
		assert.Equal(t, 1, resp.Page)
		assert.Len(t, resp.Events, 2)

		w = tc.get("/catalog/audit?page=2&limit=2")
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Page)
		assert.Len(t, resp.Events, 1)
	})

	t.Run("out of range limit falls back to default", func(t *testing.T) {
		w := tc.get("/catalog/audit?limit=1000&page=0")
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(25), resp["limit"])
		assert.Equal(t, float64(1), resp["page"])
	})

	t.Run("history lists the events of one record", func(t *testing.T) {
		w := tc.get(authorURL + "/history")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Kind   string                `json:"kind"`
			ID     string                `json:"id"`
			Events []entities.AuditEvent `json:"events"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "author", resp.Kind)
		assert.Equal(t, authorID, resp.ID)
		require.Len(t, resp.Events, 2)
		assert.Equal(t, entities.AuditEventCreate, resp.Events[0].EventType)
		assert.Equal(t, entities.AuditEventUpdate, resp.Events[1].EventType)
		for _, e := range resp.Events {
			assert.Equal(t, authorID, e.EntityID)
		}
	})

	t.Run("history of unknown record is empty", func(t *testing.T) {
		w := tc.get("/catalog/book/missing/history")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"events":[]`)
	})
}

var errDiskFull = errors.New("database or disk is full: /var/lib/library/catalog.db")

type failingStore struct {
	catalog.Store
}

func (s failingStore) Genres() catalog.GenreStore {
	return failingGenres{s.Store.Genres()}
}

func (s failingStore) Books() catalog.BookStore {
	return failingBooks{s.Store.Books()}
}

func (s failingStore) Atomic(ctx context.Context, fn func(catalog.Store) error) error {
	return s.Store.Atomic(ctx, func(tx catalog.Store) error {
		return fn(failingStore{tx})
	})
}

type failingGenres struct {
	catalog.GenreStore
}

func (failingGenres) ListGenres(context.Context) ([]entities.Genre, error) {
	return nil, errDiskFull
}

type failingBooks struct {
	catalog.BookStore
}

func (failingBooks) CreateBook(context.Context, *entities.Book) error {
	return errDiskFull
}

func TestCatalogController_StoreFailure(t *testing.T) {
	tc := newCatalogClient(t, func(s catalog.Store) catalog.Store { return failingStore{s} })
	authorURL := tc.createAuthor(t)

	assertInternalError := func(t *testing.T, w *httptest.ResponseRecorder) {
		t.Helper()
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
		assert.NotContains(t, w.Body.String(), "disk is full")
	}

	t.Run("list", func(t *testing.T) {
		assertInternalError(t, tc.get("/catalog/genres"))
	})

	t.Run("create", func(t *testing.T) {
		w := tc.post("/catalog/book/create", url.Values{
			"title":   {"Emma"},
			"author":  {strings.TrimPrefix(authorURL, "/catalog/author/")},
			"summary": {"A novel"},
			"isbn":    {"9780141439587"},
		})
		assertInternalError(t, w)

		_, data := decodePage(t, tc.get("/catalog/"))
		assert.Equal(t, float64(0), data["book_count"])
	})
}
