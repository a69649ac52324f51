package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parm-catalog/config"
	"parm-catalog/internal/catalog"
	"parm-catalog/internal/mw"
	"parm-catalog/internal/session"
	"parm-catalog/internal/shell"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeReservations struct{}

func (fakeReservations) FetchReservations(_ context.Context, assetID int64) ([]catalog.Reservation, error) {
	start := time.Date(2024, time.July, 14, 9, 0, 0, 0, time.UTC)
	return []catalog.Reservation{{User: "Olivia Martin", StartDate: start, EndDate: start.Add(26 * time.Hour)}}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			RateLimitPerSec: 1000,
			RateLimitBurst:  1000,
			CacheTTL:        time.Minute,
			SessionTTL:      time.Minute,
		},
		Images: config.ImagesConfig{
			StorageRootPrefix: "/data/file_attachments/",
			WebPathPrefix:     "/images/",
		},
	}
}

func testCatalog() *catalog.Catalog {
	tree := catalog.Tree{
		{ID: 1, Name: "Laptops", Children: []catalog.Category{{ID: 2, Name: "Gaming"}}},
		{ID: 3, Name: "Audio"},
	}
	assets := []catalog.Asset{
		{ID: 3, ModelName: "ThinkPad", ManufacturerName: "Lenovo", CategoryID: 1, SmallImagePath: "/data/file_attachments/tp.jpg"},
		{ID: 7, ModelName: "Blade", CategoryID: 2, LargeImagePath: "/data/file_attachments/blade_large.jpg"},
		{ID: 9, ModelName: "SM7B", ManufacturerName: "Shure", CategoryID: 3},
	}
	return catalog.New(tree, assets)
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := testConfig()
	cat := testCatalog()
	images := catalog.ImageResolver{StorageRootPrefix: cfg.Images.StorageRootPrefix, WebPathPrefix: cfg.Images.WebPathPrefix}
	sessions := session.NewRegistry(time.Minute, func() *shell.AppShell {
		return shell.New(cat, fakeReservations{}, shell.WithImages(images))
	}, nil)
	return NewRouter(cfg, nil, cat, sessions, fakeReservations{}, nil)
}

// client replays the session cookie the way a browser would.
type client struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func (c *client) do(method, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == mw.SessionCookie {
			c.cookie = ck
		}
	}
	return w
}

func (c *client) state() shell.Snapshot {
	c.t.Helper()
	w := c.do(http.MethodGet, "/api/state", "", nil)
	require.Equal(c.t, http.StatusOK, w.Code)
	var snap shell.Snapshot
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func boxIDs(snap shell.Snapshot) []int64 {
	ids := make([]int64, 0, len(snap.Boxes))
	for _, b := range snap.Boxes {
		ids = append(ids, b.Asset.ID)
	}
	return ids
}

var (
	formHeaders = map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
	jsonHeaders = map[string]string{"Content-Type": "application/json", "Accept": "application/json"}
)

func TestRoot_Redirects(t *testing.T) {
	c := &client{t: t, router: setupRouter(t)}
	w := c.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/catalog", w.Header().Get("Location"))
}

func TestCatalogPage(t *testing.T) {
	c := &client{t: t, router: setupRouter(t)}

	w := c.do(http.MethodGet, "/catalog", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, c.cookie, "a session cookie is issued")

	body := w.Body.String()
	assert.Contains(t, body, "Select Category")
	assert.Contains(t, body, `<option value="2">`+strings.Repeat("\u00a0", 5)+"Gaming</option>")
	assert.Contains(t, body, `src="/images/tp.jpg"`)
	assert.Contains(t, body, "<p>Unknown</p>")
	assert.Contains(t, body, "no current reservations")
	assert.Contains(t, body, `data-version="0"`)

	c.do(http.MethodPost, "/catalog/category", url.Values{"category": {"2"}}.Encode(), formHeaders)
	assert.Contains(t, c.do(http.MethodGet, "/catalog", "", nil).Body.String(), `data-version="1"`)
}

func TestIntentFlow_HTMLForms(t *testing.T) {
	c := &client{t: t, router: setupRouter(t)}
	c.do(http.MethodGet, "/catalog", "", nil)

	w := c.do(http.MethodPost, "/catalog/category", url.Values{"category": {"2"}}.Encode(), formHeaders)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/catalog", w.Header().Get("Location"))

	snap := c.state()
	assert.Equal(t, "2", snap.Selection.CategoryID)
	assert.Equal(t, []int64{7}, boxIDs(snap))

	w = c.do(http.MethodPost, "/catalog/assets/7/click", "", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	page := c.do(http.MethodGet, "/catalog", "", nil).Body.String()
	assert.Contains(t, page, `<p id="model-name">Blade</p>`)
	assert.Contains(t, page, `<p id="manufacturer-name">Unknown</p>`)
	assert.Contains(t, page, `src="/images/blade_large.jpg"`)
	assert.Contains(t, page, "Olivia Martin")
	assert.Contains(t, page, `<div class="month">Jul</div>`)

	w = c.do(http.MethodPost, "/catalog/category", url.Values{"category": {""}}.Encode(), formHeaders)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	snap = c.state()
	assert.Equal(t, "", snap.Selection.CategoryID)
	assert.Equal(t, []int64{3, 7, 9}, boxIDs(snap))
	require.NotNil(t, snap.Selection.Asset, "changing the category keeps the asset")
	assert.Equal(t, int64(7), snap.Selection.Asset.ID)
}

func TestIntentFlow_JSON(t *testing.T) {
	c := &client{t: t, router: setupRouter(t)}

	w := c.do(http.MethodPost, "/catalog/category", `{"category":"3"}`, jsonHeaders)
	require.Equal(t, http.StatusOK, w.Code)
	var snap shell.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, []int64{9}, boxIDs(snap))

	w = c.do(http.MethodPost, "/catalog/assets/9/click", "", map[string]string{"Accept": "application/json"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.NotNil(t, snap.Selection.Asset)
	assert.Equal(t, "SM7B", snap.Detail.ModelName)
	assert.Equal(t, "Shure", snap.Detail.ManufacturerName)
	assert.True(t, snap.Detail.Fallback)
	require.Len(t, snap.Reservations.Entries, 1)
	assert.Equal(t, 14, snap.Reservations.Entries[0].StartDay)

	w = c.do(http.MethodPost, "/catalog/asset/clear", "", map[string]string{"Accept": "application/json"})
	require.Equal(t, http.StatusOK, w.Code)
	snap = shell.Snapshot{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Nil(t, snap.Selection.Asset)
	assert.True(t, snap.Detail.Empty)
	assert.True(t, snap.Reservations.Empty)
}

func TestPostCategory_EmptyBodySelectsSentinel(t *testing.T) {
	c := &client{t: t, router: setupRouter(t)}
	c.do(http.MethodPost, "/catalog/category", url.Values{"category": {"1"}}.Encode(), formHeaders)

	w := c.do(http.MethodPost, "/catalog/category", "", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "", c.state().Selection.CategoryID)
}

func TestPostCategory_MalformedJSON(t *testing.T) {
	c := &client{t: t, router: setupRouter(t)}
	w := c.do(http.MethodPost, "/catalog/category", `{"category":`, jsonHeaders)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())
}

func TestPostAssetClick_Errors(t *testing.T) {
	testCases := []struct {
		name         string
		path         string
		expectedCode int
		expectedBody string
	}{
		{name: "Invalid id", path: "/catalog/assets/abc/click", expectedCode: http.StatusBadRequest, expectedBody: `{"error":"Invalid asset ID"}`},
		{name: "Negative id", path: "/catalog/assets/-3/click", expectedCode: http.StatusBadRequest, expectedBody: `{"error":"Invalid asset ID"}`},
		{name: "Hidden asset", path: "/catalog/assets/9/click", expectedCode: http.StatusNotFound, expectedBody: `{"error":"Asset is not shown in the current selection"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := &client{t: t, router: setupRouter(t)}
			c.do(http.MethodPost, "/catalog/category", url.Values{"category": {"1"}}.Encode(), formHeaders)

			w := c.do(http.MethodPost, tc.path, "", nil)
			assert.Equal(t, tc.expectedCode, w.Code)
			assert.JSONEq(t, tc.expectedBody, w.Body.String())
		})
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	router := setupRouter(t)
	a := &client{t: t, router: router}
	b := &client{t: t, router: router}

	a.do(http.MethodPost, "/catalog/category", url.Values{"category": {"3"}}.Encode(), formHeaders)
	b.do(http.MethodGet, "/catalog", "", nil)

	assert.Equal(t, "3", a.state().Selection.CategoryID)
	assert.Equal(t, "", b.state().Selection.CategoryID)
	assert.NotEqual(t, a.cookie.Value, b.cookie.Value)
}

func TestGetCategories(t *testing.T) {
	c := &client{t: t, router: setupRouter(t)}
	w := c.do(http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []CategoryRowResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Equal(t, []CategoryRowResponse{
		{ID: 1, Indent: 0, Name: "Laptops", Label: "Laptops"},
		{ID: 2, Indent: 1, Name: "Gaming", Label: strings.Repeat("\u00a0", 5) + "Gaming"},
		{ID: 3, Indent: 0, Name: "Audio", Label: "Audio"},
	}, rows)

	w = c.do(http.MethodGet, "/api/categories/tree", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tree catalog.Tree
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tree))
	assert.Equal(t, testCatalog().Tree, tree)
}

func TestGetAssets(t *testing.T) {
	testCases := []struct {
		name         string
		query        string
		expectedCode int
		expectedIDs  []int64
	}{
		{name: "No filter", query: "", expectedCode: http.StatusOK, expectedIDs: []int64{3, 7, 9}},
		{name: "Exact category", query: "?category=1", expectedCode: http.StatusOK, expectedIDs: []int64{3}},
		{name: "With descendants", query: "?category=1&descendants=true", expectedCode: http.StatusOK, expectedIDs: []int64{3, 7}},
		{name: "Unparseable category", query: "?category=abc", expectedCode: http.StatusOK, expectedIDs: []int64{}},
		{name: "Invalid descendants flag", query: "?category=1&descendants=maybe", expectedCode: http.StatusBadRequest},
	}

	router := setupRouter(t)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := &client{t: t, router: router}
			w := c.do(http.MethodGet, "/api/assets"+tc.query, "", nil)
			require.Equal(t, tc.expectedCode, w.Code)
			if tc.expectedCode != http.StatusOK {
				return
			}
			var assets []AssetResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &assets))
			ids := make([]int64, 0, len(assets))
			for _, a := range assets {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tc.expectedIDs, ids)
		})
	}
}

func TestGetAsset(t *testing.T) {
	c := &client{t: t, router: setupRouter(t)}

	w := c.do(http.MethodGet, "/api/assets/3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var a AssetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, "ThinkPad", a.ModelName)
	assert.Equal(t, "Lenovo", a.Manufacturer)
	assert.Equal(t, "/images/tp.jpg", a.SmallImageURL)
	assert.Empty(t, a.LargeImageURL)

	w = c.do(http.MethodGet, "/api/assets/7", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, "Unknown", a.Manufacturer)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/assets/404", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/assets/x", "", nil).Code)
}

func TestGetAssetReservations(t *testing.T) {
	c := &client{t: t, router: setupRouter(t)}

	w := c.do(http.MethodGet, "/api/assets/9/reservations", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Olivia Martin")

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/assets/404/reservations", "", nil).Code)
}

func TestHealth(t *testing.T) {
	c := &client{t: t, router: setupRouter(t)}
	w := c.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","categories":3,"assets":3}`, w.Body.String())
}

func TestStream(t *testing.T) {
	router := setupRouter(t)
	server := httptest.NewServer(router)
	defer server.Close()

	// Start a session over plain HTTP first.
	resp, err := http.Get(server.URL + "/catalog")
	require.NoError(t, err)
	resp.Body.Close()
	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == mw.SessionCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)

	header := http.Header{}
	header.Set("Cookie", cookie.Name+"="+cookie.Value)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var snap shell.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, "", snap.Selection.CategoryID)
	assert.Equal(t, uint64(0), snap.Version, "first snapshot matches the rendered page")

	req, err := http.NewRequest(http.MethodPost, server.URL+"/catalog/category", strings.NewReader("category=3"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, "3", snap.Selection.CategoryID)
	assert.Equal(t, uint64(1), snap.Version)
	assert.Equal(t, []int64{9}, boxIDs(snap))
}

func TestStream_FirstSnapshotCarriesLaterIntents(t *testing.T) {
	server := httptest.NewServer(setupRouter(t))
	defer server.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	httpClient := &http.Client{Jar: jar}

	resp, err := httpClient.Get(server.URL + "/catalog")
	require.NoError(t, err)
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(page), `data-version="0"`)

	// Another tab of the same session picks a category before this page connects.
	resp, err = httpClient.PostForm(server.URL+"/catalog/category", url.Values{"category": {"2"}})
	require.NoError(t, err)
	resp.Body.Close()

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	header := http.Header{}
	for _, ck := range jar.Cookies(u) {
		header.Add("Cookie", ck.Name+"="+ck.Value)
	}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/api/stream", header)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var snap shell.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, uint64(1), snap.Version, "differs from the rendered page, which reloads")
	assert.Equal(t, "2", snap.Selection.CategoryID)
}
