package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"folio/internal/auth"
	"folio/internal/config"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// stubProvider fakes the identity provider for handler tests.
type stubProvider struct {
	info *auth.UserInfo
}

func (p *stubProvider) AuthCodeURL(state string) string {
	return "https://idp.example/authorize?state=" + state
}

func (p *stubProvider) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "stub-" + code}, nil
}

func (p *stubProvider) FetchUserInfo(_ context.Context, _ *oauth2.Token) (*auth.UserInfo, error) {
	return p.info, nil
}

// memStore is an in-memory blob store for handler tests.
type memStore struct{}

func (memStore) Save(_ context.Context, filename string, _ []byte) (string, error) {
	return "/static/uploads/" + filename, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:      "0",
		Env:       "test",
		JWTSecret: "test-secret-key-for-handler-tests-0123",
		UploadDir: "static/uploads",
	}
}

func newTestServer(t *testing.T, provider auth.Provider) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()
	cfg := testConfig()
	middleware.InitMiddleware(cfg)

	db := testutil.NewTestDB(t)
	srv := NewServerWithDeps(cfg, db, nil, provider, memStore{})
	return srv, srv.App(), db
}

func issueToken(t *testing.T, userID uint) string {
	t.Helper()
	token, err := auth.IssueToken(testConfig().JWTSecret, userID)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, payload
}

func seedUser(t *testing.T, db *gorm.DB, firstName string, admin, owner bool) *models.User {
	t.Helper()
	user := &models.User{
		ExternalID: "ext-" + t.Name() + "-" + firstName,
		FirstName:  firstName,
		IsAdmin:    admin,
		IsOwner:    owner,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProject(t *testing.T, db *gorm.DB, authorID uint, title string, status models.ProjectStatus) *models.Project {
	t.Helper()
	project := &models.Project{Title: title, Status: status, AuthorID: authorID}
	require.NoError(t, db.Create(project).Error)
	return project
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	_, app, _ := newTestServer(t, &stubProvider{})

	paths := []struct {
		method string
		path   string
	}{
		{fiber.MethodPost, "/api/projects/1/like"},
		{fiber.MethodPost, "/api/projects/1/comments"},
		{fiber.MethodGet, "/api/users/me"},
		{fiber.MethodGet, "/api/notifications/"},
		{fiber.MethodGet, "/api/admin/dashboard"},
	}
	for _, p := range paths {
		resp, _ := doJSON(t, app, p.method, p.path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, p.path)
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	_, app, db := newTestServer(t, &stubProvider{})
	visitor := seedUser(t, db, "Bob", false, false)
	admin := seedUser(t, db, "Alice", true, false)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/admin/dashboard", issueToken(t, visitor.ID), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/admin/dashboard", issueToken(t, admin.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUpdateAboutRequiresOwner(t *testing.T) {
	_, app, db := newTestServer(t, &stubProvider{})
	admin := seedUser(t, db, "Alice", true, false)
	owner := seedUser(t, db, "Olivia", true, true)

	body := map[string]string{"name": "Olivia", "title": "Engineer"}

	resp, _ := doJSON(t, app, fiber.MethodPut, "/api/admin/about", issueToken(t, admin.ID), body)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, payload := doJSON(t, app, fiber.MethodPut, "/api/admin/about", issueToken(t, owner.ID), body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var about models.About
	require.NoError(t, json.Unmarshal(payload, &about))
	assert.Equal(t, "Olivia", about.Name)
}

func TestToggleLikeEndpoint(t *testing.T) {
	_, app, db := newTestServer(t, &stubProvider{})
	author := seedUser(t, db, "Alice", false, false)
	visitor := seedUser(t, db, "Bob", false, false)
	project := seedProject(t, db, author.ID, "CLI Toolkit", models.ProjectStatusPublished)

	token := issueToken(t, visitor.ID)
	path := "/api/projects/" + itoa(project.ID) + "/like"

	resp, payload := doJSON(t, app, fiber.MethodPost, path, token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Liked      bool `json:"liked"`
		LikesCount int  `json:"likes_count"`
	}
	require.NoError(t, json.Unmarshal(payload, &result))
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.LikesCount)

	resp, payload = doJSON(t, app, fiber.MethodPost, path, token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(payload, &result))
	assert.False(t, result.Liked)
	assert.Equal(t, 0, result.LikesCount)
}

func TestCreateCommentEndpoint(t *testing.T) {
	_, app, db := newTestServer(t, &stubProvider{})
	author := seedUser(t, db, "Alice", false, false)
	visitor := seedUser(t, db, "Bob", false, false)
	project := seedProject(t, db, author.ID, "CLI Toolkit", models.ProjectStatusPublished)

	token := issueToken(t, visitor.ID)
	path := "/api/projects/" + itoa(project.ID) + "/comments"

	resp, payload := doJSON(t, app, fiber.MethodPost, path, token,
		map[string]string{"content": "Great work!"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var comment models.Comment
	require.NoError(t, json.Unmarshal(payload, &comment))
	assert.Equal(t, "Great work!", comment.Content)
	assert.Equal(t, "Bob", comment.User.FirstName)

	resp, _ = doJSON(t, app, fiber.MethodPost, path, token,
		map[string]string{"content": "   "})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetProjectEndpoint(t *testing.T) {
	_, app, db := newTestServer(t, &stubProvider{})
	author := seedUser(t, db, "Alice", false, false)
	visitor := seedUser(t, db, "Bob", false, false)
	project := seedProject(t, db, author.ID, "CLI Toolkit", models.ProjectStatusPublished)
	require.NoError(t, db.Create(&models.Like{UserID: visitor.ID, ProjectID: project.ID}).Error)

	// Anonymous fetch.
	resp, payload := doJSON(t, app, fiber.MethodGet, "/api/projects/"+itoa(project.ID), "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var detail struct {
		Project   models.Project `json:"project"`
		UserLiked bool           `json:"user_liked"`
	}
	require.NoError(t, json.Unmarshal(payload, &detail))
	assert.Equal(t, "CLI Toolkit", detail.Project.Title)
	assert.False(t, detail.UserLiked)

	// Authenticated fetch resolves the per-user like flag.
	resp, payload = doJSON(t, app, fiber.MethodGet, "/api/projects/"+itoa(project.ID), issueToken(t, visitor.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(payload, &detail))
	assert.True(t, detail.UserLiked)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/projects/99999", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/projects/abc", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHomeFeedEndpoint(t *testing.T) {
	_, app, db := newTestServer(t, &stubProvider{})
	author := seedUser(t, db, "Alice", false, false)
	seedProject(t, db, author.ID, "CLI Toolkit", models.ProjectStatusPublished)

	resp, payload := doJSON(t, app, fiber.MethodGet, "/api/home", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var feed struct {
		Latest []models.Project `json:"latest"`
	}
	require.NoError(t, json.Unmarshal(payload, &feed))
	assert.Len(t, feed.Latest, 1)
}

func TestAuthLoginCallbackFlow(t *testing.T) {
	provider := &stubProvider{info: &auth.UserInfo{
		Subject:   "ext-flow-1",
		Email:     "alice@example.com",
		FirstName: "Alice",
	}}
	_, app, db := newTestServer(t, provider)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/auth/login", "", nil)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	location := resp.Header.Get("Location")
	require.Contains(t, location, "state=")
	state := location[strings.Index(location, "state=")+len("state="):]

	var stateCookieValue string
	for _, c := range resp.Cookies() {
		if c.Name == stateCookie {
			stateCookieValue = c.Value
		}
	}
	require.Equal(t, state, stateCookieValue)

	req := httptest.NewRequest(fiber.MethodGet, "/api/auth/callback?state="+state+"&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: stateCookieValue})
	cbResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, cbResp.StatusCode)

	payload, err := io.ReadAll(cbResp.Body)
	require.NoError(t, err)
	var result struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(payload, &result))
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "Alice", result.User.FirstName)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// The issued token works against a protected endpoint.
	meResp, _ := doJSON(t, app, fiber.MethodGet, "/api/users/me", result.Token, nil)
	assert.Equal(t, fiber.StatusOK, meResp.StatusCode)
}

func TestAuthCallback_StateMismatch(t *testing.T) {
	_, app, _ := newTestServer(t, &stubProvider{})

	req := httptest.NewRequest(fiber.MethodGet, "/api/auth/callback?state=forged&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "expected"})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminProjectLifecycle(t *testing.T) {
	_, app, db := newTestServer(t, &stubProvider{})
	admin := seedUser(t, db, "Alice", true, false)
	token := issueToken(t, admin.ID)

	// Create via multipart form with an image.
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("title", "Shipped Project"))
	require.NoError(t, form.WriteField("description", "A finished thing"))
	require.NoError(t, form.WriteField("status", "published"))
	require.NoError(t, form.WriteField("is_featured", "true"))
	require.NoError(t, form.WriteField("tags", "go, api"))
	part, err := form.CreateFormFile("image", "shot.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-png"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/admin/projects", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var project models.Project
	require.NoError(t, json.Unmarshal(payload, &project))
	assert.Equal(t, "/static/uploads/shot.png", project.ImageURL)

	var tagCount int64
	require.NoError(t, db.Model(&models.ProjectTag{}).
		Where("project_id = ?", project.ID).Count(&tagCount).Error)
	assert.Equal(t, int64(2), tagCount)

	// The admin listing sees it regardless of status.
	listResp, listPayload := doJSON(t, app, fiber.MethodGet, "/api/admin/projects", token, nil)
	require.Equal(t, fiber.StatusOK, listResp.StatusCode)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(listPayload, &page))
	assert.Equal(t, int64(1), page.Total)

	// Delete and confirm it is gone.
	delResp, _ := doJSON(t, app, fiber.MethodDelete, "/api/admin/projects/"+itoa(project.ID), token, nil)
	require.Equal(t, fiber.StatusOK, delResp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Project{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestNotificationEndpoints(t *testing.T) {
	_, app, db := newTestServer(t, &stubProvider{})
	author := seedUser(t, db, "Alice", false, false)
	other := seedUser(t, db, "Bob", false, false)

	notification := models.Notification{Title: "New Like", Message: "Bob liked your project 'X'", UserID: author.ID}
	require.NoError(t, db.Create(&notification).Error)

	token := issueToken(t, author.ID)

	resp, payload := doJSON(t, app, fiber.MethodGet, "/api/notifications/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list struct {
		UnreadCount int64 `json:"unread_count"`
	}
	require.NoError(t, json.Unmarshal(payload, &list))
	assert.Equal(t, int64(1), list.UnreadCount)

	// Another user cannot acknowledge it.
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/notifications/"+itoa(notification.ID)+"/read", issueToken(t, other.ID), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/notifications/"+itoa(notification.ID)+"/read", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, payload = doJSON(t, app, fiber.MethodGet, "/api/notifications/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(payload, &list))
	assert.Equal(t, int64(0), list.UnreadCount)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
