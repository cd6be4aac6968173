package projects

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"devfolio/models"
	"devfolio/security"
)

func setupFixture(t *testing.T) (*gin.Engine, []*http.Cookie) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal("failed to connect database")
	}
	db.AutoMigrate(&models.Profile{}, &models.Project{})

	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.DefaultCost)
	db.Create(&models.Profile{Email: "admin@example.com", PasswordHash: string(hash), Role: "admin"})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("devfolio_session", cookie.NewStore([]byte("test-secret"))))

	auth := security.NewAuthModule(db)
	auth.RegisterRoutes(router)
	NewProjectsModule(db, auth, zerolog.Nop()).RegisterRoutes(router)

	login := httptest.NewRequest("POST", "/api/auth/login",
		bytes.NewBufferString(`{"email":"admin@example.com","password":"pw"}`))
	login.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, login)
	require.Equal(t, http.StatusOK, w.Code)

	return router, w.Result().Cookies()
}

func doJSON(router *gin.Engine, cookies []*http.Cookie, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateProjectRequiresAdmin(t *testing.T) {
	router, _ := setupFixture(t)

	w := doJSON(router, nil, "POST", "/api/projects", `{"title":"Thing"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateProjectRequiresTitle(t *testing.T) {
	router, admin := setupFixture(t)

	w := doJSON(router, admin, "POST", "/api/projects", `{"description":"no title"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title")
}

func TestFeaturedFilter(t *testing.T) {
	router, admin := setupFixture(t)

	require.Equal(t, http.StatusCreated, doJSON(router, admin, "POST", "/api/projects",
		`{"title":"Side Thing","is_featured":false}`).Code)
	require.Equal(t, http.StatusCreated, doJSON(router, admin, "POST", "/api/projects",
		`{"title":"Flagship","is_featured":true,"tags":["go"]}`).Code)

	w := doJSON(router, nil, "GET", "/api/projects?featured=true", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Projects []models.Project `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, "Flagship", resp.Projects[0].Title)
	assert.Equal(t, []string{"go"}, resp.Projects[0].Tags)

	w = doJSON(router, nil, "GET", "/api/projects", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Projects, 2)
}

func TestSortOrderRespected(t *testing.T) {
	router, admin := setupFixture(t)

	doJSON(router, admin, "POST", "/api/projects", `{"title":"Second","sort_order":2}`)
	doJSON(router, admin, "POST", "/api/projects", `{"title":"First","sort_order":1}`)

	w := doJSON(router, nil, "GET", "/api/projects", "")
	var resp struct {
		Projects []models.Project `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Projects, 2)
	assert.Equal(t, "First", resp.Projects[0].Title)
}

func TestUpdateAndDeleteProject(t *testing.T) {
	router, admin := setupFixture(t)

	w := doJSON(router, admin, "POST", "/api/projects", `{"title":"Thing"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Project models.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, admin, "PUT", "/api/projects/"+created.Project.ID,
		`{"title":"Renamed Thing","is_featured":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Renamed Thing")

	w = doJSON(router, admin, "DELETE", "/api/projects/"+created.Project.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, admin, "DELETE", "/api/projects/"+created.Project.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
