package timeline

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
	db.AutoMigrate(&models.Profile{}, &models.TimelineEntry{})

	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.DefaultCost)
	db.Create(&models.Profile{Email: "admin@example.com", PasswordHash: string(hash), Role: "admin"})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("devfolio_session", cookie.NewStore([]byte("test-secret"))))

	auth := security.NewAuthModule(db)
	auth.RegisterRoutes(router)
	NewTimelineModule(db, auth, zerolog.Nop()).RegisterRoutes(router)

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

func TestCreateEntryRequiresAdmin(t *testing.T) {
	router, _ := setupFixture(t)

	w := doJSON(router, nil, "POST", "/api/timeline",
		`{"company":"Acme","role":"Engineer","start_date":"2022-03-01"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateEntryValidation(t *testing.T) {
	router, admin := setupFixture(t)

	w := doJSON(router, admin, "POST", "/api/timeline", `{"description":"only"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "company")
	assert.Contains(t, w.Body.String(), "role")
	assert.Contains(t, w.Body.String(), "start_date")
}

func TestListOrderedByStartDateDesc(t *testing.T) {
	router, admin := setupFixture(t)

	old := `{"company":"Old Corp","role":"Junior","start_date":"2018-01-01","end_date":"2020-06-30"}`
	current := `{"company":"New Corp","role":"Senior","start_date":"2023-05-01","technologies":["go","sql"]}`
	require.Equal(t, http.StatusCreated, doJSON(router, admin, "POST", "/api/timeline", old).Code)
	require.Equal(t, http.StatusCreated, doJSON(router, admin, "POST", "/api/timeline", current).Code)

	w := doJSON(router, nil, "GET", "/api/timeline", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Timeline []models.TimelineEntry `json:"timeline"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Timeline, 2)
	assert.Equal(t, "New Corp", resp.Timeline[0].Company)
	assert.Nil(t, resp.Timeline[0].EndDate, "current position has no end date")
	assert.NotNil(t, resp.Timeline[1].EndDate)
	assert.Equal(t, []string{"go", "sql"}, resp.Timeline[0].Technologies)
}

func TestUpdateEntry(t *testing.T) {
	router, admin := setupFixture(t)

	w := doJSON(router, admin, "POST", "/api/timeline",
		`{"company":"Acme","role":"Engineer","start_date":"2022-03-01"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Entry models.TimelineEntry `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, admin, "PUT", "/api/timeline/"+created.Entry.ID,
		`{"company":"Acme","role":"Staff Engineer","start_date":"2022-03-01"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Staff Engineer")
}

func TestDeleteEntry(t *testing.T) {
	router, admin := setupFixture(t)

	w := doJSON(router, admin, "POST", "/api/timeline",
		`{"company":"Acme","role":"Engineer","start_date":"2022-03-01"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Entry models.TimelineEntry `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, admin, "DELETE", "/api/timeline/"+created.Entry.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, nil, "GET", "/api/timeline", "")
	var resp struct {
		Timeline []models.TimelineEntry `json:"timeline"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Timeline)
}

func TestBadStartDateRejected(t *testing.T) {
	router, admin := setupFixture(t)

	w := doJSON(router, admin, "POST", "/api/timeline",
		`{"company":"Acme","role":"Engineer","start_date":"not-a-date"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}
