package database

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"devfolio/cache"
	"devfolio/models"
	"devfolio/security"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal("failed to connect database")
	}
	require.NoError(t, RunMigrations(db))
	return db
}

func TestSeedInsertsStarterContent(t *testing.T) {
	db := setupTestDB(t)

	result, err := Seed(db)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Articles)
	assert.Equal(t, 2, result.TimelineEntries)
	assert.Equal(t, 1, result.Projects)

	var article models.Article
	require.NoError(t, db.Where("slug = ?", "welcome-to-my-blog").First(&article).Error)
	assert.Equal(t, models.StatusPublished, article.Status)
	assert.NotNil(t, article.PublishedAt)
	assert.GreaterOrEqual(t, article.ReadingTime, 1)
}

func TestSeedReplacesExistingContent(t *testing.T) {
	db := setupTestDB(t)

	db.Create(&models.Article{Title: "Old", Slug: "old", Status: models.StatusPublished})
	db.Create(&models.Project{Title: "Old Project"})

	_, err := Seed(db)
	require.NoError(t, err)

	var count int64
	db.Model(&models.Article{}).Where("slug = ?", "old").Count(&count)
	assert.EqualValues(t, 0, count)

	db.Model(&models.Article{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSeedLeavesProfilesAlone(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, EnsureAdmin(db, "admin@example.com", "pw"))

	_, err := Seed(db)
	require.NoError(t, err)

	var count int64
	db.Model(&models.Profile{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestEnsureAdminIdempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, EnsureAdmin(db, "admin@example.com", "pw"))

	var before models.Profile
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&before).Error)

	require.NoError(t, EnsureAdmin(db, "admin@example.com", "changed"))

	var after models.Profile
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&after).Error)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
	assert.Equal(t, "admin", after.Role)
}

func TestSeedRouteClearsFragmentCache(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, EnsureAdmin(db, "admin@example.com", "pw"))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("devfolio_session", cookie.NewStore([]byte("test-secret"))))

	auth := security.NewAuthModule(db)
	auth.RegisterRoutes(router)

	fragments := cache.NewStore(t.TempDir(), time.Hour)
	RegisterSeedRoute(router, db, auth, fragments, zerolog.Nop())

	// A fragment rendered before the reseed for a slug the reseed recreates.
	require.NoError(t, fragments.Write("welcome-to-my-blog", "<p>stale</p>"))

	login := httptest.NewRequest("POST", "/api/auth/login",
		bytes.NewBufferString(`{"email":"admin@example.com","password":"pw"}`))
	login.Header.Set("Content-Type", "application/json")
	lw := httptest.NewRecorder()
	router.ServeHTTP(lw, login)
	require.Equal(t, http.StatusOK, lw.Code)

	req := httptest.NewRequest("POST", "/api/seed", nil)
	for _, c := range lw.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	_, ok := fragments.Read("welcome-to-my-blog")
	assert.False(t, ok, "reseed must drop pre-seed fragments")
}

func TestEnsureAdminSkipsWhenUnconfigured(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, EnsureAdmin(db, "", ""))

	var count int64
	db.Model(&models.Profile{}).Count(&count)
	assert.EqualValues(t, 0, count)
}
