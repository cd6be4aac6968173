package security

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"devfolio/httperr"
	"devfolio/models"
)

const sessionUserKey = "user_id"

type AuthModule struct {
	db *gorm.DB
}

func NewAuthModule(db *gorm.DB) *AuthModule {
	return &AuthModule{db: db}
}

func (a *AuthModule) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", a.login)
		auth.POST("/logout", a.logout)
		auth.GET("/me", a.RequireAdmin, a.me)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthModule) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.JSON(c, httperr.NewValidation("email and password are required", nil))
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		httperr.JSON(c, httperr.NewValidation("email and password are required", nil))
		return
	}

	var profile models.Profile
	if err := a.db.Where("email = ?", req.Email).First(&profile).Error; err != nil {
		// Same response for unknown email and bad password.
		httperr.JSON(c, httperr.NewAuth())
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		httperr.JSON(c, httperr.NewAuth())
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, profile.ID)
	if err := session.Save(); err != nil {
		httperr.JSON(c, httperr.NewInternal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    profile.ID,
			"email": profile.Email,
			"role":  profile.Role,
		},
	})
}

func (a *AuthModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{MaxAge: -1, Path: "/"})
	if err := session.Save(); err != nil {
		httperr.JSON(c, httperr.NewInternal(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AuthModule) me(c *gin.Context) {
	profile := c.MustGet("profile").(models.Profile)
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    profile.ID,
			"email": profile.Email,
			"role":  profile.Role,
		},
	})
}

// RequireAdmin gates admin endpoints: no or invalid session is a 401, a
// valid session without the admin role is a 403. The 401 message stays
// generic so callers cannot probe which accounts exist.
func (a *AuthModule) RequireAdmin(c *gin.Context) {
	session := sessions.Default(c)
	userID, ok := session.Get(sessionUserKey).(string)
	if !ok || userID == "" {
		httperr.JSON(c, httperr.NewAuth())
		return
	}

	var profile models.Profile
	if err := a.db.First(&profile, "id = ?", userID).Error; err != nil {
		httperr.JSON(c, httperr.NewAuth())
		return
	}
	if profile.Role != "admin" {
		httperr.JSON(c, httperr.NewAuthz())
		return
	}

	c.Set("profile", profile)
	c.Next()
}

// IsAdmin reports whether the request carries a valid admin session, without
// aborting. Public endpoints use it to widen their view for an admin caller.
// On success the profile is stashed in the context.
func (a *AuthModule) IsAdmin(c *gin.Context) bool {
	session := sessions.Default(c)
	userID, ok := session.Get(sessionUserKey).(string)
	if !ok || userID == "" {
		return false
	}

	var profile models.Profile
	if err := a.db.First(&profile, "id = ?", userID).Error; err != nil {
		return false
	}
	if profile.Role != "admin" {
		return false
	}

	c.Set("profile", profile)
	return true
}
