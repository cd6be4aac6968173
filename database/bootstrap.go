package database

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"devfolio/cache"
	"devfolio/httperr"
	"devfolio/models"
	"devfolio/security"
)

// EnsureAdmin creates the admin profile on first boot from the configured
// credentials. An existing profile with the same email is left untouched, so
// a later password change in the environment does not silently rewrite it.
func EnsureAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var existing models.Profile
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Create(&models.Profile{
		Email:        email,
		PasswordHash: string(hash),
		Role:         "admin",
	}).Error
}

// RegisterSeedRoute mounts the destructive reseed endpoint behind the admin
// gate. A reseed replaces every article, so the rendered fragment cache is
// dropped wholesale; any surviving slug would otherwise keep serving its
// pre-seed fragment until expiry.
func RegisterSeedRoute(router *gin.Engine, db *gorm.DB, auth *security.AuthModule, fragments *cache.Store, log zerolog.Logger) {
	router.POST("/api/seed", auth.RequireAdmin, func(c *gin.Context) {
		result, err := Seed(db)
		if err != nil {
			httperr.JSON(c, err)
			return
		}

		if err := fragments.Clear(); err != nil {
			log.Warn().Err(err).Msg("fragment cache clear failed after reseed")
		}

		log.Info().Int("articles", result.Articles).
			Int("timeline_entries", result.TimelineEntries).
			Int("projects", result.Projects).Msg("database reseeded")
		c.JSON(http.StatusOK, gin.H{"seeded": result})
	})
}
