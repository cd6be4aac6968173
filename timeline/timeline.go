package timeline

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"devfolio/content"
	"devfolio/httperr"
	"devfolio/models"
	"devfolio/security"
)

type TimelineModule struct {
	db   *gorm.DB
	auth *security.AuthModule
	log  zerolog.Logger
}

func NewTimelineModule(db *gorm.DB, auth *security.AuthModule, log zerolog.Logger) *TimelineModule {
	return &TimelineModule{db: db, auth: auth, log: log}
}

func (m *TimelineModule) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/timeline")
	{
		api.GET("", m.list)
		api.POST("", m.auth.RequireAdmin, m.create)
		api.PUT("/:id", m.auth.RequireAdmin, m.update)
		api.DELETE("/:id", m.auth.RequireAdmin, m.remove)
	}
}

type entryInput struct {
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Description  string   `json:"description"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"` // empty = current position
	Technologies []string `json:"technologies"`
	Achievements []string `json:"achievements"`
	SortOrder    int      `json:"sort_order"`
}

// parseDate accepts a bare date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (in *entryInput) toEntry() (*models.TimelineEntry, error) {
	in.Company = content.SanitizePlain(in.Company)
	in.Role = content.SanitizePlain(in.Role)
	in.Description = content.SanitizePlain(in.Description)

	var missing []string
	if in.Company == "" {
		missing = append(missing, "company")
	}
	if in.Role == "" {
		missing = append(missing, "role")
	}
	if in.StartDate == "" {
		missing = append(missing, "start_date")
	}
	if len(missing) > 0 {
		return nil, httperr.NewValidation("required fields are missing", missing)
	}

	start, err := parseDate(in.StartDate)
	if err != nil {
		return nil, httperr.NewValidation("start_date must be a date", nil)
	}

	entry := &models.TimelineEntry{
		Company:      in.Company,
		Role:         in.Role,
		Description:  in.Description,
		StartDate:    start,
		Technologies: in.Technologies,
		Achievements: in.Achievements,
		SortOrder:    in.SortOrder,
	}
	if in.EndDate != "" {
		end, err := parseDate(in.EndDate)
		if err != nil {
			return nil, httperr.NewValidation("end_date must be a date", nil)
		}
		entry.EndDate = &end
	}
	return entry, nil
}

// list returns the whole timeline, most recent role first. Current positions
// (no end date) naturally sort first because their start dates are newest.
func (m *TimelineModule) list(c *gin.Context) {
	var entries []models.TimelineEntry
	err := m.db.Order("start_date DESC, sort_order ASC").Find(&entries).Error
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeline": entries})
}

func (m *TimelineModule) create(c *gin.Context) {
	var in entryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.JSON(c, httperr.NewValidation("invalid request body", nil))
		return
	}

	entry, err := in.toEntry()
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	if err := m.db.Create(entry).Error; err != nil {
		httperr.JSON(c, err)
		return
	}

	m.log.Info().Str("entry_id", entry.ID).Str("company", entry.Company).Msg("timeline entry created")
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

func (m *TimelineModule) update(c *gin.Context) {
	var existing models.TimelineEntry
	if err := m.db.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		httperr.JSON(c, err)
		return
	}

	var in entryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.JSON(c, httperr.NewValidation("invalid request body", nil))
		return
	}

	entry, err := in.toEntry()
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	entry.ID = existing.ID
	entry.CreatedAt = existing.CreatedAt

	if err := m.db.Save(entry).Error; err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

func (m *TimelineModule) remove(c *gin.Context) {
	var entry models.TimelineEntry
	if err := m.db.First(&entry, "id = ?", c.Param("id")).Error; err != nil {
		httperr.JSON(c, err)
		return
	}
	if err := m.db.Delete(&entry).Error; err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
