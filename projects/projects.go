package projects

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"devfolio/content"
	"devfolio/httperr"
	"devfolio/models"
	"devfolio/security"
)

type ProjectsModule struct {
	db   *gorm.DB
	auth *security.AuthModule
	log  zerolog.Logger
}

func NewProjectsModule(db *gorm.DB, auth *security.AuthModule, log zerolog.Logger) *ProjectsModule {
	return &ProjectsModule{db: db, auth: auth, log: log}
}

func (m *ProjectsModule) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/projects")
	{
		api.GET("", m.list)
		api.POST("", m.auth.RequireAdmin, m.create)
		api.PUT("/:id", m.auth.RequireAdmin, m.update)
		api.DELETE("/:id", m.auth.RequireAdmin, m.remove)
	}
}

type projectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	ProjectURL  string   `json:"project_url"`
	Tags        []string `json:"tags"`
	IsFeatured  bool     `json:"is_featured"`
	SortOrder   int      `json:"sort_order"`
}

func (in *projectInput) toProject() (*models.Project, error) {
	in.Title = content.SanitizePlain(in.Title)
	in.Description = content.SanitizePlain(in.Description)

	if in.Title == "" {
		return nil, httperr.NewValidation("required fields are missing", []string{"title"})
	}

	return &models.Project{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		ProjectURL:  in.ProjectURL,
		Tags:        in.Tags,
		IsFeatured:  in.IsFeatured,
		SortOrder:   in.SortOrder,
	}, nil
}

func (m *ProjectsModule) list(c *gin.Context) {
	q := m.db.Model(&models.Project{})
	if c.Query("featured") == "true" {
		q = q.Where("is_featured = ?", true)
	}

	var projects []models.Project
	if err := q.Order("sort_order ASC, created_at DESC").Find(&projects).Error; err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (m *ProjectsModule) create(c *gin.Context) {
	var in projectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.JSON(c, httperr.NewValidation("invalid request body", nil))
		return
	}

	project, err := in.toProject()
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	if err := m.db.Create(project).Error; err != nil {
		httperr.JSON(c, err)
		return
	}

	m.log.Info().Str("project_id", project.ID).Str("title", project.Title).Msg("project created")
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

func (m *ProjectsModule) update(c *gin.Context) {
	var existing models.Project
	if err := m.db.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		httperr.JSON(c, err)
		return
	}

	var in projectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.JSON(c, httperr.NewValidation("invalid request body", nil))
		return
	}

	project, err := in.toProject()
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	project.ID = existing.ID
	project.CreatedAt = existing.CreatedAt

	if err := m.db.Save(project).Error; err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (m *ProjectsModule) remove(c *gin.Context) {
	var project models.Project
	if err := m.db.First(&project, "id = ?", c.Param("id")).Error; err != nil {
		httperr.JSON(c, err)
		return
	}
	if err := m.db.Delete(&project).Error; err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
