package articles

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"devfolio/cache"
	"devfolio/content"
	"devfolio/httperr"
	"devfolio/models"
	"devfolio/security"
)

type ArticlesModule struct {
	manager *Manager
	cache   *cache.Store
	auth    *security.AuthModule
	log     zerolog.Logger
}

func NewArticlesModule(db *gorm.DB, store *cache.Store, auth *security.AuthModule, log zerolog.Logger) *ArticlesModule {
	return &ArticlesModule{
		manager: NewManager(db),
		cache:   store,
		auth:    auth,
		log:     log,
	}
}

func (m *ArticlesModule) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/articles")
	{
		api.GET("", m.list)
		api.GET("/slug/:slug", m.getBySlug)

		api.POST("", m.auth.RequireAdmin, m.create)
		api.GET("/:id", m.auth.RequireAdmin, m.get)
		api.PUT("/:id", m.auth.RequireAdmin, m.update)
		api.DELETE("/:id", m.auth.RequireAdmin, m.remove)
		api.POST("/:id/reset-views", m.auth.RequireAdmin, m.resetViews)
	}
}

// list serves both the public article index and the admin editor list. A
// caller without an admin session only ever sees published articles no
// matter what the status parameter says.
func (m *ArticlesModule) list(c *gin.Context) {
	filter := ListFilter{
		Status: c.Query("status"),
		Tag:    c.Query("tag"),
		Search: c.Query("search"),
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset"))

	if !m.auth.IsAdmin(c) {
		filter.Status = models.StatusPublished
	}

	list, total, err := m.manager.List(filter)
	if err != nil {
		httperr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": list,
		"total":    total,
	})
}

type articleWithHTML struct {
	models.Article
	ContentHTML content.SafeHTML `json:"content_html"`
}

// getBySlug is the public read path: published articles only, view counter
// bumped, Markdown rendered through the fragment cache.
func (m *ArticlesModule) getBySlug(c *gin.Context) {
	slug := c.Param("slug")

	article, err := m.manager.GetPublishedBySlug(slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.JSON(c, httperr.NewNotFound("article"))
			return
		}
		httperr.JSON(c, err)
		return
	}

	html := m.renderCached(article)

	c.JSON(http.StatusOK, gin.H{
		"article": articleWithHTML{Article: *article, ContentHTML: html},
	})
}

// renderCached returns the rendered fragment for an article, from disk when
// fresh. A cache miss renders and stores; a failed store only costs the next
// request a render.
func (m *ArticlesModule) renderCached(article *models.Article) content.SafeHTML {
	if cached, ok := m.cache.Read(article.Slug); ok {
		return content.SanitizeFragment(cached)
	}

	html := content.Render(article.Content)
	if err := m.cache.Write(article.Slug, html.String()); err != nil {
		m.log.Warn().Err(err).Str("slug", article.Slug).Msg("fragment cache write failed")
	}
	return html
}

func (m *ArticlesModule) get(c *gin.Context) {
	article, err := m.manager.Get(c.Param("id"))
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}

func (m *ArticlesModule) create(c *gin.Context) {
	var in ArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.JSON(c, httperr.NewValidation("invalid request body", nil))
		return
	}

	article, err := m.manager.Create(in)
	if err != nil {
		httperr.JSON(c, err)
		return
	}

	m.log.Info().Str("article_id", article.ID).Str("slug", article.Slug).
		Str("status", article.Status).Msg("article created")
	c.JSON(http.StatusCreated, gin.H{"article": article})
}

func (m *ArticlesModule) update(c *gin.Context) {
	var in ArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.JSON(c, httperr.NewValidation("invalid request body", nil))
		return
	}

	id := c.Param("id")
	before, err := m.manager.Get(id)
	if err != nil {
		httperr.JSON(c, err)
		return
	}

	article, err := m.manager.Update(id, in)
	if err != nil {
		httperr.JSON(c, err)
		return
	}

	// Stale fragments under both the old and new slug.
	m.cache.Invalidate(before.Slug)
	if article.Slug != before.Slug {
		m.cache.Invalidate(article.Slug)
	}

	m.log.Info().Str("article_id", article.ID).Str("slug", article.Slug).
		Str("status", article.Status).Msg("article updated")
	c.JSON(http.StatusOK, gin.H{"article": article})
}

func (m *ArticlesModule) remove(c *gin.Context) {
	article, err := m.manager.Delete(c.Param("id"))
	if err != nil {
		httperr.JSON(c, err)
		return
	}

	m.cache.Invalidate(article.Slug)

	m.log.Info().Str("article_id", article.ID).Str("slug", article.Slug).
		Msg("article deleted")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (m *ArticlesModule) resetViews(c *gin.Context) {
	article, err := m.manager.ResetViews(c.Param("id"))
	if err != nil {
		httperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}
