package site

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"devfolio/models"
)

type SiteModule struct {
	db     *gorm.DB
	domain string
}

func NewSiteModule(db *gorm.DB, domain string) *SiteModule {
	return &SiteModule{db: db, domain: strings.TrimSuffix(domain, "/")}
}

func (s *SiteModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", s.index)
	router.GET("/healthz", s.healthz)
	router.GET("/sitemap.xml", s.sitemap)
	router.GET("/robots.txt", s.robots)
}

func (s *SiteModule) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":     "devfolio",
		"articles": "/api/articles",
		"timeline": "/api/timeline",
		"projects": "/api/projects",
	})
}

func (s *SiteModule) healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *SiteModule) sitemap(c *gin.Context) {
	var sitemap strings.Builder
	sitemap.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sitemap.WriteString("\n")
	sitemap.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	sitemap.WriteString("\n")

	sitemap.WriteString("  <url>\n")
	sitemap.WriteString("    <loc>" + s.domain + "/</loc>\n")
	sitemap.WriteString("    <changefreq>weekly</changefreq>\n")
	sitemap.WriteString("    <priority>1.0</priority>\n")
	sitemap.WriteString("  </url>\n")

	sitemap.WriteString("  <url>\n")
	sitemap.WriteString("    <loc>" + s.domain + "/blog</loc>\n")
	sitemap.WriteString("    <changefreq>daily</changefreq>\n")
	sitemap.WriteString("    <priority>0.8</priority>\n")
	sitemap.WriteString("  </url>\n")

	var articles []models.Article
	s.db.Where("status = ?", models.StatusPublished).Find(&articles)

	for _, article := range articles {
		sitemap.WriteString("  <url>\n")
		sitemap.WriteString("    <loc>" + s.domain + "/blog/" + article.Slug + "</loc>\n")
		sitemap.WriteString("    <lastmod>" + article.UpdatedAt.Format(time.RFC3339) + "</lastmod>\n")
		sitemap.WriteString("    <changefreq>monthly</changefreq>\n")
		sitemap.WriteString("    <priority>0.6</priority>\n")
		sitemap.WriteString("  </url>\n")
	}

	sitemap.WriteString("</urlset>\n")

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, sitemap.String())
}

func (s *SiteModule) robots(c *gin.Context) {
	var robots strings.Builder
	robots.WriteString("User-agent: *\n")
	robots.WriteString("Allow: /\n")
	robots.WriteString("Disallow: /api/\n")
	robots.WriteString("\n")
	robots.WriteString("Sitemap: " + s.domain + "/sitemap.xml\n")

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, robots.String())
}
