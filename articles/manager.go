package articles

import (
	"time"

	"gorm.io/gorm"

	"devfolio/content"
	"devfolio/httperr"
	"devfolio/models"
)

// Manager owns the article lifecycle: validation, sanitization, slug
// normalization, publish state and reading time all happen here so every
// entry point (HTTP, seed) goes through the same rules.
type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// ArticleInput is the writable surface of an article. Status accepts draft
// and published; archived is not reachable through the API.
type ArticleInput struct {
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Excerpt        string   `json:"excerpt"`
	Content        string   `json:"content"`
	Status         string   `json:"status"`
	Tags           []string `json:"tags"`
	FeaturedImage  string   `json:"featured_image"`
	SEOTitle       string   `json:"seo_title"`
	SEODescription string   `json:"seo_description"`
}

// sanitize cleans every field in place: plain-mode for single-line fields,
// rich-mode for the Markdown body, and slug normalization through the same
// function used to derive slugs from titles, so a hand-edited slug ends up in
// the identical canonical form.
func (in *ArticleInput) sanitize() {
	in.Title = content.SanitizePlain(in.Title)
	in.Excerpt = content.SanitizePlain(in.Excerpt)
	in.Content = content.SanitizeRich(in.Content)
	in.SEOTitle = content.SanitizePlain(in.SEOTitle)
	in.SEODescription = content.SanitizePlain(in.SEODescription)
	in.FeaturedImage = content.SanitizePlain(in.FeaturedImage)

	if in.Slug == "" {
		in.Slug = content.Slugify(in.Title)
	} else {
		in.Slug = content.Slugify(in.Slug)
	}

	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		if t := content.SanitizePlain(tag); t != "" {
			tags = append(tags, t)
		}
	}
	in.Tags = tags

	if in.Status == "" {
		in.Status = models.StatusDraft
	}
}

func (in *ArticleInput) validate() error {
	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Slug == "" {
		missing = append(missing, "slug")
	}
	if in.Excerpt == "" {
		missing = append(missing, "excerpt")
	}
	if in.Content == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return httperr.NewValidation("required fields are missing", missing)
	}

	if in.Status != models.StatusDraft && in.Status != models.StatusPublished {
		return httperr.NewValidation("status must be draft or published", nil)
	}
	return nil
}

// slugTaken reports whether another article (excluding excludeID) already
// uses slug.
func (m *Manager) slugTaken(slug, excludeID string) (bool, error) {
	var count int64
	q := m.db.Model(&models.Article{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (m *Manager) Create(in ArticleInput) (*models.Article, error) {
	in.sanitize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	taken, err := m.slugTaken(in.Slug, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, httperr.NewDuplicateSlug(in.Slug)
	}

	article := models.Article{
		Title:          in.Title,
		Slug:           in.Slug,
		Excerpt:        in.Excerpt,
		Content:        in.Content,
		Status:         in.Status,
		Tags:           in.Tags,
		FeaturedImage:  in.FeaturedImage,
		SEOTitle:       in.SEOTitle,
		SEODescription: in.SEODescription,
		ReadingTime:    content.ReadingTime(in.Content),
	}
	if in.Status == models.StatusPublished {
		now := time.Now()
		article.PublishedAt = &now
	}

	if err := m.db.Create(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (m *Manager) Update(id string, in ArticleInput) (*models.Article, error) {
	var article models.Article
	if err := m.db.First(&article, "id = ?", id).Error; err != nil {
		return nil, err
	}

	in.sanitize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	taken, err := m.slugTaken(in.Slug, article.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, httperr.NewDuplicateSlug(in.Slug)
	}

	article.Title = in.Title
	article.Slug = in.Slug
	article.Excerpt = in.Excerpt
	article.Content = in.Content
	article.Tags = in.Tags
	article.FeaturedImage = in.FeaturedImage
	article.SEOTitle = in.SEOTitle
	article.SEODescription = in.SEODescription
	article.ReadingTime = content.ReadingTime(in.Content)

	// published_at is set the first time an article is published and cleared
	// when it goes back to draft; republishing keeps the original date.
	switch in.Status {
	case models.StatusPublished:
		if article.PublishedAt == nil {
			now := time.Now()
			article.PublishedAt = &now
		}
	case models.StatusDraft:
		article.PublishedAt = nil
	}
	article.Status = in.Status

	if err := m.db.Save(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (m *Manager) Get(id string) (*models.Article, error) {
	var article models.Article
	if err := m.db.First(&article, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// Delete removes an article permanently. It returns the deleted article so
// the caller can invalidate caches by slug.
func (m *Manager) Delete(id string) (*models.Article, error) {
	var article models.Article
	if err := m.db.First(&article, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := m.db.Delete(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// GetPublishedBySlug fetches a published article and bumps its view count.
// The count is read-then-write; concurrent readers may lose an increment,
// which is acceptable for a vanity metric.
func (m *Manager) GetPublishedBySlug(slug string) (*models.Article, error) {
	var article models.Article
	err := m.db.Where("slug = ? AND status = ?", slug, models.StatusPublished).
		First(&article).Error
	if err != nil {
		return nil, err
	}

	article.ViewCount++
	if err := m.db.Model(&article).UpdateColumn("view_count", article.ViewCount).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// ResetViews zeroes the view counter.
func (m *Manager) ResetViews(id string) (*models.Article, error) {
	var article models.Article
	if err := m.db.First(&article, "id = ?", id).Error; err != nil {
		return nil, err
	}
	article.ViewCount = 0
	if err := m.db.Model(&article).UpdateColumn("view_count", 0).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// ListFilter narrows List. Zero values mean no filter; Limit zero means the
// default page size.
type ListFilter struct {
	Status string
	Tag    string
	Search string
	Limit  int
	Offset int
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func (m *Manager) List(filter ListFilter) ([]models.Article, int64, error) {
	q := m.db.Model(&models.Article{})

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Tag != "" {
		// Tags are stored as a JSON array; match the quoted element.
		q = q.Where("tags LIKE ?", `%"`+filter.Tag+`"%`)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("title LIKE ? OR excerpt LIKE ? OR content LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	order := "created_at DESC"
	if filter.Status == models.StatusPublished {
		order = "published_at DESC"
	}

	var list []models.Article
	err := q.Order(order).Limit(limit).Offset(filter.Offset).Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
