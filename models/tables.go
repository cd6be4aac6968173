package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article statuses. Archived is modeled but no admin transition produces it;
// it only appears through direct data manipulation.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

type Article struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	Title          string     `gorm:"not null" json:"title"`
	Slug           string     `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt        string     `gorm:"type:text" json:"excerpt"`
	Content        string     `gorm:"type:text" json:"content"`
	Status         string     `gorm:"not null;default:'draft';index" json:"status"`
	Tags           []string   `gorm:"serializer:json" json:"tags"`
	FeaturedImage  string     `json:"featured_image,omitempty"`
	SEOTitle       string     `json:"seo_title,omitempty"`
	SEODescription string     `json:"seo_description,omitempty"`
	ReadingTime    int        `gorm:"default:1" json:"reading_time"`
	ViewCount      int        `gorm:"default:0" json:"view_count"`
	PublishedAt    *time.Time `json:"published_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type TimelineEntry struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Company      string     `gorm:"not null" json:"company"`
	Role         string     `gorm:"not null" json:"role"`
	Description  string     `gorm:"type:text" json:"description"`
	StartDate    time.Time  `gorm:"not null;index" json:"start_date"`
	EndDate      *time.Time `json:"end_date"` // nil = current position
	Technologies []string   `gorm:"serializer:json" json:"technologies"`
	Achievements []string   `gorm:"serializer:json" json:"achievements"`
	SortOrder    int        `gorm:"default:0" json:"sort_order"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (t *TimelineEntry) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type Project struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	ProjectURL  string    `json:"project_url,omitempty"`
	Tags        []string  `gorm:"serializer:json" json:"tags"`
	IsFeatured  bool      `gorm:"default:false;index" json:"is_featured"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Profile struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:'editor'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
