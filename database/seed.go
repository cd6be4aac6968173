package database

import (
	"time"

	"devfolio/content"
	"devfolio/models"

	"gorm.io/gorm"
)

// SeedResult reports what a reseed inserted.
type SeedResult struct {
	Articles        int `json:"articles"`
	TimelineEntries int `json:"timeline_entries"`
	Projects        int `json:"projects"`
}

const welcomeContent = `# Welcome to My Technical Blog

Welcome to my corner of the internet! I'm excited to share my thoughts, experiences, and learnings in the world of software development.

## What You'll Find Here

This blog is where I document my journey as a software developer, sharing insights on:

- **Frontend Development**: Vue.js, React, TypeScript, and modern web technologies
- **Backend Development**: Node.js, Go, APIs, and database design
- **Software Architecture**: Best practices and lessons learned from real projects
- **Career Growth**: Professional development and industry insights

## Let's Connect

I'd love to hear from you! Feel free to reach out through any of the social links on this site.

Happy coding!`

// Seed wipes articles, timeline entries and projects and inserts starter
// content. Destructive; callers gate it behind the admin check.
func Seed(db *gorm.DB) (*SeedResult, error) {
	for _, model := range []any{&models.Article{}, &models.TimelineEntry{}, &models.Project{}} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return nil, err
		}
	}

	now := time.Now()
	articles := []models.Article{
		{
			Title:          "Welcome to My Technical Blog",
			Slug:           "welcome-to-my-blog",
			Excerpt:        "An introduction to my technical blog where I share insights about web development, software architecture, and my professional journey.",
			Content:        welcomeContent,
			Status:         models.StatusPublished,
			Tags:           []string{"meta", "career"},
			ReadingTime:    content.ReadingTime(welcomeContent),
			SEOTitle:       "Welcome to My Technical Blog - Developer Insights",
			SEODescription: "Welcome to my technical blog featuring insights on web development, software architecture, and professional growth.",
			PublishedAt:    &now,
		},
	}
	if err := db.Create(&articles).Error; err != nil {
		return nil, err
	}

	current := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	previousStart := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	previousEnd := time.Date(2021, 2, 28, 0, 0, 0, 0, time.UTC)
	entries := []models.TimelineEntry{
		{
			Company:      "ButterflyMX",
			Role:         "Senior Full Stack Developer",
			Description:  "Leading frontend development initiatives and technical migrations for a smart building technology company.",
			StartDate:    current,
			Technologies: []string{"Vue.js", "React", "TypeScript", "Node.js", "PostgreSQL", "AWS"},
			Achievements: []string{
				"Led migration from Vue 2 to Vue 3 across multiple applications",
				"Implemented new component library reducing development time by 30%",
				"Mentored junior developers and established code review processes",
			},
			SortOrder: 1,
		},
		{
			Company:      "Previous Company",
			Role:         "Frontend Developer",
			Description:  "Developed and maintained web applications using modern JavaScript frameworks.",
			StartDate:    previousStart,
			EndDate:      &previousEnd,
			Technologies: []string{"React", "Angular", "JavaScript", "CSS", "PHP"},
			Achievements: []string{
				"Built responsive web applications serving 50,000+ users",
				"Implemented automated testing reducing bugs by 25%",
			},
			SortOrder: 2,
		},
	}
	if err := db.Create(&entries).Error; err != nil {
		return nil, err
	}

	projects := []models.Project{
		{
			Title:       "Portfolio & Blog",
			Description: "This site: a portfolio and technical blog with an admin panel for articles, projects and a career timeline.",
			ProjectURL:  "https://github.com/",
			Tags:        []string{"Go", "Gin", "SQLite"},
			IsFeatured:  true,
			SortOrder:   1,
		},
	}
	if err := db.Create(&projects).Error; err != nil {
		return nil, err
	}

	return &SeedResult{
		Articles:        len(articles),
		TimelineEntries: len(entries),
		Projects:        len(projects),
	}, nil
}
