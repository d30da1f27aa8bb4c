// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"flowsite/internal/models"
)

// BlogStore handles all blog post database operations.
type BlogStore struct {
	db *sql.DB
}

// NewBlogStore creates a new BlogStore with the given database connection.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

const blogColumns = `id, title, slug, content, excerpt, author, publication_date,
		featured_image, tags, is_published, seo_title, seo_description, created_at, updated_at`

func scanBlogPost(row interface{ Scan(...any) error }) (*models.BlogPost, error) {
	p := &models.BlogPost{}
	var tags []byte
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Author,
		&p.PublicationDate, &p.FeaturedImage, &tags, &p.IsPublished,
		&p.SEOTitle, &p.SEODescription, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

// ListPublished returns published posts, newest publication first. This is
// the only listing the public site sees.
func (s *BlogStore) ListPublished() ([]models.BlogPost, error) {
	return s.list(`WHERE is_published = TRUE`)
}

// ListAll returns every post including drafts. Administrative read.
func (s *BlogStore) ListAll() ([]models.BlogPost, error) {
	return s.list(``)
}

func (s *BlogStore) list(where string) ([]models.BlogPost, error) {
	rows, err := s.db.Query(`
		SELECT ` + blogColumns + ` FROM blog_posts ` + where + `
		ORDER BY publication_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	defer rows.Close()

	var posts []models.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// FindPublishedBySlug retrieves a published post by its slug. Unpublished
// posts are invisible here. Returns nil if not found.
func (s *BlogStore) FindPublishedBySlug(slug string) (*models.BlogPost, error) {
	p, err := scanBlogPost(s.db.QueryRow(
		`SELECT `+blogColumns+` FROM blog_posts WHERE slug = $1 AND is_published = TRUE`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// FindByID retrieves a post regardless of publication state. Returns nil if not found.
func (s *BlogStore) FindByID(id int64) (*models.BlogPost, error) {
	p, err := scanBlogPost(s.db.QueryRow(
		`SELECT `+blogColumns+` FROM blog_posts WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// Save inserts the post when its ID is zero and updates it otherwise.
// Author and publication date default when omitted. A duplicate slug
// surfaces as ErrDuplicateSlug rather than silently overwriting.
func (s *BlogStore) Save(p *models.BlogPost) (*models.BlogPost, error) {
	if p.Author == "" {
		p.Author = "Flowsite Team"
	}
	if p.PublicationDate.IsZero() {
		p.PublicationDate = time.Now()
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	if p.ID == 0 {
		saved, err := scanBlogPost(s.db.QueryRow(`
			INSERT INTO blog_posts (title, slug, content, excerpt, author, publication_date,
			                        featured_image, tags, is_published, seo_title, seo_description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING `+blogColumns,
			p.Title, p.Slug, p.Content, p.Excerpt, p.Author, p.PublicationDate,
			p.FeaturedImage, tagsJSON, p.IsPublished, p.SEOTitle, p.SEODescription))
		if err != nil {
			if uniqueViolation(err) {
				return nil, ErrDuplicateSlug
			}
			return nil, fmt.Errorf("create blog post: %w", err)
		}
		return saved, nil
	}

	saved, err := scanBlogPost(s.db.QueryRow(`
		UPDATE blog_posts SET
			title = $1, slug = $2, content = $3, excerpt = $4, author = $5,
			publication_date = $6, featured_image = $7, tags = $8,
			is_published = $9, seo_title = $10, seo_description = $11,
			updated_at = NOW()
		WHERE id = $12
		RETURNING `+blogColumns,
		p.Title, p.Slug, p.Content, p.Excerpt, p.Author, p.PublicationDate,
		p.FeaturedImage, tagsJSON, p.IsPublished, p.SEOTitle, p.SEODescription, p.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if uniqueViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("update blog post: %w", err)
	}
	return saved, nil
}

// Delete removes a post by ID.
func (s *BlogStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	return nil
}
