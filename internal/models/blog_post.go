// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// BlogPost is a long-form content entry. The slug is the public lookup key;
// unpublished posts are invisible to unauthenticated readers.
type BlogPost struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Content         string    `json:"content"`
	Excerpt         *string   `json:"excerpt,omitempty"`
	Author          string    `json:"author"`
	PublicationDate time.Time `json:"publication_date"`
	FeaturedImage   *string   `json:"featured_image,omitempty"`
	Tags            []string  `json:"tags"`
	IsPublished     bool      `json:"is_published"`
	SEOTitle        *string   `json:"seo_title,omitempty"`
	SEODescription  *string   `json:"seo_description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
