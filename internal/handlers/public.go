// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"flowsite/internal/cache"
	"flowsite/internal/mailer"
	"flowsite/internal/middleware"
	"flowsite/internal/models"
	"flowsite/internal/store"
)

// Public groups the unauthenticated JSON handlers: the templates
// marketplace, the blog, contact submissions, and the public settings map.
type Public struct {
	templates     *store.TemplateStore
	blog          *store.BlogStore
	contacts      *store.ContactStore
	downloads     *store.DownloadStore
	settings      *store.SettingStore
	settingsCache *cache.SettingsCache
	mail          mailer.Mailer
}

// NewPublic creates the public handler group.
func NewPublic(templates *store.TemplateStore, blog *store.BlogStore, contacts *store.ContactStore, downloads *store.DownloadStore, settings *store.SettingStore, settingsCache *cache.SettingsCache, mail mailer.Mailer) *Public {
	return &Public{
		templates:     templates,
		blog:          blog,
		contacts:      contacts,
		downloads:     downloads,
		settings:      settings,
		settingsCache: settingsCache,
		mail:          mail,
	}
}

// ListTemplates returns all templates in the public projection, without the
// workflow payload.
func (p *Public) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := p.templates.List()
	if err != nil {
		serverError(w, "list templates failed", err)
		return
	}
	if templates == nil {
		templates = []models.TemplateSummary{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// GetTemplate returns a single template including its workflow payload.
func (p *Public) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}

	tmpl, err := p.templates.FindByID(id)
	if err != nil {
		serverError(w, "get template failed", err)
		return
	}
	if tmpl == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

// downloadRequest is the POST /templates/download body.
type downloadRequest struct {
	TemplateID   int64  `json:"templateId"`
	Email        string `json:"email"`
	IPAddress    string `json:"ipAddress"`
	DownloadType string `json:"downloadType"`
}

// DownloadTemplate records a free template acquisition and notifies the
// requester. The recorded download is authoritative: email failure is
// logged and reported via emailSent, never as a request failure.
func (p *Public) DownloadTemplate(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TemplateID == 0 || req.Email == "" {
		writeError(w, http.StatusBadRequest, "templateId and email are required")
		return
	}

	tmpl, err := p.templates.FindByID(req.TemplateID)
	if err != nil {
		serverError(w, "download template lookup failed", err)
		return
	}
	if tmpl == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	ip := req.IPAddress
	if ip == "" {
		ip = middleware.ClientIP(r)
	}

	if _, err := p.downloads.Record(req.TemplateID, req.Email, &ip, models.DownloadType(req.DownloadType)); err != nil {
		serverError(w, "record download failed", err)
		return
	}

	emailSent := true
	if err := p.mail.SendDownloadLink(req.Email, tmpl); err != nil {
		slog.Error("download email failed", "template_id", tmpl.ID, "to", req.Email, "error", err)
		emailSent = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "download recorded",
		"emailSent": emailSent,
	})
}

// ListBlog returns published posts only.
func (p *Public) ListBlog(w http.ResponseWriter, r *http.Request) {
	posts, err := p.blog.ListPublished()
	if err != nil {
		serverError(w, "list blog failed", err)
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetBlogPost returns a single published post by slug, or 404. Unpublished
// posts are indistinguishable from missing ones here.
func (p *Public) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := p.blog.FindPublishedBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, "get blog post failed", err)
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// contactRequest is the POST /contact body.
type contactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Message  string `json:"message"`
	FormType string `json:"formType"`
}

// CreateContact records an inbound submission, capturing the caller's IP
// and user agent, and notifies the site inbox best-effort.
func (p *Public) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "name, email and message are required")
		return
	}

	ip := middleware.ClientIP(r)
	ua := r.UserAgent()
	sub, err := p.contacts.Create(&models.ContactSubmission{
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		FormType:  req.FormType,
		IPAddress: &ip,
		UserAgent: &ua,
	})
	if err != nil {
		serverError(w, "create contact failed", err)
		return
	}

	if to := p.notificationAddress(); to != "" {
		if err := p.mail.SendContactNotification(to, sub); err != nil {
			slog.Error("contact notification email failed", "submission_id", sub.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, sub)
}

// notificationAddress resolves the inbox for contact notifications from the
// settings store.
func (p *Public) notificationAddress() string {
	for _, key := range []string{"webhook_alert_email", "contact_email"} {
		setting, err := p.settings.FindByKey(key)
		if err != nil {
			slog.Warn("notification address lookup failed", "key", key, "error", err)
			continue
		}
		if setting != nil && setting.Value != "" {
			return setting.Value
		}
	}
	return ""
}

// PublicSettings returns the decoded public settings map, served from the
// Valkey cache when warm.
func (p *Public) PublicSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if m, ok := p.settingsCache.Get(ctx); ok {
		writeJSON(w, http.StatusOK, m)
		return
	}

	m, err := p.settings.PublicMap()
	if err != nil {
		serverError(w, "public settings failed", err)
		return
	}

	p.settingsCache.Set(ctx, m)
	writeJSON(w, http.StatusOK, m)
}
