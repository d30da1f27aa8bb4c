// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"flowsite/internal/auth"
	"flowsite/internal/cache"
	"flowsite/internal/models"
	"flowsite/internal/store"
)

// Admin groups the content management handlers. The same group serves two
// route trees with an identical contract: /admin (bearer JWT, admin role)
// and the /n8n gateway (API key) for external automation tools.
type Admin struct {
	templates     *store.TemplateStore
	blog          *store.BlogStore
	contacts      *store.ContactStore
	settings      *store.SettingStore
	stats         *store.StatsStore
	settingsCache *cache.SettingsCache
}

// NewAdmin creates the admin handler group.
func NewAdmin(templates *store.TemplateStore, blog *store.BlogStore, contacts *store.ContactStore, settings *store.SettingStore, stats *store.StatsStore, settingsCache *cache.SettingsCache) *Admin {
	return &Admin{
		templates:     templates,
		blog:          blog,
		contacts:      contacts,
		settings:      settings,
		stats:         stats,
		settingsCache: settingsCache,
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// --- Templates ---

// ListTemplates returns all templates in summary form.
func (a *Admin) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := a.templates.List()
	if err != nil {
		serverError(w, "admin list templates failed", err)
		return
	}
	if templates == nil {
		templates = []models.TemplateSummary{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// GetTemplate returns one template with its workflow payload.
func (a *Admin) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}
	tmpl, err := a.templates.FindByID(id)
	if err != nil {
		serverError(w, "admin get template failed", err)
		return
	}
	if tmpl == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

// SaveTemplate upserts a template: a populated id updates, a zero id
// inserts. An omitted workflow payload is persisted as the default empty
// graph, never null.
func (a *Admin) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var tmpl models.Template
	if !decodeBody(w, r, &tmpl) {
		return
	}
	if tmpl.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if tmpl.Price < 0 {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	saved, err := a.templates.Save(&tmpl)
	if err != nil {
		serverError(w, "save template failed", err)
		return
	}
	if saved == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	status := http.StatusOK
	if tmpl.ID == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

// DeleteTemplate removes a template by id.
func (a *Admin) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}
	if err := a.templates.Delete(id); err != nil {
		serverError(w, "delete template failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "template deleted"})
}

// --- Blog ---

// ListBlog returns every post including drafts.
func (a *Admin) ListBlog(w http.ResponseWriter, r *http.Request) {
	posts, err := a.blog.ListAll()
	if err != nil {
		serverError(w, "admin list blog failed", err)
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetBlogPost returns one post by id regardless of publication state.
func (a *Admin) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}
	post, err := a.blog.FindByID(id)
	if err != nil {
		serverError(w, "admin get blog post failed", err)
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// SaveBlogPost upserts a post. The author defaults to the authenticated
// principal when omitted; a duplicate slug is a conflict, not an overwrite.
func (a *Admin) SaveBlogPost(w http.ResponseWriter, r *http.Request) {
	var post models.BlogPost
	if !decodeBody(w, r, &post) {
		return
	}
	if post.Title == "" || post.Slug == "" {
		writeError(w, http.StatusBadRequest, "title and slug are required")
		return
	}
	if post.Author == "" {
		if p := auth.PrincipalFromCtx(r.Context()); p != nil && p.Name != "" {
			post.Author = p.Name
		}
	}

	saved, err := a.blog.Save(&post)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateSlug) {
			writeError(w, http.StatusConflict, "slug already in use")
			return
		}
		serverError(w, "save blog post failed", err)
		return
	}
	if saved == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	status := http.StatusOK
	if post.ID == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

// DeleteBlogPost removes a post by id.
func (a *Admin) DeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}
	if err := a.blog.Delete(id); err != nil {
		serverError(w, "delete blog post failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

// --- Contacts ---

// ListContacts returns all submissions, newest first.
func (a *Admin) ListContacts(w http.ResponseWriter, r *http.Request) {
	submissions, err := a.contacts.List()
	if err != nil {
		serverError(w, "list contacts failed", err)
		return
	}
	if submissions == nil {
		submissions = []models.ContactSubmission{}
	}
	writeJSON(w, http.StatusOK, submissions)
}

// GetContact returns one submission.
func (a *Admin) GetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid submission id")
		return
	}
	sub, err := a.contacts.FindByID(id)
	if err != nil {
		serverError(w, "get contact failed", err)
		return
	}
	if sub == nil {
		writeError(w, http.StatusNotFound, "submission not found")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// --- Settings ---

// ListSettings returns every setting row, private ones included.
func (a *Admin) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := a.settings.All()
	if err != nil {
		serverError(w, "list settings failed", err)
		return
	}
	if settings == nil {
		settings = []models.SiteSetting{}
	}
	writeJSON(w, http.StatusOK, settings)
}

// settingRequest is the PUT /admin/settings/{key} body.
type settingRequest struct {
	Value       any                `json:"value"`
	Type        models.SettingType `json:"type"`
	IsPublic    bool               `json:"isPublic"`
	Description *string            `json:"description,omitempty"`
}

// UpsertSetting writes one setting by key and invalidates the public cache.
func (a *Admin) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "setting key is required")
		return
	}

	var req settingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Type == "" {
		req.Type = models.SettingString
	}
	if !models.ValidSettingType(req.Type) {
		writeError(w, http.StatusBadRequest, "unknown setting type")
		return
	}

	setting, err := a.settings.Upsert(key, req.Value, req.Type, req.IsPublic, req.Description)
	if err != nil {
		serverError(w, "upsert setting failed", err)
		return
	}

	a.settingsCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, setting)
}

// bulkSettingsRequest is the PUT /admin/settings body.
type bulkSettingsRequest struct {
	Settings []store.SettingWrite `json:"settings"`
}

// BulkUpsertSettings applies a batch of writes all-or-nothing and
// invalidates the public cache.
func (a *Admin) BulkUpsertSettings(w http.ResponseWriter, r *http.Request) {
	var req bulkSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Settings) == 0 {
		writeError(w, http.StatusBadRequest, "settings list is empty")
		return
	}
	for _, s := range req.Settings {
		if s.Type != "" && !models.ValidSettingType(s.Type) {
			writeError(w, http.StatusBadRequest, "unknown setting type for "+s.Key)
			return
		}
	}

	settings, err := a.settings.BulkUpsert(req.Settings)
	if err != nil {
		serverError(w, "bulk settings update failed", err)
		return
	}

	a.settingsCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, settings)
}

// DeleteSetting removes a setting row entirely and invalidates the cache.
func (a *Admin) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	setting, err := a.settings.Delete(key)
	if err != nil {
		serverError(w, "delete setting failed", err)
		return
	}
	if setting == nil {
		writeError(w, http.StatusNotFound, "setting not found")
		return
	}

	a.settingsCache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, setting)
}

// --- Dashboard ---

// Stats returns the dashboard aggregate counts.
func (a *Admin) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.stats.Dashboard(r.Context())
	if err != nil {
		serverError(w, "dashboard stats failed", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
