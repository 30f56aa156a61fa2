package server

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ngenohkevin/aura-explorer/config"
	"github.com/ngenohkevin/aura-explorer/internal/assistant"
	"github.com/ngenohkevin/aura-explorer/internal/catalog"
	"github.com/ngenohkevin/aura-explorer/internal/explorer"
	"github.com/ngenohkevin/aura-explorer/internal/importer"
	"github.com/ngenohkevin/aura-explorer/internal/logging"
	"github.com/ngenohkevin/aura-explorer/internal/system"
)

const (
	version         = "1.0.0"
	defaultTokenTTL = 24 * time.Hour
	maxTokenTTL     = 30 * 24 * time.Hour
)

// Handlers holds all HTTP handlers
type Handlers struct {
	cfg         *config.Config
	workspace   *explorer.Workspace
	collector   *system.Collector
	auth        *AuthService
	defaultLang assistant.Language
}

// NewHandlers creates a new handlers instance
func NewHandlers(cfg *config.Config, ws *explorer.Workspace, auth *AuthService) *Handlers {
	lang, err := assistant.ParseLanguage(cfg.DefaultLanguage)
	if err != nil {
		lang = assistant.Portuguese
	}
	return &Handlers{
		cfg:         cfg,
		workspace:   ws,
		collector:   system.NewCollector(),
		auth:        auth,
		defaultLang: lang,
	}
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, importer.ErrAccessDenied), errors.Is(err, fs.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, importer.ErrNoContent),
		errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, importer.ErrUnknownSource),
		errors.Is(err, importer.ErrNotDirectory),
		errors.Is(err, importer.ErrIsDirectory),
		errors.Is(err, explorer.ErrNotFolder),
		errors.Is(err, assistant.ErrBlankMessage):
		return http.StatusBadRequest
	case errors.Is(err, assistant.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("request failed", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   version,
	})
}

// GetInfo handles GET /api/info
func (h *Handlers) GetInfo(c *gin.Context) {
	hostInfo, err := h.collector.HostInfo()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hostname":  hostInfo.Hostname,
		"os":        hostInfo.OS,
		"platform":  hostInfo.Platform,
		"kernel":    hostInfo.KernelVersion,
		"arch":      hostInfo.KernelArch,
		"uptime":    hostInfo.UptimeHuman,
		"agent":     "aura-explorer",
		"version":   version,
		"revision":  h.workspace.Revision(),
		"assistant": h.cfg.AssistantEnabled(),
	})
}

type tokenRequest struct {
	Role       string `json:"role"`
	TTLMinutes int    `json:"ttl_minutes"`
}

// IssueToken handles POST /api/auth/token
func (h *Handlers) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = RoleViewer
	}
	if !ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be owner or viewer"})
		return
	}

	ttl := defaultTokenTTL
	if req.TTLMinutes > 0 {
		ttl = time.Duration(req.TTLMinutes) * time.Minute
	}
	if ttl > maxTokenTTL {
		ttl = maxTokenTTL
	}

	token, err := h.auth.GenerateToken(req.Role, ttl)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"role":       req.Role,
		"expires_at": time.Now().Add(ttl).UTC(),
	})
}

// ListFiles handles GET /api/files. The optional folder, category and
// search parameters are validated together, then applied to the view state
// in that order.
func (h *Handlers) ListFiles(c *gin.Context) {
	ctx := c.Request.Context()

	rawCategory, hasCategory := c.GetQuery("category")
	var category catalog.Category
	if hasCategory {
		parsed, err := catalog.ParseCategory(rawCategory)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		category = parsed
	}

	// Navigate validates the folder before touching the state
	if folder, ok := c.GetQuery("folder"); ok {
		if _, err := h.workspace.Navigate(ctx, folderRef(folder)); err != nil {
			respondError(c, err)
			return
		}
	}
	if hasCategory {
		h.workspace.Dispatch(explorer.SelectCategory{Category: category})
	}
	if search, ok := c.GetQuery("search"); ok {
		h.workspace.Dispatch(explorer.SetSearch{Text: search})
	}

	c.JSON(http.StatusOK, h.workspace.View())
}

// folderRef turns "" or "root" into the root folder
func folderRef(id string) *string {
	if id == "root" {
		return nil
	}
	return catalog.Ref(id)
}

// GetFile handles GET /api/files/:id
func (h *Handlers) GetFile(c *gin.Context) {
	record, err := h.workspace.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetFileContent handles GET /api/files/:id/content
func (h *Handlers) GetFileContent(c *gin.Context) {
	content, err := h.workspace.Content(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

// DeleteFile handles DELETE /api/files/:id
func (h *Handlers) DeleteFile(c *gin.Context) {
	if err := h.workspace.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetBreadcrumbs handles GET /api/files/:id/breadcrumbs
func (h *Handlers) GetBreadcrumbs(c *gin.Context) {
	crumbs, err := h.workspace.Breadcrumbs(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"breadcrumbs": crumbs})
}

type viewRequest struct {
	Action   string  `json:"action" binding:"required"`
	FolderID *string `json:"folder_id"`
	Text     string  `json:"text"`
	Category string  `json:"category"`
	Mode     string  `json:"mode"`
	Language string  `json:"language"`
}

// DispatchView handles POST /api/view
func (h *Handlers) DispatchView(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var action explorer.Action
	switch req.Action {
	case "navigate":
		view, err := h.workspace.Navigate(c.Request.Context(), req.FolderID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
		return
	case "search":
		action = explorer.SetSearch{Text: req.Text}
	case "category":
		category, err := catalog.ParseCategory(req.Category)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		action = explorer.SelectCategory{Category: category}
	case "reset":
		action = explorer.ResetView{}
	case "view_mode":
		mode, err := explorer.ParseViewMode(req.Mode)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		action = explorer.SetViewMode{Mode: mode}
	case "language":
		lang, err := h.requestLanguage(c, req.Language)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		action = explorer.SetLanguage{Language: lang}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action " + req.Action})
		return
	}

	c.JSON(http.StatusOK, h.workspace.Dispatch(action))
}

// requestLanguage parses an explicit tag, falling back to Accept-Language
func (h *Handlers) requestLanguage(c *gin.Context, tag string) (assistant.Language, error) {
	if tag != "" {
		return assistant.ParseLanguage(tag)
	}
	return assistant.FromAcceptLanguage(c.GetHeader("Accept-Language"), h.defaultLang), nil
}

type importRequest struct {
	Source string `json:"source" binding:"required"`
	Path   string `json:"path"`
}

// Import handles POST /api/import
func (h *Handlers) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.workspace.Import(c.Request.Context(), req.Source, req.Path)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListSources handles GET /api/sources
func (h *Handlers) ListSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": h.workspace.Sources()})
}

// GetStorage handles GET /api/storage
func (h *Handlers) GetStorage(c *gin.Context) {
	report, err := h.workspace.Usage(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetMessages handles GET /api/assistant/messages
func (h *Handlers) GetMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"messages": h.workspace.Messages(),
		"pending":  h.workspace.AssistantPending(),
	})
}

type messageRequest struct {
	Text string `json:"text"`
}

// PostMessage handles POST /api/assistant/messages
func (h *Handlers) PostMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.workspace.Ask(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// Close releases handler resources
func (h *Handlers) Close() error {
	h.collector.Close()
	return nil
}
