// Package httpapi is the HTTP surface of the server: the three dataset
// queries behind a session check, account endpoints and a health probe.
package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/blocksearch/internal/logging"
	"github.com/dmitrijs2005/blocksearch/internal/server/models"
	"github.com/dmitrijs2005/blocksearch/internal/server/services"
	"github.com/gin-gonic/gin"
)

const blockRequired = "Block number is required"

type SearchService interface {
	Search(ctx context.Context, q services.Query) ([]models.Record, error)
	DisReport(ctx context.Context, q services.Query) ([]models.DisReportResult, error)
	DisRpt(ctx context.Context, q services.Query) ([]models.DisRptResult, error)
}

type AccountService interface {
	Register(ctx context.Context, username, password, email string) (*services.Session, error)
	Login(ctx context.Context, username, password string) (*services.Session, error)
	Authenticate(token string) (int64, error)
	Me(ctx context.Context, id int64) (*models.User, error)
}

// CookieSettings controls the session cookie.
type CookieSettings struct {
	Name   string
	Secure bool
}

type Handler struct {
	search   SearchService
	accounts AccountService
	cookie   CookieSettings
	logger   logging.Logger
}

func NewHandler(search SearchService, accounts AccountService, cookie CookieSettings, l logging.Logger) *Handler {
	return &Handler{
		search:   search,
		accounts: accounts,
		cookie:   cookie,
		logger:   l.With("module", "http"),
	}
}

// RegisterRoutes mounts the API under router, normally the /api group.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)

	authed := router.Group("", h.RequireSession)
	authed.GET("/user", h.CurrentUser)
	authed.GET("/search", h.Search)
	authed.GET("/dis-report", h.DisReport)
	authed.GET("/dis-rpt", h.DisRpt)
}

func queryFrom(c *gin.Context) services.Query {
	return services.Query{
		BlockNo:   c.Query("blockNo"),
		PartNo:    c.Query("partNo"),
		Thickness: c.Query("thickness"),
	}
}

func (h *Handler) log(c *gin.Context) logging.Logger {
	return h.logger.With("request_id", c.GetString(requestIDKey))
}

// Search answers GET /api/search with pruned records. Errors are plain text.
func (h *Handler) Search(c *gin.Context) {
	q := queryFrom(c)
	if strings.TrimSpace(q.BlockNo) == "" {
		c.String(http.StatusBadRequest, blockRequired)
		return
	}

	results, err := h.search.Search(c.Request.Context(), q)
	if err != nil {
		h.log(c).Error(c.Request.Context(), "search failed", "blockNo", q.BlockNo, "error", err)
		c.String(http.StatusInternalServerError, "Failed to fetch search results")
		return
	}

	c.JSON(http.StatusOK, results)
}

// DisReport answers GET /api/dis-report. Errors are JSON {message}.
func (h *Handler) DisReport(c *gin.Context) {
	q := queryFrom(c)
	if strings.TrimSpace(q.BlockNo) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": blockRequired})
		return
	}

	results, err := h.search.DisReport(c.Request.Context(), q)
	if err != nil {
		h.log(c).Error(c.Request.Context(), "dis report failed", "blockNo", q.BlockNo, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch Dis Report results"})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *Handler) DisRpt(c *gin.Context) {
	q := queryFrom(c)
	if strings.TrimSpace(q.BlockNo) == "" {
		c.String(http.StatusBadRequest, blockRequired)
		return
	}

	results, err := h.search.DisRpt(c.Request.Context(), q)
	if err != nil {
		h.log(c).Error(c.Request.Context(), "dis rpt failed", "blockNo", q.BlockNo, "error", err)
		c.String(http.StatusInternalServerError, "Failed to fetch Main Page 2 results")
		return
	}

	c.JSON(http.StatusOK, results)
}

// Health answers GET /healthz.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
