package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/entities"
)

// AuditLog reads back the recorded catalog changes.
type AuditLog interface {
	GetEvents(ctx context.Context, limit, offset int) ([]entities.AuditEvent, int64, error)
	History(ctx context.Context, kind catalog.Kind, id string) ([]entities.AuditEvent, error)
}

type AuditController struct {
	auditLog AuditLog
}

func NewAuditController(auditLog AuditLog) *AuditController {
	return &AuditController{
		auditLog: auditLog,
	}
}

// RegisterRoutes mounts the audit log and the per record history pages.
func (ac *AuditController) RegisterRoutes(router gin.IRouter) {
	g := router.Group("/catalog")
	g.GET("/audit", ac.Events)
	for _, kind := range []catalog.Kind{catalog.KindAuthor, catalog.KindGenre, catalog.KindBook, catalog.KindBookInstance} {
		g.GET("/"+string(kind)+"/:id/history", ac.History(kind))
	}
}

// Events returns paginated audit events as JSON
// GET /catalog/audit
func (ac *AuditController) Events(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}
	offset := (page - 1) * limit

	events, total, err := ac.auditLog.GetEvents(c.Request.Context(), limit, offset)
	if err != nil {
		respondInternalError(c, err, "get audit events")
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"events":       events,
		"page":         page,
		"limit":        limit,
		"total_pages":  totalPages,
		"total_events": total,
	})
}

// History returns the events recorded for one record, oldest first.
// GET /catalog/{kind}/:id/history
func (ac *AuditController) History(kind catalog.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		events, err := ac.auditLog.History(c.Request.Context(), kind, id)
		if err != nil {
			respondInternalError(c, err, "get "+string(kind)+" history")
			return
		}
		if events == nil {
			events = []entities.AuditEvent{}
		}
		c.JSON(http.StatusOK, gin.H{
			"kind":   kind,
			"id":     id,
			"events": events,
		})
	}
}
