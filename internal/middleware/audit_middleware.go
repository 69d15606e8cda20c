package middleware

import (
	"context"
	"time"

	"itms-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// auditStore is the slice of AuditLogRepository the middleware needs. Tests
// plug in an in-memory implementation.
type auditStore interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// AuditMiddleware records mutating requests in the audit log after the
// handler runs. Reads are not logged.
type AuditMiddleware struct {
	auditRepo auditStore
}

func NewAuditMiddleware(auditRepo auditStore) *AuditMiddleware {
	return &AuditMiddleware{auditRepo: auditRepo}
}

var auditActions = map[string]string{
	"POST":   "create",
	"PUT":    "update",
	"PATCH":  "update",
	"DELETE": "delete",
}

// Record tags the route with a resource type and writes one audit entry per
// mutating request. The write happens off the request goroutine so a slow
// audit insert never delays the response.
func (m *AuditMiddleware) Record(resourceType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		action, ok := auditActions[c.Request.Method]
		if !ok {
			return
		}

		entry := &models.AuditLog{
			Action:       action,
			ResourceType: &resourceType,
			UserAgent:    stringPtrOrNil(c.Request.UserAgent()),
		}

		if ip := c.ClientIP(); ip != "" {
			entry.IPAddress = &ip
		}
		if userIDStr, exists := c.Get("user_id"); exists {
			if userID, err := uuid.Parse(userIDStr.(string)); err == nil {
				entry.UserID = &userID
			}
		}
		if orgIDStr, exists := c.Get("org_id"); exists {
			if orgID, err := uuid.Parse(orgIDStr.(string)); err == nil {
				entry.OrgID = &orgID
			}
		}
		if id := c.Param("id"); id != "" {
			entry.ResourceID = &id
		}

		status := "success"
		if c.Writer.Status() >= 400 {
			status = "failure"
		}
		entry.Status = status

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := m.auditRepo.Create(ctx, entry); err != nil {
				log.Warn().Err(err).
					Str("action", entry.Action).
					Str("resource_type", resourceType).
					Msg("failed to write audit log")
			}
		}()
	}
}

func stringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
