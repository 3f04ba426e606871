package notif

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"chatrelay/internal/common"
)

// Handler exposes the notification inbox over REST.
type Handler struct {
	service *NotificationService
}

func NewHandler(service *NotificationService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.List)
	rg.GET("/notifications/unread-count", h.UnreadCount)
	rg.POST("/notifications", h.Create)
	rg.POST("/notifications/:id/read", h.MarkRead)
	rg.POST("/notifications/read-all", h.MarkAllRead)
	rg.DELETE("/notifications/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	notifications, total, err := h.service.List(c.Request.Context(), common.UserID(c), limit, offset)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondOK(c, common.Page{Items: notifications, Total: total})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context(), common.UserID(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondOK(c, gin.H{"unread": count})
}

type createRequest struct {
	UserID      string                      `json:"user_id" binding:"required"`
	Header      string                      `json:"header" binding:"required"`
	Content     string                      `json:"content" binding:"required"`
	Type        string                      `json:"type"`
	Priority    int                         `json:"priority"`
	ScheduledAt *time.Time                  `json:"scheduled_at"`
	Metadata    common.NotificationMetadata `json:"metadata"`
}

// Create accepts a direct (possibly scheduled) notification, e.g. from an
// internal tool or another backend service.
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.ErrValidation)
		return
	}

	notifType := common.NotificationType(req.Type)
	if notifType == "" {
		notifType = common.NotifSystemType
	}
	callerID := common.UserID(c)

	err := h.service.Send(c.Request.Context(), common.NotificationEvent{
		Type:          notifType,
		UserID:        req.UserID,
		TriggerUserID: &callerID,
		Header:        req.Header,
		Content:       req.Content,
		Priority:      req.Priority,
		ScheduledAt:   req.ScheduledAt,
		Metadata:      req.Metadata,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondCreated(c, gin.H{"user_id": req.UserID})
}

func (h *Handler) MarkRead(c *gin.Context) {
	err := h.service.MarkAsRead(c.Request.Context(), c.Param("id"), common.UserID(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondOK(c, gin.H{"id": c.Param("id")})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllAsRead(c.Request.Context(), common.UserID(c)); err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondOK(c, gin.H{"status": "ok"})
}

func (h *Handler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("id"), common.UserID(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondOK(c, gin.H{"id": c.Param("id")})
}
