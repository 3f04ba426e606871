package message

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"chatrelay/internal/common"
	"chatrelay/internal/dbmysql"
)

// Handler exposes the Message Router over REST. The same service also sits
// behind the WebSocket hub; REST covers history and clients without a live
// socket.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/rooms/:roomID/messages", h.History)
	rg.POST("/rooms/:roomID/messages", h.Send)
	rg.PATCH("/messages/:messageID", h.Edit)
	rg.DELETE("/messages/:messageID", h.Delete)
}

type sendRequest struct {
	Content      string  `json:"content"`
	Type         string  `json:"type"`
	ReplyToID    *string `json:"reply_to_id"`
	AttachmentID *string `json:"attachment_id"`
}

func (h *Handler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.ErrValidation)
		return
	}

	msg, err := h.service.Send(c.Request.Context(), SendInput{
		RoomID:       c.Param("roomID"),
		SenderID:     common.UserID(c),
		Content:      req.Content,
		Type:         dbmysql.MessageType(req.Type),
		ReplyToID:    req.ReplyToID,
		AttachmentID: req.AttachmentID,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondCreated(c, msg)
}

func (h *Handler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, total, err := h.service.History(c.Request.Context(), common.UserID(c), c.Param("roomID"), limit, offset)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondOK(c, common.Page{Items: messages, Total: total})
}

type editRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) Edit(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.ErrValidation)
		return
	}

	msg, err := h.service.Edit(c.Request.Context(), common.UserID(c), c.Param("messageID"), req.Content)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondOK(c, msg)
}

func (h *Handler) Delete(c *gin.Context) {
	msg, err := h.service.Delete(c.Request.Context(), common.UserID(c), c.Param("messageID"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondOK(c, gin.H{"id": msg.ID, "room_id": msg.RoomID, "is_deleted": true})
}
