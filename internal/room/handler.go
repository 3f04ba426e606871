package room

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"chatrelay/internal/common"
)

// Handler exposes the Room Registry over REST.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the room endpoints on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rooms/direct", h.CreateDirectRoom)
	rg.POST("/rooms/group", h.CreateGroupRoom)
	rg.GET("/rooms", h.ListRooms)
	rg.GET("/rooms/:roomID", h.GetRoom)
	rg.GET("/rooms/:roomID/members", h.ListMembers)
	rg.POST("/rooms/:roomID/members", h.AddMember)
	rg.DELETE("/rooms/:roomID/members/:userID", h.RemoveMember)
	rg.POST("/rooms/:roomID/read", h.MarkRead)
}

type createDirectRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *Handler) CreateDirectRoom(c *gin.Context) {
	var req createDirectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.ErrValidation)
		return
	}

	callerID := common.UserID(c)
	room, created, err := h.service.GetOrCreateDirect(c.Request.Context(), callerID, req.UserID)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	if created {
		logrus.WithFields(logrus.Fields{"room_id": room.ID, "user_id": callerID}).Info("direct room created")
		common.RespondCreated(c, room)
		return
	}
	common.RespondOK(c, room)
}

type createGroupRequest struct {
	Name      string   `json:"name" binding:"required"`
	MemberIDs []string `json:"member_ids"`
}

func (h *Handler) CreateGroupRoom(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.ErrValidation)
		return
	}

	callerID := common.UserID(c)
	room, err := h.service.CreateGroup(c.Request.Context(), callerID, req.Name, req.MemberIDs)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"room_id": room.ID, "user_id": callerID}).Info("group room created")
	common.RespondCreated(c, room)
}

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context(), common.UserID(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondOK(c, common.Page{Items: rooms, Total: int64(len(rooms))})
}

func (h *Handler) GetRoom(c *gin.Context) {
	room, err := h.service.Room(c.Request.Context(), common.UserID(c), c.Param("roomID"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondOK(c, room)
}

func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.service.ListMembers(c.Request.Context(), common.UserID(c), c.Param("roomID"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondOK(c, common.Page{Items: members, Total: int64(len(members))})
}

type addMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *Handler) AddMember(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.ErrValidation)
		return
	}

	err := h.service.AddMember(c.Request.Context(), common.UserID(c), c.Param("roomID"), req.UserID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondOK(c, gin.H{"room_id": c.Param("roomID"), "user_id": req.UserID})
}

func (h *Handler) RemoveMember(c *gin.Context) {
	err := h.service.RemoveMember(c.Request.Context(), common.UserID(c), c.Param("roomID"), c.Param("userID"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondOK(c, gin.H{"room_id": c.Param("roomID"), "user_id": c.Param("userID")})
}

type markReadRequest struct {
	MessageID string `json:"message_id" binding:"required"`
}

func (h *Handler) MarkRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.ErrValidation)
		return
	}

	err := h.service.MarkRead(c.Request.Context(), common.UserID(c), c.Param("roomID"), req.MessageID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondOK(c, gin.H{"room_id": c.Param("roomID"), "message_id": req.MessageID})
}
