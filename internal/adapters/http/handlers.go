package http

import (
	nethttp "net/http"

	"github.com/dkeye/Town/internal/app/orch"
	"github.com/dkeye/Town/internal/core"
	"github.com/dkeye/Town/internal/domain"
	"github.com/gin-gonic/gin"
)

type createRoomRequest struct {
	FriendlyName     string `json:"friendlyName" binding:"notblank"`
	IsPubliclyListed bool   `json:"isPubliclyListed"`
}

type deleteRoomRequest struct {
	Password string `json:"password" binding:"required"`
}

type updateRoomRequest struct {
	Password         string  `json:"password" binding:"required"`
	FriendlyName     *string `json:"friendlyName"`
	IsPubliclyListed *bool   `json:"isPubliclyListed"`
}

type joinRoomRequest struct {
	UserName string `json:"userName" binding:"notblank"`
}

type roomHandlers struct {
	orch *orch.Orchestrator
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		fail(c, nethttp.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

func (h *roomHandlers) create(c *gin.Context) {
	var req createRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	creds, err := h.orch.CreateRoom(req.FriendlyName, req.IsPubliclyListed)
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, creds)
}

func (h *roomHandlers) list(c *gin.Context) {
	rooms := h.orch.ListRooms()
	if rooms == nil {
		rooms = []core.RoomInfo{}
	}
	respond(c, gin.H{"rooms": rooms})
}

func (h *roomHandlers) remove(c *gin.Context) {
	var req deleteRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.orch.DeleteRoom(domain.RoomID(c.Param("roomID")), req.Password); err != nil {
		failErr(c, err)
		return
	}
	respond(c, nil)
}

func (h *roomHandlers) update(c *gin.Context) {
	var req updateRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	upd := domain.RoomUpdate{FriendlyName: req.FriendlyName, IsPubliclyListed: req.IsPubliclyListed}
	if err := h.orch.UpdateRoom(domain.RoomID(c.Param("roomID")), req.Password, upd); err != nil {
		failErr(c, err)
		return
	}
	respond(c, nil)
}

func (h *roomHandlers) join(c *gin.Context) {
	var req joinRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.orch.JoinRoom(c.Request.Context(), req.UserName, domain.RoomID(c.Param("roomID")))
	if err != nil {
		failErr(c, err)
		return
	}
	respond(c, res)
}
