package handlers

import (
	"net/http"
	"strconv"

	"github.com/nazmulfx/Study-Buddy/internal/metrics"
	"github.com/nazmulfx/Study-Buddy/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type RoomHandler struct {
	roomService    *services.RoomService
	messageService *services.MessageService
}

func NewRoomHandler(roomService *services.RoomService, messageService *services.MessageService) *RoomHandler {
	return &RoomHandler{roomService: roomService, messageService: messageService}
}

type RoomRequest struct {
	Topic       string `json:"topic" binding:"required,min=1,max=200" example:"Math"`
	Name        string `json:"name" binding:"required,min=1,max=250" example:"Algebra Help"`
	Description string `json:"description" example:"Linear equations study group"`
}

type PostMessageRequest struct {
	Body string `json:"body" binding:"required,min=1" example:"Anyone up for a session tonight?"`
}

// CreateRoom godoc
// @Summary      Create a room
// @Description  Create a discussion room hosted by the authenticated user; the topic is created if it doesn't exist yet
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RoomRequest true "Room data"
// @Success      201 {object} Room
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.roomService.Create(userID, req.Topic, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.RoomsCreated.Inc()
	log.Info().Uint("room_id", room.ID).Uint("host_id", userID).Msg("room created")
	c.JSON(http.StatusCreated, room)
}

// GetRoom godoc
// @Summary      Get a room
// @Description  Room detail with topic, host, participants and all messages
// @Tags         rooms
// @Produce      json
// @Param        id path int true "Room ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{id} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}

	room, err := h.roomService.Get(uint(roomID))
	if err != nil {
		respondError(c, err)
		return
	}

	messages, err := h.messageService.ListByRoom(room.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room":         room,
		"messages":     messages,
		"participants": room.Participants,
	})
}

// UpdateRoom godoc
// @Summary      Update a room
// @Description  Overwrite name, description and topic; host only
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Param        request body RoomRequest true "Room data"
// @Success      200 {object} Room
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{id} [put]
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	userID := c.GetUint("user_id")
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}

	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.roomService.Update(uint(roomID), userID, req.Topic, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// DeleteRoom godoc
// @Summary      Delete a room
// @Description  Delete a room and its messages; host only
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{id} [delete]
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	userID := c.GetUint("user_id")
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}

	if err := h.roomService.Delete(uint(roomID), userID); err != nil {
		respondError(c, err)
		return
	}

	log.Info().Uint64("room_id", roomID).Uint("user_id", userID).Msg("room deleted")
	c.JSON(http.StatusOK, MessageResponse{Message: "room deleted"})
}

// PostMessage godoc
// @Summary      Post a message
// @Description  Post a message in a room; the author joins the participant set
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Room ID"
// @Param        request body PostMessageRequest true "Message body"
// @Success      201 {object} Message
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{id}/messages [post]
func (h *RoomHandler) PostMessage(c *gin.Context) {
	userID := c.GetUint("user_id")
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	msg, err := h.messageService.Post(uint(roomID), userID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.MessagesPosted.Inc()
	c.JSON(http.StatusCreated, msg)
}

// DeleteMessage godoc
// @Summary      Delete a message
// @Description  Delete a message; author only
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Message ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/messages/{id} [delete]
func (h *RoomHandler) DeleteMessage(c *gin.Context) {
	userID := c.GetUint("user_id")
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid message id"})
		return
	}

	if err := h.messageService.Delete(uint(messageID), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "message deleted"})
}
