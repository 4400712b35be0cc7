package handlers

import (
	"net/http"

	"github.com/nazmulfx/Study-Buddy/internal/services"

	"github.com/gin-gonic/gin"
)

// Listing caps carried over from the original site: at most 99 rooms or
// messages per listing, 5 topics on the home page.
const (
	maxListedRooms    = 99
	maxListedMessages = 99
	homeTopicCount    = 5
)

type ListingHandler struct {
	roomService    *services.RoomService
	messageService *services.MessageService
	topicService   *services.TopicService
}

func NewListingHandler(roomService *services.RoomService, messageService *services.MessageService, topicService *services.TopicService) *ListingHandler {
	return &ListingHandler{roomService: roomService, messageService: messageService, topicService: topicService}
}

// Home godoc
// @Summary      Home listing
// @Description  Rooms matching q across topic name, room name and description, plus topics and recent matching messages
// @Tags         listing
// @Produce      json
// @Param        q query string false "Search query"
// @Success      200 {object} map[string]interface{}
// @Router       /api/v1/rooms [get]
func (h *ListingHandler) Home(c *gin.Context) {
	q := c.Query("q")

	rooms, err := h.roomService.Search(q, maxListedRooms)
	if err != nil {
		respondError(c, err)
		return
	}
	topics, err := h.topicService.List("", homeTopicCount)
	if err != nil {
		respondError(c, err)
		return
	}
	totalRooms, err := h.roomService.CountAll()
	if err != nil {
		respondError(c, err)
		return
	}
	roomMessages, err := h.messageService.SearchByRoomTopic(q, maxListedMessages)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rooms":            rooms,
		"room_count":       len(rooms),
		"total_room_count": totalRooms,
		"topics":           topics,
		"room_messages":    roomMessages,
	})
}

// Topics godoc
// @Summary      Topic listing
// @Description  Topics whose name contains q, with the unfiltered room total
// @Tags         listing
// @Produce      json
// @Param        q query string false "Search query"
// @Success      200 {object} map[string]interface{}
// @Router       /api/v1/topics [get]
func (h *ListingHandler) Topics(c *gin.Context) {
	q := c.Query("q")

	topics, err := h.topicService.List(q, 0)
	if err != nil {
		respondError(c, err)
		return
	}
	totalRooms, err := h.roomService.CountAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"topics":           topics,
		"total_room_count": totalRooms,
	})
}

// Activity godoc
// @Summary      Activity feed
// @Description  The most recently updated messages, site-wide
// @Tags         listing
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /api/v1/activity [get]
func (h *ListingHandler) Activity(c *gin.Context) {
	msgs, err := h.messageService.Activity(maxListedMessages)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room_messages": msgs})
}
