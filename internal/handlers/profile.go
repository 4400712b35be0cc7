package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nazmulfx/Study-Buddy/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ProfileHandler struct {
	userService    *services.UserService
	roomService    *services.RoomService
	messageService *services.MessageService
	topicService   *services.TopicService
	uploadDir      string
}

func NewProfileHandler(userService *services.UserService, roomService *services.RoomService, messageService *services.MessageService, topicService *services.TopicService, uploadDir string) *ProfileHandler {
	return &ProfileHandler{
		userService:    userService,
		roomService:    roomService,
		messageService: messageService,
		topicService:   topicService,
		uploadDir:      uploadDir,
	}
}

type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"max=200" example:"Alex"`
	Username string `json:"username" binding:"required,min=2,max=200" example:"studybuddy"`
	Email    string `json:"email" binding:"required,email" example:"a@x.com"`
	Bio      string `json:"bio" example:"Second-year maths student"`
}

// GetProfile godoc
// @Summary      User profile
// @Description  User with hosted rooms, authored messages and the full topic list
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/users/{id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	user, err := h.userService.Get(uint(userID))
	if err != nil {
		respondError(c, err)
		return
	}
	rooms, err := h.roomService.ListByHost(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	messages, err := h.messageService.ListByUser(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	topics, err := h.topicService.List("", 0)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"rooms":         rooms,
		"room_messages": messages,
		"topics":        topics,
	})
}

// UpdateMe godoc
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Profile data"
// @Success      200 {object} User
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/users/me [put]
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.userService.Update(userID, req.Name, req.Username, req.Email, req.Bio)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UploadAvatar godoc
// @Summary      Upload an avatar
// @Description  Multipart upload; image files only
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar formData file true "Avatar image"
// @Success      200 {object} User
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/users/me/avatar [post]
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetUint("user_id")

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file provided"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	imageExts := map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true}
	if !imageExts[ext] {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported file format"})
		return
	}
	if file.Size > 5<<20 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file too large (max 5MB)"})
		return
	}

	filename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		log.Error().Err(err).Uint("user_id", userID).Msg("avatar save failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to save file"})
		return
	}

	user, err := h.userService.SetAvatar(userID, "/uploads/"+filename)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteMe godoc
// @Summary      Delete own account
// @Description  Removes the account and its messages; hosted rooms stay behind without a host
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MessageResponse
// @Router       /api/v1/users/me [delete]
func (h *ProfileHandler) DeleteMe(c *gin.Context) {
	userID := c.GetUint("user_id")

	if err := h.userService.Delete(userID); err != nil {
		respondError(c, err)
		return
	}

	log.Info().Uint("user_id", userID).Msg("account deleted")
	c.JSON(http.StatusOK, MessageResponse{Message: "account deleted"})
}
