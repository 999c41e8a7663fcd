package handlers

import (
	"errors"
	"net/http"

	"solarbot/models"
	ai "solarbot/services/intelligence"
	"solarbot/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatHandler struct {
	Service ai.ChatService
	Logger  *zap.Logger
}

func NewChatHandler(svc ai.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{Service: svc, Logger: logger}
}

// Index is the service status document served at the root path.
func (h *ChatHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Solar Assistant API",
		"endpoints": gin.H{
			"start": "GET /start",
			"chat":  "POST /chat",
		},
	})
}

// StartConversation opens a thread and returns its id and access token.
func (h *ChatHandler) StartConversation(c *gin.Context) {
	thread, err := h.Service.StartThread(c.Request.Context())
	if err != nil {
		h.Logger.Error("Failed to start conversation", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to start conversation", "")
		return
	}
	c.JSON(http.StatusOK, thread)
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid chat request", err.Error())
		return
	}
	// The thread auth middleware stores the thread bound to the token.
	if threadID := c.GetString("threadID"); threadID != "" && threadID != req.ThreadID {
		utils.JSONError(c, http.StatusForbidden, "Token does not belong to this thread", "")
		return
	}

	resp, err := h.Service.ProcessMessage(c.Request.Context(), req)
	if errors.Is(err, ai.ErrEmptyMessage) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid chat request", err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("Chat processing failed", zap.String("threadID", req.ThreadID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ChatResponse{
			Response:      "Es ist ein Fehler aufgetreten. Bitte versuchen Sie es erneut.",
			Status:        "error",
			CalendarEvent: "none",
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) EndConversation(c *gin.Context) {
	threadID := c.Param("threadID")
	if tokenThread := c.GetString("threadID"); tokenThread != "" && tokenThread != threadID {
		utils.JSONError(c, http.StatusForbidden, "Token does not belong to this thread", "")
		return
	}
	if err := h.Service.EndThread(c.Request.Context(), threadID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to end conversation", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
