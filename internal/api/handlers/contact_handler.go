package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vishu8474/prokhoz-backend/internal/config"
	"github.com/vishu8474/prokhoz-backend/internal/tasks"
)

// ContactHandler handles the public contact form.
type ContactHandler struct {
	taskClient IAsynqClient
	cfg        *config.Config
}

func NewContactHandler(taskClient IAsynqClient, cfg *config.Config) *ContactHandler {
	return &ContactHandler{taskClient: taskClient, cfg: cfg}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SubmitContactForm handles POST /api/contact. The message is delivered to
// the configured recipient through the background queue.
func (h *ContactHandler) SubmitContactForm(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
		return
	}

	referenceID := uuid.NewString()
	subject := fmt.Sprintf("%s contact form: %s", h.cfg.AppName, req.Subject)
	body := fmt.Sprintf(
		"Reference: %s\nFrom: %s <%s>\n\n%s\n",
		referenceID, req.Name, req.Email, req.Message,
	)

	task, err := tasks.NewEmailDeliveryTask([]string{h.cfg.ContactRecipient}, subject, body)
	if err != nil {
		log.Printf("Error: failed to build contact delivery task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	if h.taskClient == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	if _, err := h.taskClient.EnqueueContext(c.Request.Context(), task); err != nil {
		log.Printf("Error: failed to enqueue contact delivery %s: %v", referenceID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"referenceId": referenceID,
		"message":     "Your message has been received. We will get back to you soon!",
	})
}
