package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vishu8474/prokhoz-backend/internal/config"
	"github.com/vishu8474/prokhoz-backend/internal/models"
	"github.com/vishu8474/prokhoz-backend/internal/services"
	"github.com/vishu8474/prokhoz-backend/internal/tasks"
)

// InquiryHandler handles the inquiry lifecycle routes.
type InquiryHandler struct {
	inquiryService services.IInquiryService
	taskClient     IAsynqClient
	cfg            *config.Config
}

// NewInquiryHandler creates a new InquiryHandler. taskClient may be nil when
// no background worker is deployed; notifications are then skipped.
func NewInquiryHandler(inquiryService services.IInquiryService, taskClient IAsynqClient, cfg *config.Config) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService, taskClient: taskClient, cfg: cfg}
}

// parseInquiryID extracts the :id path parameter. A malformed ID aborts 400.
func parseInquiryID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid inquiry ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// createInquiryRequest is the POST /api/inquiries body.
type createInquiryRequest struct {
	ProductID string     `json:"productId"`
	Message   string     `json:"message"`
	Quantity  int        `json:"quantity"`
	Budget    *float64   `json:"budget"`
	Deadline  *time.Time `json:"deadline"`
}

// CreateInquiry handles POST /api/inquiries. Buyer only.
func (h *InquiryHandler) CreateInquiry(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req createInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID format"})
		return
	}

	inquiry, err := h.inquiryService.CreateInquiry(c.Request.Context(), principal, productID, req.Message, req.Quantity, req.Budget, req.Deadline)
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifyManufacturer(c, inquiry)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"inquiry": inquiry,
		"message": "Inquiry sent successfully!",
	})
}

// notifyManufacturer queues a notification email to the inquiry's
// manufacturer. Best-effort: a queueing failure is logged, never surfaced.
func (h *InquiryHandler) notifyManufacturer(c *gin.Context, inquiry *services.InquiryView) {
	if h.taskClient == nil || inquiry.Manufacturer.Email == "" {
		return
	}

	subject := fmt.Sprintf("%s: new inquiry for %s", h.cfg.AppName, inquiry.Product.Title)
	body := fmt.Sprintf(
		"%s sent an inquiry about %q.\n\nQuantity: %d\nMessage: %s\n",
		inquiry.Buyer.CompanyName, inquiry.Product.Title, inquiry.Quantity, inquiry.Message,
	)
	task, err := tasks.NewEmailDeliveryTask([]string{inquiry.Manufacturer.Email}, subject, body)
	if err != nil {
		log.Printf("Warning: failed to build inquiry notification task: %v", err)
		return
	}
	if _, err := h.taskClient.EnqueueContext(c.Request.Context(), task); err != nil {
		log.Printf("Warning: failed to enqueue inquiry notification for %s: %v", inquiry.ID.Hex(), err)
	}
}

// GetInquiry handles GET /api/inquiries/:id. Bound principals only.
func (h *InquiryHandler) GetInquiry(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	inquiryID, ok := parseInquiryID(c)
	if !ok {
		return
	}

	inquiry, err := h.inquiryService.FindInquiryByID(c.Request.Context(), principal, inquiryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "inquiry": inquiry})
}

// GetMyInquiries handles GET /api/inquiries/manufacturer.
func (h *InquiryHandler) GetMyInquiries(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	inquiries, err := h.inquiryService.ListForManufacturer(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"count":     len(inquiries),
		"inquiries": inquiries,
	})
}

// GetBuyerInquiries handles GET /api/inquiries/buyer.
func (h *InquiryHandler) GetBuyerInquiries(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	inquiries, err := h.inquiryService.ListForBuyer(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"count":     len(inquiries),
		"inquiries": inquiries,
	})
}

// updateStatusRequest is the PUT /api/inquiries/:id/status body.
type updateStatusRequest struct {
	Status models.InquiryStatus `json:"status"`
}

// UpdateInquiryStatus handles PUT /api/inquiries/:id/status. Bound
// manufacturer only.
func (h *InquiryHandler) UpdateInquiryStatus(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	inquiryID, ok := parseInquiryID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	inquiry, err := h.inquiryService.UpdateStatus(c.Request.Context(), principal, inquiryID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"inquiry": inquiry,
		"message": "Inquiry status updated successfully!",
	})
}

// addResponseRequest is the POST /api/inquiries/:id/respond body.
type addResponseRequest struct {
	Message string `json:"message"`
}

// AddResponse handles POST /api/inquiries/:id/respond. Bound principals only.
func (h *InquiryHandler) AddResponse(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	inquiryID, ok := parseInquiryID(c)
	if !ok {
		return
	}

	var req addResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	inquiry, err := h.inquiryService.AddResponse(c.Request.Context(), principal, inquiryID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"inquiry": inquiry,
		"message": "Response added successfully!",
	})
}

// GetDashboardStats handles GET /api/inquiries/stats. Manufacturer only.
func (h *InquiryHandler) GetDashboardStats(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	stats, err := h.inquiryService.GetDashboardStats(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"totalProducts":         stats.TotalProducts,
			"totalInquiries":        stats.TotalInquiries,
			"pendingInquiries":      stats.PendingInquiries,
			"respondedInquiries":    stats.RespondedInquiries,
			"inDiscussionInquiries": stats.InDiscussionInquiries,
			"acceptedInquiries":     stats.AcceptedInquiries,
		},
		"recentInquiries": stats.RecentInquiries,
	})
}
