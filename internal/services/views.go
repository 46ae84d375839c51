package services

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vishu8474/prokhoz-backend/internal/models"
)

// InquiryResponseView is a response entry joined with its author's summary.
type InquiryResponseView struct {
	User      models.UserSummary `json:"user"`
	Message   string             `json:"message"`
	CreatedAt time.Time          `json:"created_at"`
}

// InquiryView is an inquiry joined with its product and the two bound
// principals, the shape handed back to API callers.
type InquiryView struct {
	ID           primitive.ObjectID     `json:"id"`
	Product      models.ProductSummary  `json:"product"`
	Buyer        models.UserSummary     `json:"buyer"`
	Manufacturer models.UserSummary     `json:"manufacturer"`
	Message      string                 `json:"message"`
	Quantity     int                    `json:"quantity"`
	Budget       *float64               `json:"budget,omitempty"`
	Deadline     *time.Time             `json:"deadline,omitempty"`
	Status       models.InquiryStatus   `json:"status"`
	Priority     models.InquiryPriority `json:"priority"`
	Responses    []InquiryResponseView  `json:"responses"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// DashboardStats is the manufacturer dashboard summary. Rejected and
// completed inquiries are counted in TotalInquiries but have no bucket of
// their own, matching the dashboard's surface.
type DashboardStats struct {
	TotalProducts         int64         `json:"totalProducts"`
	TotalInquiries        int64         `json:"totalInquiries"`
	PendingInquiries      int64         `json:"pendingInquiries"`
	RespondedInquiries    int64         `json:"respondedInquiries"`
	InDiscussionInquiries int64         `json:"inDiscussionInquiries"`
	AcceptedInquiries     int64         `json:"acceptedInquiries"`
	RecentInquiries       []InquiryView `json:"recentInquiries"`
}

// ProductView is a product joined with its manufacturer's contact summary.
type ProductView struct {
	models.Product
	ManufacturerInfo models.UserSummary `json:"manufacturerInfo"`
}
