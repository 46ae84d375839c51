package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InquiryStatus is the lifecycle state of an inquiry.
type InquiryStatus string

const (
	InquiryStatusPending      InquiryStatus = "pending"
	InquiryStatusResponded    InquiryStatus = "responded"
	InquiryStatusInDiscussion InquiryStatus = "in_discussion"
	InquiryStatusAccepted     InquiryStatus = "accepted"
	InquiryStatusRejected     InquiryStatus = "rejected"
	InquiryStatusCompleted    InquiryStatus = "completed"
)

// Valid reports whether s is one of the six defined statuses.
func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryStatusPending, InquiryStatusResponded, InquiryStatusInDiscussion,
		InquiryStatusAccepted, InquiryStatusRejected, InquiryStatusCompleted:
		return true
	}
	return false
}

// AdvanceOnResponse returns the status an inquiry moves to when a party with
// the given role appends a response, and whether it moves at all. The
// implicit path is one-way: a manufacturer's first response moves pending to
// responded, the buyer's reply moves responded to in_discussion, and any
// other combination leaves the status untouched. The manufacturer's explicit
// status update is the only way to set the remaining values.
func AdvanceOnResponse(current InquiryStatus, author Role) (InquiryStatus, bool) {
	switch {
	case author == RoleManufacturer && current == InquiryStatusPending:
		return InquiryStatusResponded, true
	case author == RoleBuyer && current == InquiryStatusResponded:
		return InquiryStatusInDiscussion, true
	}
	return current, false
}

// InquiryPriority is informational only; it never affects transitions.
type InquiryPriority string

const (
	InquiryPriorityLow    InquiryPriority = "low"
	InquiryPriorityMedium InquiryPriority = "medium"
	InquiryPriorityHigh   InquiryPriority = "high"
)

// InquiryResponse is one entry in an inquiry's append-only response thread.
// Entries are never edited or removed after append.
type InquiryResponse struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Inquiry is a buyer's request about a product, threaded with responses from
// both parties until it resolves. The manufacturer reference is derived from
// the product at creation time and is never supplied by the requester.
type Inquiry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Product      primitive.ObjectID `bson:"product" json:"product"`
	Buyer        primitive.ObjectID `bson:"buyer" json:"buyer"`
	Manufacturer primitive.ObjectID `bson:"manufacturer" json:"manufacturer"`
	Message      string             `bson:"message" json:"message"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	Budget       *float64           `bson:"budget,omitempty" json:"budget,omitempty"`
	Deadline     *time.Time         `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Status       InquiryStatus      `bson:"status" json:"status"`
	Priority     InquiryPriority    `bson:"priority" json:"priority"`
	Responses    []InquiryResponse  `bson:"responses" json:"responses"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
