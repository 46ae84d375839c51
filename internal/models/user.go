package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role discriminates the two kinds of accounts. Manufacturers list products
// and answer inquiries; buyers create inquiries.
type Role string

const (
	RoleManufacturer Role = "manufacturer"
	RoleBuyer        Role = "buyer"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r == RoleManufacturer || r == RoleBuyer
}

// Principal is the resolved identity of an authenticated request. It is
// passed explicitly into every service operation; there is no ambient
// request-scoped user state below the HTTP layer.
type Principal struct {
	ID   primitive.ObjectID
	Role Role
}

// UserStatus values.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User represents a company account in the system.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CompanyName  string             `bson:"company_name" json:"companyName"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"` // Store hash, not plaintext
	Phone        string             `bson:"phone" json:"phone"`
	Address      string             `bson:"address" json:"address"`
	Role         Role               `bson:"role" json:"role"`
	Avatar       string             `bson:"avatar" json:"avatar"`
	Industry     string             `bson:"industry" json:"industry"`
	Description  string             `bson:"description" json:"description"`
	Website      string             `bson:"website" json:"website"`
	BusinessType string             `bson:"business_type" json:"businessType"`
	CompanySize  string             `bson:"company_size" json:"companySize"`
	Status       string             `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// UserSummary is the subset of a user embedded into joined views. Fields not
// selected by the particular join stay empty and are omitted from JSON.
type UserSummary struct {
	ID          primitive.ObjectID `json:"id"`
	CompanyName string             `json:"companyName"`
	Email       string             `json:"email,omitempty"`
	Phone       string             `json:"phone,omitempty"`
	Address     string             `json:"address,omitempty"`
	Role        Role               `json:"role,omitempty"`
}
