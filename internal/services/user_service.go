package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vishu8474/prokhoz-backend/internal/auth"
	"github.com/vishu8474/prokhoz-backend/internal/db"
	"github.com/vishu8474/prokhoz-backend/internal/models"
)

// IUserService defines account operations.
type IUserService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, updates map[string]interface{}) (*models.User, error)
	UpdatePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error
	// DeleteAccount removes the user plus everything referencing them:
	// owned products and all inquiries bound to them as buyer or manufacturer.
	DeleteAccount(ctx context.Context, userID primitive.ObjectID) error
}

// RegisterInput carries the required registration fields.
type RegisterInput struct {
	CompanyName string      `json:"companyName"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address"`
	Role        models.Role `json:"role"`
}

const usersCollection = "users"

// userService implements IUserService.
type userService struct {
	db         *mongo.Database
	inquirySvc IInquiryService
	productSvc IProductService
}

// NewUserService creates a new UserService. The inquiry and product services
// are needed for the account-deletion cascade.
func NewUserService(database *mongo.Database, inquirySvc IInquiryService, productSvc IProductService) IUserService {
	return &userService{db: database, inquirySvc: inquirySvc, productSvc: productSvc}
}

// Register creates a new account with a bcrypt password hash.
func (s *userService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.CompanyName == "" || input.Email == "" || input.Password == "" || input.Phone == "" || input.Address == "" {
		return nil, fmt.Errorf("all fields are required: %w", ErrValidation)
	}
	if !input.Role.Valid() {
		return nil, fmt.Errorf("role must be %q or %q: %w", models.RoleManufacturer, models.RoleBuyer, ErrValidation)
	}
	if len(input.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters: %w", ErrValidation)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	count, err := s.db.Collection(usersCollection).CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("error checking existing email: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("user already exists with this email: %w", ErrValidation)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var user *models.User
	operation := func() error {
		user = &models.User{
			ID:           primitive.NewObjectID(),
			CompanyName:  input.CompanyName,
			Email:        email,
			PasswordHash: hash,
			Phone:        input.Phone,
			Address:      input.Address,
			Role:         input.Role,
			Avatar:       "default-avatar.jpg",
			Status:       models.UserStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		_, insertErr := s.db.Collection(usersCollection).InsertOne(ctx, user)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			// Unique email index raced with the pre-check.
			return nil, fmt.Errorf("user already exists with this email: %w", ErrValidation)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// Authenticate verifies email + password. A missing account and a wrong
// password return the same error so the response does not leak which it was.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrValidation)
	}

	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrUnauthenticated
	}

	return &user, nil
}

// FindByID finds a user by their ID.
func (s *userService) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", userID.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("error finding user %s: %w", userID.Hex(), err)
	}
	return &user, nil
}

// UpdateProfile updates the user's descriptive fields. Identity fields
// (email, role, password) cannot pass through here.
func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, updates map[string]interface{}) (*models.User, error) {
	allowed := bson.M{}
	for key, value := range updates {
		switch key {
		case "company_name", "phone", "address", "avatar", "industry", "description", "website", "business_type", "company_size":
			allowed[key] = value
		default:
			return nil, fmt.Errorf("field %q cannot be updated via profile: %w", key, ErrValidation)
		}
	}
	if len(allowed) == 0 {
		return nil, fmt.Errorf("no valid fields provided for update: %w", ErrValidation)
	}
	allowed["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err := s.db.Collection(usersCollection).FindOneAndUpdate(ctx, bson.M{"_id": userID}, bson.M{"$set": allowed}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", userID.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update profile for user %s: %w", userID.Hex(), err)
	}
	return &updated, nil
}

// UpdatePassword replaces the password hash after verifying the current one.
func (s *userService) UpdatePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters: %w", ErrValidation)
	}

	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return fmt.Errorf("current password is incorrect: %w", ErrUnauthenticated)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"password": hash, "updated_at": time.Now().UTC()}}
	result, err := s.db.Collection(usersCollection).UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to update password for user %s: %w", userID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", userID.Hex(), ErrNotFound)
	}
	return nil
}

// DeleteAccount removes the user document and cascades to everything
// referencing the user. The inquiry cleanup runs first so a failure midway
// never leaves inquiries pointing at a vanished account.
func (s *userService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := s.FindByID(ctx, userID); err != nil {
		return err
	}

	if err := s.inquirySvc.DeleteAllForUser(ctx, userID); err != nil {
		return err
	}
	if err := s.productSvc.DeleteAllForUser(ctx, userID); err != nil {
		return err
	}

	result, err := s.db.Collection(usersCollection).DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("user %s: %w", userID.Hex(), ErrNotFound)
	}
	return nil
}
