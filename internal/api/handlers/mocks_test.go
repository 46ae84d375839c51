package handlers_test

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vishu8474/prokhoz-backend/internal/api/middleware"
	"github.com/vishu8474/prokhoz-backend/internal/models"
	"github.com/vishu8474/prokhoz-backend/internal/services"
)

// withPrincipal injects an authenticated identity into the Gin context the
// same way AuthMiddleware does, so handlers can be tested without real JWTs.
func withPrincipal(p models.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, p.ID.Hex())
		c.Set(middleware.ContextKeyUserRole, string(p.Role))
		c.Next()
	}
}

// --- MockInquiryService ---

type MockInquiryService struct {
	mock.Mock
}

func (m *MockInquiryService) CreateInquiry(ctx context.Context, principal models.Principal, productID primitive.ObjectID, message string, quantity int, budget *float64, deadline *time.Time) (*services.InquiryView, error) {
	args := m.Called(ctx, principal, productID, message, quantity, budget, deadline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.InquiryView), args.Error(1)
}

func (m *MockInquiryService) FindInquiryByID(ctx context.Context, principal models.Principal, inquiryID primitive.ObjectID) (*services.InquiryView, error) {
	args := m.Called(ctx, principal, inquiryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.InquiryView), args.Error(1)
}

func (m *MockInquiryService) ListForManufacturer(ctx context.Context, principal models.Principal) ([]services.InquiryView, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.InquiryView), args.Error(1)
}

func (m *MockInquiryService) ListForBuyer(ctx context.Context, principal models.Principal) ([]services.InquiryView, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.InquiryView), args.Error(1)
}

func (m *MockInquiryService) UpdateStatus(ctx context.Context, principal models.Principal, inquiryID primitive.ObjectID, status models.InquiryStatus) (*services.InquiryView, error) {
	args := m.Called(ctx, principal, inquiryID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.InquiryView), args.Error(1)
}

func (m *MockInquiryService) AddResponse(ctx context.Context, principal models.Principal, inquiryID primitive.ObjectID, message string) (*services.InquiryView, error) {
	args := m.Called(ctx, principal, inquiryID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.InquiryView), args.Error(1)
}

func (m *MockInquiryService) GetDashboardStats(ctx context.Context, principal models.Principal) (*services.DashboardStats, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DashboardStats), args.Error(1)
}

func (m *MockInquiryService) DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- MockUserService ---

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, input services.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, updates map[string]interface{}) (*models.User, error) {
	args := m.Called(ctx, userID, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdatePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	args := m.Called(ctx, userID, currentPassword, newPassword)
	return args.Error(0)
}

func (m *MockUserService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- MockProductService ---

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, principal models.Principal, input services.ProductInput) (*models.Product, error) {
	args := m.Called(ctx, principal, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) FindProductByID(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) ListProducts(ctx context.Context) ([]services.ProductView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.ProductView), args.Error(1)
}

func (m *MockProductService) ListByManufacturer(ctx context.Context, manufacturerID primitive.ObjectID) ([]models.Product, error) {
	args := m.Called(ctx, manufacturerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductService) DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- MockAsynqClient ---

type MockAsynqClient struct {
	mock.Mock
}

func (m *MockAsynqClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}
