package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vishu8474/prokhoz-backend/internal/models"
)

func setupUserServiceTest(t *testing.T) (IUserService, IInquiryService, IProductService, func()) {
	db, cleanup := setupTestDB(t, "user_service")
	cfg := testConfig()
	inquirySvc := NewInquiryService(db, cfg, nil)
	productSvc := NewProductService(db, nil)
	userSvc := NewUserService(db, inquirySvc, productSvc)
	return userSvc, inquirySvc, productSvc, cleanup
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	svc, _, _, cleanup := setupUserServiceTest(t)
	defer cleanup()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		CompanyName: "Acme Industrial",
		Email:       "Contact@Acme.example",
		Password:    "password123",
		Phone:       "+1-555-0100",
		Address:     "1 Factory Road",
		Role:        models.RoleManufacturer,
	})
	require.NoError(t, err)
	assert.Equal(t, "contact@acme.example", user.Email, "email should be normalized to lowercase")
	assert.Equal(t, models.RoleManufacturer, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.Equal(t, models.UserStatusActive, user.Status)

	// Duplicate email, case-insensitively
	_, err = svc.Register(ctx, RegisterInput{
		CompanyName: "Copycat",
		Email:       "CONTACT@ACME.EXAMPLE",
		Password:    "password456",
		Phone:       "+1-555-0101",
		Address:     "2 Copy Street",
		Role:        models.RoleBuyer,
	})
	assert.ErrorIs(t, err, ErrValidation)

	// Authentication ignores email case too
	authed, err := svc.Authenticate(ctx, "contact@ACME.example", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	// Wrong password and unknown email produce the same error
	_, wrongPass := svc.Authenticate(ctx, "contact@acme.example", "nope")
	_, unknown := svc.Authenticate(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, wrongPass, ErrUnauthenticated)
	assert.ErrorIs(t, unknown, ErrUnauthenticated)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestUserService_RegisterValidation(t *testing.T) {
	svc, _, _, cleanup := setupUserServiceTest(t)
	defer cleanup()
	ctx := context.Background()

	base := RegisterInput{
		CompanyName: "Acme",
		Email:       "new@example.com",
		Password:    "password123",
		Phone:       "+1-555-0100",
		Address:     "1 Street",
		Role:        models.RoleBuyer,
	}

	missing := base
	missing.Phone = ""
	_, err := svc.Register(ctx, missing)
	assert.ErrorIs(t, err, ErrValidation)

	short := base
	short.Password = "abc"
	_, err = svc.Register(ctx, short)
	assert.ErrorIs(t, err, ErrValidation)

	badRole := base
	badRole.Role = models.Role("admin")
	_, err = svc.Register(ctx, badRole)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, _, _, cleanup := setupUserServiceTest(t)
	defer cleanup()
	ctx := context.Background()

	principal := registerTestUser(t, svc, models.RoleManufacturer, "profile@example.com")

	updated, err := svc.UpdateProfile(ctx, principal.ID, map[string]interface{}{
		"company_name": "Renamed Co",
		"industry":     "automotive",
		"website":      "https://renamed.example",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Co", updated.CompanyName)
	assert.Equal(t, "automotive", updated.Industry)

	// Identity fields are rejected outright
	_, err = svc.UpdateProfile(ctx, principal.ID, map[string]interface{}{"email": "hacked@example.com"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.UpdateProfile(ctx, principal.ID, map[string]interface{}{"role": "buyer"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProfile(ctx, principal.ID, map[string]interface{}{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProfile(ctx, primitive.NewObjectID(), map[string]interface{}{"phone": "+1-555-0199"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_UpdatePassword(t *testing.T) {
	svc, _, _, cleanup := setupUserServiceTest(t)
	defer cleanup()
	ctx := context.Background()

	principal := registerTestUser(t, svc, models.RoleBuyer, "pw@example.com")

	err := svc.UpdatePassword(ctx, principal.ID, "wrong-current", "newpassword1")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	err = svc.UpdatePassword(ctx, principal.ID, "password123", "short")
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.UpdatePassword(ctx, principal.ID, "password123", "newpassword1")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "pw@example.com", "password123")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.Authenticate(ctx, "pw@example.com", "newpassword1")
	assert.NoError(t, err)
}

func TestUserService_DeleteAccountCascade(t *testing.T) {
	svc, inquirySvc, productSvc, cleanup := setupUserServiceTest(t)
	defer cleanup()
	ctx := context.Background()

	manufacturer := registerTestUser(t, svc, models.RoleManufacturer, "cascade-maker@example.com")
	buyer := registerTestUser(t, svc, models.RoleBuyer, "cascade-buyer@example.com")
	productID := createTestProduct(t, productSvc, manufacturer)
	inquiry, err := inquirySvc.CreateInquiry(ctx, buyer, productID, "pre-delete", 1, nil, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, manufacturer.ID))

	// Account, products and inquiries are all gone
	_, err = svc.FindByID(ctx, manufacturer.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = productSvc.FindProductByID(ctx, productID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = inquirySvc.FindInquiryByID(ctx, buyer, inquiry.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The buyer account is untouched
	_, err = svc.FindByID(ctx, buyer.ID)
	assert.NoError(t, err)

	// Deleting twice reports not found
	err = svc.DeleteAccount(ctx, manufacturer.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
