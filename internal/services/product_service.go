package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vishu8474/prokhoz-backend/internal/cache"
	"github.com/vishu8474/prokhoz-backend/internal/db"
	"github.com/vishu8474/prokhoz-backend/internal/models"
)

// IProductService defines the product catalog operations.
type IProductService interface {
	CreateProduct(ctx context.Context, principal models.Principal, input ProductInput) (*models.Product, error)
	FindProductByID(ctx context.Context, productID primitive.ObjectID) (*models.Product, error)
	ListProducts(ctx context.Context) ([]ProductView, error)
	ListByManufacturer(ctx context.Context, manufacturerID primitive.ObjectID) ([]models.Product, error)
	DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error
}

// ProductInput carries the client-settable product fields. The owner is
// always the calling principal, never part of the input.
type ProductInput struct {
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Price          float64               `json:"price"`
	Category       string                `json:"category"`
	Quantity       int                   `json:"quantity"`
	Unit           string                `json:"unit"`
	Images         []models.ProductImage `json:"images"`
	Specifications map[string]string     `json:"specifications"`
}

const productsCollection = "products"

// productService implements IProductService.
type productService struct {
	db  *mongo.Database
	rdb *redis.Client // nil disables dashboard cache invalidation
}

// NewProductService creates a new ProductService.
func NewProductService(database *mongo.Database, rdb *redis.Client) IProductService {
	return &productService{db: database, rdb: rdb}
}

// CreateProduct creates a catalog entry owned by the calling manufacturer.
func (s *productService) CreateProduct(ctx context.Context, principal models.Principal, input ProductInput) (*models.Product, error) {
	if principal.Role != models.RoleManufacturer {
		return nil, fmt.Errorf("manufacturer role required: %w", ErrForbidden)
	}
	if input.Title == "" || input.Description == "" || input.Category == "" || input.Unit == "" {
		return nil, fmt.Errorf("title, description, category and unit are required: %w", ErrValidation)
	}
	if input.Price <= 0 || input.Quantity <= 0 {
		return nil, fmt.Errorf("price and quantity must be positive: %w", ErrValidation)
	}

	now := time.Now().UTC()
	images := input.Images
	if images == nil {
		images = []models.ProductImage{}
	}

	var product *models.Product
	operation := func() error {
		product = &models.Product{
			ID:             primitive.NewObjectID(),
			Title:          input.Title,
			Description:    input.Description,
			Price:          input.Price,
			Category:       input.Category,
			Quantity:       input.Quantity,
			Unit:           input.Unit,
			Images:         images,
			Specifications: input.Specifications,
			Manufacturer:   principal.ID,
			Status:         models.ProductStatusAvailable,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		_, insertErr := s.db.Collection(productsCollection).InsertOne(ctx, product)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert product for manufacturer %s: %w", principal.ID.Hex(), err)
	}

	// The dashboard's product count changed.
	s.invalidateDashboard(ctx, principal.ID)

	return product, nil
}

// FindProductByID finds a product by its ID.
func (s *productService) FindProductByID(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.db.Collection(productsCollection).FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", productID.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("error finding product %s: %w", productID.Hex(), err)
	}
	return &product, nil
}

// ListProducts returns the whole catalog joined with each manufacturer's
// contact summary, newest first.
func (s *productService) ListProducts(ctx context.Context) ([]ProductView, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(productsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	ownerIDs := make([]primitive.ObjectID, 0, len(products))
	for _, p := range products {
		ownerIDs = append(ownerIDs, p.Manufacturer)
	}
	owners := make(map[primitive.ObjectID]models.User, len(ownerIDs))
	if len(ownerIDs) > 0 {
		userCursor, err := s.db.Collection(usersCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ownerIDs}})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch manufacturers for product list: %w", err)
		}
		defer userCursor.Close(ctx)
		var users []models.User
		if err := userCursor.All(ctx, &users); err != nil {
			return nil, fmt.Errorf("failed to decode manufacturers for product list: %w", err)
		}
		for _, u := range users {
			owners[u.ID] = u
		}
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		view := ProductView{Product: p}
		if owner, ok := owners[p.Manufacturer]; ok {
			view.ManufacturerInfo = models.UserSummary{
				ID:          owner.ID,
				CompanyName: owner.CompanyName,
				Email:       owner.Email,
				Phone:       owner.Phone,
			}
		} else {
			view.ManufacturerInfo = models.UserSummary{ID: p.Manufacturer}
		}
		views = append(views, view)
	}
	return views, nil
}

// ListByManufacturer returns all products owned by one manufacturer.
func (s *productService) ListByManufacturer(ctx context.Context, manufacturerID primitive.ObjectID) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(productsCollection).Find(ctx, bson.M{"manufacturer": manufacturerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products for manufacturer %s: %w", manufacturerID.Hex(), err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// DeleteAllForUser removes every product owned by the user. Invoked by the
// account-deletion path.
func (s *productService) DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	result, err := s.db.Collection(productsCollection).DeleteMany(ctx, bson.M{"manufacturer": userID})
	if err != nil {
		return fmt.Errorf("failed to delete products for user %s: %w", userID.Hex(), err)
	}
	if result.DeletedCount > 0 {
		log.Printf("Deleted %d products owned by user %s", result.DeletedCount, userID.Hex())
	}
	s.invalidateDashboard(ctx, userID)
	return nil
}

func (s *productService) invalidateDashboard(ctx context.Context, manufacturerID primitive.ObjectID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, cache.DashboardStatsKey(manufacturerID.Hex())).Err(); err != nil {
		log.Printf("Warning: failed to invalidate dashboard cache for %s: %v", manufacturerID.Hex(), err)
	}
}
