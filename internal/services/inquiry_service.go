package services

import (
	"context"
	"encoding/json"
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
	"github.com/vishu8474/prokhoz-backend/internal/config"
	"github.com/vishu8474/prokhoz-backend/internal/db"
	"github.com/vishu8474/prokhoz-backend/internal/models"
)

// IInquiryService defines the inquiry lifecycle operations. Every method
// takes the caller's principal explicitly; authorization happens here, not
// in the transport layer.
type IInquiryService interface {
	CreateInquiry(ctx context.Context, principal models.Principal, productID primitive.ObjectID, message string, quantity int, budget *float64, deadline *time.Time) (*InquiryView, error)
	FindInquiryByID(ctx context.Context, principal models.Principal, inquiryID primitive.ObjectID) (*InquiryView, error)
	ListForManufacturer(ctx context.Context, principal models.Principal) ([]InquiryView, error)
	ListForBuyer(ctx context.Context, principal models.Principal) ([]InquiryView, error)
	UpdateStatus(ctx context.Context, principal models.Principal, inquiryID primitive.ObjectID, status models.InquiryStatus) (*InquiryView, error)
	AddResponse(ctx context.Context, principal models.Principal, inquiryID primitive.ObjectID, message string) (*InquiryView, error)
	GetDashboardStats(ctx context.Context, principal models.Principal) (*DashboardStats, error)
	// DeleteAllForUser removes every inquiry referencing the user as buyer or
	// manufacturer. Called by account deletion.
	DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error
}

const inquiriesCollection = "inquiries"

// inquiryService implements IInquiryService.
type inquiryService struct {
	db  *mongo.Database
	cfg *config.Config
	rdb *redis.Client // nil disables dashboard caching
}

// NewInquiryService creates a new InquiryService.
func NewInquiryService(database *mongo.Database, cfg *config.Config, rdb *redis.Client) IInquiryService {
	return &inquiryService{db: database, cfg: cfg, rdb: rdb}
}

// CreateInquiry creates a new inquiry for a product. The manufacturer
// reference is taken from the product, never from the caller.
func (s *inquiryService) CreateInquiry(ctx context.Context, principal models.Principal, productID primitive.ObjectID, message string, quantity int, budget *float64, deadline *time.Time) (*InquiryView, error) {
	if principal.Role != models.RoleBuyer {
		return nil, fmt.Errorf("only buyers can create inquiries: %w", ErrForbidden)
	}
	if message == "" {
		return nil, fmt.Errorf("message is required: %w", ErrValidation)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be a positive number: %w", ErrValidation)
	}

	var product models.Product
	err := s.db.Collection(productsCollection).FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", productID.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("error finding product %s: %w", productID.Hex(), err)
	}

	now := time.Now().UTC()
	var inquiry *models.Inquiry

	operation := func() error {
		inquiry = &models.Inquiry{
			ID:           primitive.NewObjectID(),
			Product:      product.ID,
			Buyer:        principal.ID,
			Manufacturer: product.Manufacturer,
			Message:      message,
			Quantity:     quantity,
			Budget:       budget,
			Deadline:     deadline,
			Status:       models.InquiryStatusPending,
			Priority:     models.InquiryPriorityMedium,
			Responses:    []models.InquiryResponse{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		_, insertErr := s.db.Collection(inquiriesCollection).InsertOne(ctx, inquiry)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert inquiry for buyer %s: %w", principal.ID.Hex(), err)
	}

	s.invalidateDashboard(ctx, product.Manufacturer)

	return s.assembleView(ctx, inquiry)
}

// FindInquiryByID returns the full joined view of one inquiry. Only the two
// bound principals may read it.
func (s *inquiryService) FindInquiryByID(ctx context.Context, principal models.Principal, inquiryID primitive.ObjectID) (*InquiryView, error) {
	inquiry, err := s.findByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if inquiry.Buyer != principal.ID && inquiry.Manufacturer != principal.ID {
		return nil, fmt.Errorf("not authorized to access inquiry %s: %w", inquiryID.Hex(), ErrForbidden)
	}
	return s.assembleView(ctx, inquiry)
}

// ListForManufacturer returns all inquiries addressed to the manufacturer,
// newest-created first.
func (s *inquiryService) ListForManufacturer(ctx context.Context, principal models.Principal) ([]InquiryView, error) {
	if principal.Role != models.RoleManufacturer {
		return nil, fmt.Errorf("manufacturer role required: %w", ErrForbidden)
	}
	return s.list(ctx, bson.M{"manufacturer": principal.ID})
}

// ListForBuyer returns all inquiries created by the buyer, newest-created first.
func (s *inquiryService) ListForBuyer(ctx context.Context, principal models.Principal) ([]InquiryView, error) {
	if principal.Role != models.RoleBuyer {
		return nil, fmt.Errorf("buyer role required: %w", ErrForbidden)
	}
	return s.list(ctx, bson.M{"buyer": principal.ID})
}

func (s *inquiryService) list(ctx context.Context, filter bson.M) ([]InquiryView, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(inquiriesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	var inquiries []models.Inquiry
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, fmt.Errorf("failed to decode inquiries: %w", err)
	}
	return s.assembleViews(ctx, inquiries)
}

// UpdateStatus overwrites the inquiry's status. Only the bound manufacturer
// may call it, and the target must be one of the six defined values; beyond
// that there is deliberately no transition restriction, so a manufacturer
// can re-open an accepted or completed inquiry.
func (s *inquiryService) UpdateStatus(ctx context.Context, principal models.Principal, inquiryID primitive.ObjectID, status models.InquiryStatus) (*InquiryView, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q: %w", status, ErrValidation)
	}

	inquiry, err := s.findByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if inquiry.Manufacturer != principal.ID {
		return nil, fmt.Errorf("not authorized to update inquiry %s: %w", inquiryID.Hex(), ErrForbidden)
	}

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Inquiry
	err = s.db.Collection(inquiriesCollection).FindOneAndUpdate(ctx, bson.M{"_id": inquiryID}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("inquiry %s: %w", inquiryID.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update status of inquiry %s: %w", inquiryID.Hex(), err)
	}

	s.invalidateDashboard(ctx, updated.Manufacturer)

	return s.assembleView(ctx, &updated)
}

// AddResponse appends one entry to the inquiry's response thread. The append
// is a single atomic $push; when the implicit status advance applies, it is
// folded into the same update guarded by a status precondition, so two
// concurrent responders can never overwrite each other's entries.
func (s *inquiryService) AddResponse(ctx context.Context, principal models.Principal, inquiryID primitive.ObjectID, message string) (*InquiryView, error) {
	if message == "" {
		return nil, fmt.Errorf("message is required: %w", ErrValidation)
	}

	inquiry, err := s.findByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}

	var authorRole models.Role
	switch principal.ID {
	case inquiry.Manufacturer:
		authorRole = models.RoleManufacturer
	case inquiry.Buyer:
		authorRole = models.RoleBuyer
	default:
		return nil, fmt.Errorf("not authorized to respond to inquiry %s: %w", inquiryID.Hex(), ErrForbidden)
	}

	now := time.Now().UTC()
	response := models.InquiryResponse{User: principal.ID, Message: message, CreatedAt: now}
	collection := s.db.Collection(inquiriesCollection)

	pushed := false
	if next, advances := models.AdvanceOnResponse(inquiry.Status, authorRole); advances {
		// The status precondition in the filter keeps the advance one-way
		// under concurrency: if another responder moved the status first,
		// MatchedCount is 0 and we fall back to a plain append.
		filter := bson.M{"_id": inquiryID, "status": inquiry.Status}
		update := bson.M{
			"$push": bson.M{"responses": response},
			"$set":  bson.M{"status": next, "updated_at": now},
		}
		result, err := collection.UpdateOne(ctx, filter, update)
		if err != nil {
			return nil, fmt.Errorf("failed to append response to inquiry %s: %w", inquiryID.Hex(), err)
		}
		pushed = result.MatchedCount > 0
	}

	if !pushed {
		update := bson.M{
			"$push": bson.M{"responses": response},
			"$set":  bson.M{"updated_at": now},
		}
		result, err := collection.UpdateOne(ctx, bson.M{"_id": inquiryID}, update)
		if err != nil {
			return nil, fmt.Errorf("failed to append response to inquiry %s: %w", inquiryID.Hex(), err)
		}
		if result.MatchedCount == 0 {
			return nil, fmt.Errorf("inquiry %s: %w", inquiryID.Hex(), ErrNotFound)
		}
	}

	s.invalidateDashboard(ctx, inquiry.Manufacturer)

	updated, err := s.findByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	return s.assembleView(ctx, updated)
}

type statusCount struct {
	Status models.InquiryStatus `bson:"_id"`
	Count  int64                `bson:"count"`
}

// GetDashboardStats computes the manufacturer's summary counts and recent
// activity. Results are cached in Redis for a short TTL; any mutation
// touching the manufacturer's inquiries or products drops the key.
func (s *inquiryService) GetDashboardStats(ctx context.Context, principal models.Principal) (*DashboardStats, error) {
	if principal.Role != models.RoleManufacturer {
		return nil, fmt.Errorf("manufacturer role required: %w", ErrForbidden)
	}

	cacheKey := cache.DashboardStatsKey(principal.ID.Hex())
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var stats DashboardStats
			if err := json.Unmarshal([]byte(raw), &stats); err == nil {
				return &stats, nil
			}
			log.Printf("Warning: dropping undecodable dashboard cache entry for %s", principal.ID.Hex())
			_ = s.rdb.Del(ctx, cacheKey).Err()
		}
	}

	ownerFilter := bson.M{"manufacturer": principal.ID}

	totalProducts, err := s.db.Collection(productsCollection).CountDocuments(ctx, ownerFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	totalInquiries, err := s.db.Collection(inquiriesCollection).CountDocuments(ctx, ownerFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to count inquiries: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: ownerFilter}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	aggCursor, err := s.db.Collection(inquiriesCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate inquiry statuses: %w", err)
	}
	defer aggCursor.Close(ctx)

	var counts []statusCount
	if err := aggCursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode status counts: %w", err)
	}
	byStatus := make(map[models.InquiryStatus]int64, len(counts))
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}

	recentOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(5)
	recentCursor, err := s.db.Collection(inquiriesCollection).Find(ctx, ownerFilter, recentOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent inquiries: %w", err)
	}
	defer recentCursor.Close(ctx)

	var recent []models.Inquiry
	if err := recentCursor.All(ctx, &recent); err != nil {
		return nil, fmt.Errorf("failed to decode recent inquiries: %w", err)
	}
	recentViews, err := s.assembleViews(ctx, recent)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalProducts:         totalProducts,
		TotalInquiries:        totalInquiries,
		PendingInquiries:      byStatus[models.InquiryStatusPending],
		RespondedInquiries:    byStatus[models.InquiryStatusResponded],
		InDiscussionInquiries: byStatus[models.InquiryStatusInDiscussion],
		AcceptedInquiries:     byStatus[models.InquiryStatusAccepted],
		RecentInquiries:       recentViews,
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, raw, s.cfg.DashboardCacheTTL).Err(); err != nil {
				log.Printf("Warning: failed to cache dashboard stats for %s: %v", principal.ID.Hex(), err)
			}
		}
	}

	return stats, nil
}

// DeleteAllForUser removes every inquiry where the user is either bound
// principal. Invoked by the account-deletion path.
func (s *inquiryService) DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	filter := bson.M{"$or": bson.A{
		bson.M{"buyer": userID},
		bson.M{"manufacturer": userID},
	}}

	// A deleted buyer's inquiries live on other manufacturers' dashboards, so
	// the keys to drop are theirs, not the buyer's. Collect them first.
	makers, err := s.db.Collection(inquiriesCollection).Distinct(ctx, "manufacturer", filter)
	if err != nil {
		return fmt.Errorf("failed to collect manufacturers for user %s: %w", userID.Hex(), err)
	}

	result, err := s.db.Collection(inquiriesCollection).DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete inquiries for user %s: %w", userID.Hex(), err)
	}
	if result.DeletedCount > 0 {
		log.Printf("Deleted %d inquiries referencing user %s", result.DeletedCount, userID.Hex())
	}

	for _, m := range makers {
		if makerID, ok := m.(primitive.ObjectID); ok {
			s.invalidateDashboard(ctx, makerID)
		}
	}
	// The user's own key too: a manufacturer with no inquiries still has a
	// cached product count.
	s.invalidateDashboard(ctx, userID)
	return nil
}

func (s *inquiryService) findByID(ctx context.Context, inquiryID primitive.ObjectID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := s.db.Collection(inquiriesCollection).FindOne(ctx, bson.M{"_id": inquiryID}).Decode(&inquiry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("inquiry %s: %w", inquiryID.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("error finding inquiry %s: %w", inquiryID.Hex(), err)
	}
	return &inquiry, nil
}

func (s *inquiryService) invalidateDashboard(ctx context.Context, manufacturerID primitive.ObjectID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, cache.DashboardStatsKey(manufacturerID.Hex())).Err(); err != nil {
		log.Printf("Warning: failed to invalidate dashboard cache for %s: %v", manufacturerID.Hex(), err)
	}
}

// assembleView joins a single inquiry with its product and principals.
func (s *inquiryService) assembleView(ctx context.Context, inquiry *models.Inquiry) (*InquiryView, error) {
	views, err := s.assembleViews(ctx, []models.Inquiry{*inquiry})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// assembleViews joins inquiries with product and user summaries in two batch
// queries. A referenced document that no longer exists degrades to a summary
// carrying only the ID; reads never fail because a counterpart was deleted.
func (s *inquiryService) assembleViews(ctx context.Context, inquiries []models.Inquiry) ([]InquiryView, error) {
	productIDs := make([]primitive.ObjectID, 0, len(inquiries))
	userIDs := make([]primitive.ObjectID, 0, len(inquiries)*2)
	for _, inq := range inquiries {
		productIDs = append(productIDs, inq.Product)
		userIDs = append(userIDs, inq.Buyer, inq.Manufacturer)
		for _, r := range inq.Responses {
			userIDs = append(userIDs, r.User)
		}
	}

	products, err := s.fetchProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	users, err := s.fetchUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	productSummary := func(id primitive.ObjectID) models.ProductSummary {
		if p, ok := products[id]; ok {
			return models.ProductSummary{
				ID:       p.ID,
				Title:    p.Title,
				Category: p.Category,
				Price:    p.Price,
				Unit:     p.Unit,
				Images:   p.Images,
			}
		}
		return models.ProductSummary{ID: id}
	}
	userSummary := func(id primitive.ObjectID) models.UserSummary {
		if u, ok := users[id]; ok {
			return models.UserSummary{
				ID:          u.ID,
				CompanyName: u.CompanyName,
				Email:       u.Email,
				Phone:       u.Phone,
				Address:     u.Address,
				Role:        u.Role,
			}
		}
		return models.UserSummary{ID: id}
	}

	views := make([]InquiryView, 0, len(inquiries))
	for _, inq := range inquiries {
		responses := make([]InquiryResponseView, 0, len(inq.Responses))
		for _, r := range inq.Responses {
			responses = append(responses, InquiryResponseView{
				User:      userSummary(r.User),
				Message:   r.Message,
				CreatedAt: r.CreatedAt,
			})
		}
		views = append(views, InquiryView{
			ID:           inq.ID,
			Product:      productSummary(inq.Product),
			Buyer:        userSummary(inq.Buyer),
			Manufacturer: userSummary(inq.Manufacturer),
			Message:      inq.Message,
			Quantity:     inq.Quantity,
			Budget:       inq.Budget,
			Deadline:     inq.Deadline,
			Status:       inq.Status,
			Priority:     inq.Priority,
			Responses:    responses,
			CreatedAt:    inq.CreatedAt,
			UpdatedAt:    inq.UpdatedAt,
		})
	}
	return views, nil
}

func (s *inquiryService) fetchProducts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	result := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	cursor, err := s.db.Collection(productsCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products for view: %w", err)
	}
	defer cursor.Close(ctx)
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products for view: %w", err)
	}
	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

func (s *inquiryService) fetchUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	result := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	cursor, err := s.db.Collection(usersCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users for view: %w", err)
	}
	defer cursor.Close(ctx)
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users for view: %w", err)
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}
