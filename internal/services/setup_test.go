package services

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vishu8474/prokhoz-backend/internal/config"
	"github.com/vishu8474/prokhoz-backend/internal/models"
)

var (
	testMongoURI  string
	testRedisAddr string
)

func init() {
	// Get current file path
	_, filename, _, _ := runtime.Caller(0)
	// Try to load .env from project root (2 levels up from this file)
	projectRoot := filepath.Join(filepath.Dir(filename), "..", "..")
	if err := godotenv.Load(filepath.Join(projectRoot, ".env")); err != nil {
		// Try current directory as fallback
		godotenv.Load()
	}

	testMongoURI = os.Getenv("MONGO_URI_TEST")
	testRedisAddr = os.Getenv("REDIS_ADDR_TEST")
}

// setupTestDB connects to the test MongoDB and returns a database plus its
// cleanup function. Tests are skipped when MONGO_URI_TEST is not set.
func setupTestDB(t *testing.T, prefix string) (*mongo.Database, func()) {
	if testMongoURI == "" {
		t.Skip("MONGO_URI_TEST environment variable not set; skipping integration test")
	}

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(testMongoURI))
	require.NoError(t, err, "Failed to connect to MongoDB")

	// Unique DB name per test to avoid parallel test interference
	dbName := fmt.Sprintf("testdb_%s_%d", prefix, time.Now().UnixNano())
	db := client.Database(dbName)

	cleanup := func() {
		if err := db.Drop(context.Background()); err != nil {
			t.Logf("Failed to drop database %s: %v", dbName, err)
		}
		if err := client.Disconnect(context.Background()); err != nil {
			t.Logf("Failed to disconnect MongoDB client: %v", err)
		}
	}
	return db, cleanup
}

// setupTestRedis connects to the test Redis and returns a client plus its
// cleanup function. Tests needing cache behavior are skipped when
// REDIS_ADDR_TEST is not set.
func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	if testRedisAddr == "" {
		t.Skip("REDIS_ADDR_TEST environment variable not set; skipping cache test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	require.NoError(t, rdb.Ping(context.Background()).Err(), "Failed to connect to Redis")

	cleanup := func() {
		if err := rdb.Close(); err != nil {
			t.Logf("Failed to close Redis client: %v", err)
		}
	}
	return rdb, cleanup
}

func testConfig() *config.Config {
	return &config.Config{
		MongoDbName:       "testdb",
		JwtSecret:         "test-secret",
		JwtTTL:            time.Hour,
		AppName:           "PROKHOZ",
		DashboardCacheTTL: 30 * time.Second,
	}
}

// registerTestUser creates an account through the user service and returns
// its principal.
func registerTestUser(t *testing.T, svc IUserService, role models.Role, email string) models.Principal {
	user, err := svc.Register(context.Background(), RegisterInput{
		CompanyName: fmt.Sprintf("%s Co", role),
		Email:       email,
		Password:    "password123",
		Phone:       "+1-555-0100",
		Address:     "1 Test Street",
		Role:        role,
	})
	require.NoError(t, err)
	return models.Principal{ID: user.ID, Role: user.Role}
}

// createTestProduct inserts a product owned by the manufacturer principal.
func createTestProduct(t *testing.T, svc IProductService, owner models.Principal) primitive.ObjectID {
	product, err := svc.CreateProduct(context.Background(), owner, ProductInput{
		Title:       "Industrial Bearing",
		Description: "Sealed ball bearing, bulk supply",
		Price:       4.5,
		Category:    "components",
		Quantity:    10000,
		Unit:        "piece",
	})
	require.NoError(t, err)
	return product.ID
}
