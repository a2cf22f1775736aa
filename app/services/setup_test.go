package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/savannah/app/models"
	"github.com/shashiranjanraj/savannah/app/services"
	"github.com/shashiranjanraj/savannah/config"
	"github.com/shashiranjanraj/savannah/pkg/cache"
	"github.com/shashiranjanraj/savannah/pkg/database"
	"github.com/shashiranjanraj/savannah/pkg/event"
	"github.com/shashiranjanraj/savannah/pkg/metrics"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache DSN keeps every pooled connection on the same
	// in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Customer{}, &models.Order{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingNotifier captures OrderPlaced calls.
type recordingNotifier struct {
	mu     sync.Mutex
	placed []models.Order
}

func (n *recordingNotifier) OrderPlaced(order models.Order, _ models.Customer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.placed = append(n.placed, order)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.placed)
}

// memoryCache is an in-process services.Cache so read-through behaviour
// can be exercised without Redis.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func newCustomerService(t *testing.T, db *gorm.DB) *services.CustomerService {
	t.Helper()
	return services.NewCustomerService(db, cache.Disabled(), testLogger())
}

func newCustomerServiceCached(t *testing.T, db *gorm.DB, store services.Cache) *services.CustomerService {
	t.Helper()
	return services.NewCustomerService(db, store, testLogger())
}

func newOrderService(t *testing.T, db *gorm.DB) (*services.OrderService, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	svc := services.NewOrderService(db, cache.Disabled(), notifier, event.NewBus(), metrics.New(), testLogger())
	return svc, notifier
}

func newOrderServiceCached(t *testing.T, db *gorm.DB, store services.Cache) (*services.OrderService, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	svc := services.NewOrderService(db, store, notifier, event.NewBus(), metrics.New(), testLogger())
	return svc, notifier
}

func createCustomer(t *testing.T, svc *services.CustomerService, subject string) models.Customer {
	t.Helper()
	customer, err := svc.Create(context.Background(), services.CustomerCreateInput{
		Name:       "Jane Wanjiku",
		Phone:      "+254712345678",
		SubjectRef: subject,
	})
	require.NoError(t, err)
	return customer
}
