package services_test

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/savannah/app/models"
	"github.com/shashiranjanraj/savannah/app/services"
	"github.com/shashiranjanraj/savannah/pkg/apperr"
)

func TestCreateCustomerGeneratesCode(t *testing.T) {
	db := testDB(t)
	svc := newCustomerService(t, db)

	customer := createCustomer(t, svc, "subject-abc")

	assert.NotZero(t, customer.ID)
	assert.Equal(t, "subject-abc", customer.SubjectRef)
	assert.Regexp(t, regexp.MustCompile(`^sub-\d{6}-[0-9a-f]{8}$`), customer.Code)
	assert.False(t, customer.CreatedAt.IsZero())
}

func TestCreateCustomerDuplicateSubjectConflicts(t *testing.T) {
	db := testDB(t)
	svc := newCustomerService(t, db)

	createCustomer(t, svc, "subject-dup")

	_, err := svc.Create(context.Background(), services.CustomerCreateInput{
		Name:       "Other Name",
		Phone:      "+254700000001",
		SubjectRef: "subject-dup",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateCustomerValidation(t *testing.T) {
	db := testDB(t)
	svc := newCustomerService(t, db)

	cases := []struct {
		name  string
		input services.CustomerCreateInput
	}{
		{"empty name", services.CustomerCreateInput{
			Name: "", Phone: "+254712345678", SubjectRef: "s1"}},
		{"name too long", services.CustomerCreateInput{
			Name: strings.Repeat("x", 101), Phone: "+254712345678", SubjectRef: "s2"}},
		{"phone too short", services.CustomerCreateInput{
			Name: "Jane", Phone: "12345", SubjectRef: "s3"}},
		{"phone with letters", services.CustomerCreateInput{
			Name: "Jane", Phone: "+2547ABC45678", SubjectRef: "s4"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.Validation), "got %v", err)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetCustomerByID(t *testing.T) {
	db := testDB(t)
	svc := newCustomerService(t, db)

	created := createCustomer(t, svc, "subject-get")

	got, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Code, got.Code)

	_, err = svc.GetByID(context.Background(), created.ID+100)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestListCustomersPagination(t *testing.T) {
	db := testDB(t)
	svc := newCustomerService(t, db)

	for i := 0; i < 5; i++ {
		createCustomer(t, svc, "subject-list-"+string(rune('a'+i)))
	}

	page, err := svc.List(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	// Pages are ordered by id, so skip=1 starts at the second customer.
	assert.Less(t, page[0].ID, page[1].ID)

	rest, err := svc.List(context.Background(), 4, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestUpdateCustomerPartial(t *testing.T) {
	db := testDB(t)
	svc := newCustomerService(t, db)

	created := createCustomer(t, svc, "subject-upd")

	name := "Renamed"
	updated, err := svc.Update(context.Background(), created.ID, services.CustomerUpdateInput{
		Name: &name,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, created.Phone, updated.Phone, "unset field must stay unchanged")
	assert.Equal(t, created.Code, updated.Code, "code is immutable")
	assert.Equal(t, created.SubjectRef, updated.SubjectRef, "subject is immutable")
}

func TestUpdateCustomerValidatesPhone(t *testing.T) {
	db := testDB(t)
	svc := newCustomerService(t, db)

	created := createCustomer(t, svc, "subject-updv")

	phone := "bad"
	_, err := svc.Update(context.Background(), created.ID, services.CustomerUpdateInput{
		Phone: &phone,
	})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestUpdateCustomerRejectsExplicitlyEmptyFields(t *testing.T) {
	db := testDB(t)
	svc := newCustomerService(t, db)

	created := createCustomer(t, svc, "subject-updz")

	empty := ""
	_, err := svc.Update(context.Background(), created.ID, services.CustomerUpdateInput{
		Name:  &empty,
		Phone: &empty,
	})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	current, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, current.Name, "empty name must not be written")
	assert.Equal(t, created.Phone, current.Phone, "empty phone must not be written")
}

func TestUpdateCustomerNotFound(t *testing.T) {
	db := testDB(t)
	svc := newCustomerService(t, db)

	name := "Ghost"
	_, err := svc.Update(context.Background(), 9999, services.CustomerUpdateInput{Name: &name})
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestGetCustomerReadThroughCache(t *testing.T) {
	db := testDB(t)
	store := newMemoryCache()
	svc := newCustomerServiceCached(t, db, store)

	created := createCustomer(t, svc, "subject-cache")

	// First read fills the cache; a row change behind the service's back
	// is then invisible until something invalidates.
	first, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Customer{}).
		Where("id = ?", created.ID).
		Update("name", "Changed Behind Cache").Error)

	cached, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Name, cached.Name, "second read must come from the cache")
}

func TestUpdateCustomerInvalidatesCache(t *testing.T) {
	db := testDB(t)
	store := newMemoryCache()
	svc := newCustomerServiceCached(t, db, store)

	created := createCustomer(t, svc, "subject-cachei")
	_, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)

	name := "Renamed"
	_, err = svc.Update(context.Background(), created.ID, services.CustomerUpdateInput{Name: &name})
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name, "update must evict the cached entry")
}

func TestDeleteCustomer(t *testing.T) {
	db := testDB(t)
	svc := newCustomerService(t, db)

	created := createCustomer(t, svc, "subject-del")

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err := svc.GetByID(context.Background(), created.ID)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	err = svc.Delete(context.Background(), created.ID)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestDeleteCustomerWithOrdersRejected(t *testing.T) {
	db := testDB(t)
	custSvc := newCustomerService(t, db)
	orderSvc, _ := newOrderService(t, db)

	customer := createCustomer(t, custSvc, "subject-fk")
	_, err := orderSvc.Create(context.Background(), services.OrderCreateInput{
		CustomerID: customer.ID, Item: "Pen", Amount: 10, Quantity: 1,
	})
	require.NoError(t, err)

	err = custSvc.Delete(context.Background(), customer.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Conflict), "got %v", err)

	// The customer row survives the rejected delete.
	_, err = custSvc.GetByID(context.Background(), customer.ID)
	assert.NoError(t, err)
}

func TestOrderCountUnknownCustomerIsZero(t *testing.T) {
	db := testDB(t)
	svc := newCustomerService(t, db)

	count, err := svc.OrderCount(context.Background(), 424242)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestOrderCount(t *testing.T) {
	db := testDB(t)
	custSvc := newCustomerService(t, db)
	orderSvc, _ := newOrderService(t, db)

	customer := createCustomer(t, custSvc, "subject-count")
	for i := 0; i < 3; i++ {
		_, err := orderSvc.Create(context.Background(), services.OrderCreateInput{
			CustomerID: customer.ID, Item: "Pen", Amount: 5, Quantity: 1,
		})
		require.NoError(t, err)
	}

	count, err := custSvc.OrderCount(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestRecentOrdersNotFoundForUnknownCustomer(t *testing.T) {
	db := testDB(t)
	svc := newCustomerService(t, db)

	_, err := svc.RecentOrders(context.Background(), 424242, 5)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestRecentOrdersNewestFirstWithLimit(t *testing.T) {
	db := testDB(t)
	custSvc := newCustomerService(t, db)
	orderSvc, _ := newOrderService(t, db)

	customer := createCustomer(t, custSvc, "subject-recent")

	var ids []uint
	for _, item := range []string{"Pen", "Book", "Lamp"} {
		order, err := orderSvc.Create(context.Background(), services.OrderCreateInput{
			CustomerID: customer.ID, Item: item, Amount: 1, Quantity: 1,
		})
		require.NoError(t, err)
		ids = append(ids, order.ID)
	}

	got, err := custSvc.RecentOrders(context.Background(), customer.ID, 2)
	require.NoError(t, err)

	require.Len(t, got.RecentOrders, 2)
	assert.Equal(t, ids[2], got.RecentOrders[0].ID, "newest first")
	assert.Equal(t, ids[1], got.RecentOrders[1].ID)
	assert.Equal(t, customer.Code, got.Code)
}
