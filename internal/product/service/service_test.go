package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/procurahq/procura/internal/clock"
	"github.com/procurahq/procura/internal/events"
	"github.com/procurahq/procura/internal/product/domain"
	"github.com/procurahq/procura/internal/product/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *events.Hub, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Product{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	hub := events.NewHub()
	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
		Feed:  hub,
	})
	return svc, hub, fake
}

func validCreate() domain.CreateRequest {
	return domain.CreateRequest{
		Name:          "Widget",
		Price:         decimal.RequireFromString("9.99"),
		Company:       "ACME Corp",
		Address:       "123 St",
		ContactNumber: "555-0100",
		Email:         "a@b.com",
	}
}

func TestCreateAndGet(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.True(t, decimal.RequireFromString("9.99").Equal(got.Price))
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		mutate func(*domain.CreateRequest)
		want   error
	}{
		{func(r *domain.CreateRequest) { r.Name = " " }, domain.ErrInvalidName},
		{func(r *domain.CreateRequest) { r.Price = decimal.Zero }, domain.ErrInvalidPrice},
		{func(r *domain.CreateRequest) { r.Price = decimal.RequireFromString("-1") }, domain.ErrInvalidPrice},
		{func(r *domain.CreateRequest) { r.Company = "" }, domain.ErrInvalidCompany},
		{func(r *domain.CreateRequest) { r.Address = "" }, domain.ErrInvalidAddress},
		{func(r *domain.CreateRequest) { r.ContactNumber = "" }, domain.ErrInvalidContact},
		{func(r *domain.CreateRequest) { r.Email = "nope" }, domain.ErrInvalidEmail},
		{func(r *domain.CreateRequest) {
			neg := decimal.RequireFromString("-0.5")
			r.CostPrice = &neg
		}, domain.ErrInvalidCostPrice},
	}

	for _, tc := range cases {
		req := validCreate()
		tc.mutate(&req)
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, tc.want)
	}
}

func TestCreatePublishesEvent(t *testing.T) {
	svc, hub, _ := newTestService(t)

	sub, _ := hub.Subscribe()
	defer sub.Close()

	created, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	event := <-sub.Events()
	assert.Equal(t, events.TypeProductCreated, event.Type)
	assert.Equal(t, created.ID, event.ProductID)
}

func TestListFilterAndSort(t *testing.T) {
	svc, _, fake := newTestService(t)
	ctx := context.Background()

	seed := []struct {
		name, company, price string
	}{
		{"Widget", "ACME Corp", "9.99"},
		{"Gadget", "Globex", "19.99"},
		{"Sprocket", "acme industrial", "4.50"},
	}
	for _, s := range seed {
		req := validCreate()
		req.Name = s.name
		req.Company = s.company
		req.Price = decimal.RequireFromString(s.price)
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
		fake.Advance(time.Second)
	}

	// Case-insensitive substring match over name+company.
	got, err := svc.List(ctx, domain.ListRequest{Search: "acme"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Sort by price descending.
	got, err = svc.List(ctx, domain.ListRequest{SortBy: "price", OrderBy: "desc"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Gadget", got[0].Name)
	assert.Equal(t, "Sprocket", got[2].Name)

	// Default order is creation order.
	got, err = svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Widget", got[0].Name)
}

func TestUpdate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	price := decimal.RequireFromString("12.50")
	updated, err := svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Price: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.Price))
	assert.Equal(t, "Widget", updated.Name)

	_, err = svc.Update(ctx, domain.UpdateRequest{ID: "999999999999", Price: &price})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(ctx, domain.UpdateRequest{ID: "not-an-id"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestImportCSV(t *testing.T) {
	svc, hub, _ := newTestService(t)
	ctx := context.Background()

	sub, _ := hub.Subscribe()
	defer sub.Close()

	text := "name,price,company,address,contactNumber,email\n" +
		"Widget,9.99,Acme,123 St,555-0100,a@b.com\n" +
		"Broken,oops,Acme,123 St,555-0100,b@b.com\n" +
		"Gadget,19.99,Globex,9 Ave,555-0101,g@x.com"

	result, err := svc.ImportCSV(ctx, text)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Products, 2)
	assert.Equal(t, "Widget", result.Products[0].Name)
	assert.Equal(t, "Gadget", result.Products[1].Name)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, 3, result.RowErrors[0].Line)

	event := <-sub.Events()
	assert.Equal(t, events.TypeProductImported, event.Type)

	listed, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestImportCSVMissingHeaders(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ImportCSV(context.Background(), "name,price,company,address,contactNumber\nWidget,9.99,Acme,123 St,555-0100")
	require.Error(t, err)

	// Nothing may be written when the header check fails.
	listed, err := svc.List(context.Background(), domain.ListRequest{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}
