package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabwise/epos/internal/clock"
	menudomain "github.com/tabwise/epos/internal/menuitem/domain"
	menurepository "github.com/tabwise/epos/internal/menuitem/repository"
	"github.com/tabwise/epos/internal/money"
	"github.com/tabwise/epos/internal/tab/domain"
	"github.com/tabwise/epos/internal/tab/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	clk   *clock.FakeClock
	genID *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&menudomain.MenuItem{}, &domain.Tab{}, &domain.TabItem{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clk,
		Repo:     repository.Provide(),
		MenuRepo: menurepository.Provide(),
	})

	return &fixture{svc: svc, db: db, clk: clk, genID: node}
}

func (f *fixture) seedMenuItem(t *testing.T, name string, unitPrice int64, rate money.VATRate) *menudomain.MenuItem {
	t.Helper()

	item := &menudomain.MenuItem{
		ID:        f.genID.Generate().Int64(),
		Code:      strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Name:      name,
		UnitPrice: unitPrice,
		VATRate:   rate,
		CreatedAt: f.clk.Now(),
	}
	require.NoError(t, f.db.Create(item).Error)
	return item
}

func TestCreateTab(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(context.Background(), domain.CreateRequest{TableNumber: 7, Covers: 4})
	require.NoError(t, err)
	assert.Equal(t, 7, resp.TableNumber)
	assert.Equal(t, 4, resp.Covers)
	assert.Equal(t, domain.StatusOpen, resp.Status)
	assert.Equal(t, f.clk.Now(), resp.OpenedAt.UTC())
	assert.Nil(t, resp.ClosedAt)
	assert.Zero(t, resp.Total)
	assert.Empty(t, resp.Items)
}

func TestCreateTabValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{TableNumber: 0, Covers: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidTableNumber)

	_, err = f.svc.Create(context.Background(), domain.CreateRequest{TableNumber: 3, Covers: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidCovers)
}

func TestAddItemComputesLineAndTotals(t *testing.T) {
	f := newFixture(t)
	flatWhite := f.seedMenuItem(t, "Flat White", 350, money.RateFromPercent(20, 0))

	tab, err := f.svc.Create(context.Background(), domain.CreateRequest{TableNumber: 1, Covers: 2})
	require.NoError(t, err)

	resp, err := f.svc.AddItem(context.Background(), tab.ID, domain.AddItemRequest{
		MenuItemID: snowflake.ID(flatWhite.ID).String(),
		Qty:        2,
	})
	require.NoError(t, err)

	assert.Equal(t, "Flat White", resp.Item.MenuItemName)
	assert.Equal(t, 2, resp.Item.Qty)
	assert.Equal(t, int64(350), resp.Item.UnitPrice)
	assert.Equal(t, int64(140), resp.Item.VATAmount)
	assert.Equal(t, int64(840), resp.Item.LineTotal)

	assert.Equal(t, int64(700), resp.TabTotals.Subtotal)
	assert.Equal(t, int64(70), resp.TabTotals.ServiceCharge)
	assert.Equal(t, int64(140), resp.TabTotals.VATTotal)
	assert.Equal(t, int64(910), resp.TabTotals.Total)
}

func TestAddItemRecomputesAcrossLines(t *testing.T) {
	f := newFixture(t)
	flatWhite := f.seedMenuItem(t, "Flat White", 350, money.RateFromPercent(20, 0))
	shortbread := f.seedMenuItem(t, "Shortbread", 250, money.RateFromPercent(20, 0))

	tab, err := f.svc.Create(context.Background(), domain.CreateRequest{TableNumber: 1, Covers: 2})
	require.NoError(t, err)

	_, err = f.svc.AddItem(context.Background(), tab.ID, domain.AddItemRequest{
		MenuItemID: snowflake.ID(flatWhite.ID).String(),
		Qty:        2,
	})
	require.NoError(t, err)

	resp, err := f.svc.AddItem(context.Background(), tab.ID, domain.AddItemRequest{
		MenuItemID: snowflake.ID(shortbread.ID).String(),
		Qty:        1,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(950), resp.TabTotals.Subtotal)
	assert.Equal(t, int64(95), resp.TabTotals.ServiceCharge)
	assert.Equal(t, int64(190), resp.TabTotals.VATTotal)
	assert.Equal(t, int64(1235), resp.TabTotals.Total)

	// The persisted tab mirrors the response.
	got, err := f.svc.Get(context.Background(), tab.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(950), got.Subtotal)
	assert.Equal(t, int64(1235), got.Total)
	assert.Len(t, got.Items, 2)
}

func TestAddItemSnapshotsPriceAndRate(t *testing.T) {
	f := newFixture(t)
	cake := f.seedMenuItem(t, "Chocolate Cake", 450, money.RateFromPercent(20, 0))

	tab, err := f.svc.Create(context.Background(), domain.CreateRequest{TableNumber: 5, Covers: 1})
	require.NoError(t, err)

	_, err = f.svc.AddItem(context.Background(), tab.ID, domain.AddItemRequest{
		MenuItemID: snowflake.ID(cake.ID).String(),
		Qty:        1,
	})
	require.NoError(t, err)

	// Repricing the menu must not touch lines already on the tab.
	require.NoError(t, f.db.Model(&menudomain.MenuItem{}).Where("id = ?", cake.ID).
		Update("unit_price", 999).Error)

	got, err := f.svc.Get(context.Background(), tab.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(450), got.Items[0].UnitPrice)
	// 450 subtotal + 45 service charge + 90 VAT.
	assert.Equal(t, int64(585), got.Total)
}

func TestAddItemValidation(t *testing.T) {
	f := newFixture(t)
	flatWhite := f.seedMenuItem(t, "Flat White", 350, money.RateFromPercent(20, 0))

	tab, err := f.svc.Create(context.Background(), domain.CreateRequest{TableNumber: 2, Covers: 2})
	require.NoError(t, err)

	_, err = f.svc.AddItem(context.Background(), "abc", domain.AddItemRequest{
		MenuItemID: snowflake.ID(flatWhite.ID).String(),
		Qty:        1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = f.svc.AddItem(context.Background(), tab.ID, domain.AddItemRequest{
		MenuItemID: snowflake.ID(flatWhite.ID).String(),
		Qty:        0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQty)

	_, err = f.svc.AddItem(context.Background(), tab.ID, domain.AddItemRequest{
		MenuItemID: "999999",
		Qty:        1,
	})
	assert.ErrorIs(t, err, menudomain.ErrNotFound)

	_, err = f.svc.AddItem(context.Background(), "424242", domain.AddItemRequest{
		MenuItemID: snowflake.ID(flatWhite.ID).String(),
		Qty:        1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddItemRejectsClosedTab(t *testing.T) {
	f := newFixture(t)
	flatWhite := f.seedMenuItem(t, "Flat White", 350, money.RateFromPercent(20, 0))

	tab, err := f.svc.Create(context.Background(), domain.CreateRequest{TableNumber: 2, Covers: 2})
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&domain.Tab{}).Where("id = ?", tab.ID).
		Update("status", domain.StatusPaid).Error)

	_, err = f.svc.AddItem(context.Background(), tab.ID, domain.AddItemRequest{
		MenuItemID: snowflake.ID(flatWhite.ID).String(),
		Qty:        1,
	})
	assert.ErrorIs(t, err, domain.ErrTabNotOpen)
}

func TestGetUnknownTab(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), "424242")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Get(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
