package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabwise/epos/internal/clock"
	"github.com/tabwise/epos/internal/config"
	"github.com/tabwise/epos/internal/gateway/mock"
	"github.com/tabwise/epos/internal/intentstore"
	"github.com/tabwise/epos/internal/money"
	"github.com/tabwise/epos/internal/payment/domain"
	"github.com/tabwise/epos/internal/payment/repository"
	tabdomain "github.com/tabwise/epos/internal/tab/domain"
	tabrepository "github.com/tabwise/epos/internal/tab/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc     domain.Service
	db      *gorm.DB
	clk     *clock.FakeClock
	secrets intentstore.Store
	genID   *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tabdomain.Tab{}, &tabdomain.TabItem{}, &domain.Payment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2025, time.March, 10, 19, 30, 0, 0, time.UTC))
	secrets := intentstore.NewMemoryStore(clk)

	gw, err := mock.NewFactory().NewGateway()
	require.NoError(t, err)

	svc := New(Params{
		Cfg:     config.Config{SecretTTL: 900 * time.Second},
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   clk,
		Repo:    repository.Provide(),
		TabRepo: tabrepository.Provide(),
		Secrets: secrets,
		Gateway: gw,
	})

	return &fixture{svc: svc, db: db, clk: clk, secrets: secrets, genID: node}
}

// seedTab inserts an open tab holding a single line whose totals come
// out to the given grand total, so tests can steer the mock gateway.
func (f *fixture) seedTab(t *testing.T, total int64) *tabdomain.Tab {
	t.Helper()

	tab := &tabdomain.Tab{
		ID:          f.genID.Generate().Int64(),
		TableNumber: 12,
		Covers:      2,
		Status:      tabdomain.StatusOpen,
		OpenedAt:    f.clk.Now(),
		Subtotal:    total,
		Total:       total,
	}
	require.NoError(t, f.db.Create(tab).Error)

	item := &tabdomain.TabItem{
		ID:           f.genID.Generate().Int64(),
		TabID:        tab.ID,
		MenuItemID:   f.genID.Generate().Int64(),
		MenuItemName: "Fish and Chips",
		Qty:          1,
		UnitPrice:    total,
		VATRate:      money.VATRate(0),
		LineTotal:    total,
		CreatedAt:    f.clk.Now(),
	}
	require.NoError(t, f.db.Create(item).Error)
	return tab
}

func (f *fixture) tabID(tab *tabdomain.Tab) string {
	return snowflake.ID(tab.ID).String()
}

func TestCreateIntent(t *testing.T) {
	f := newFixture(t)
	tab := f.seedTab(t, 1235)

	resp, err := f.svc.CreateIntent(context.Background(), f.tabID(tab))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.ClientSecret, "secret_"))
	assert.Equal(t, domain.StatusRequiresConfirmation, resp.Status)
	assert.Equal(t, int64(1235), resp.Amount)
	assert.Equal(t, "gbp", resp.Currency)

	var payment domain.Payment
	require.NoError(t, f.db.Where("tab_id = ?", tab.ID).First(&payment).Error)
	assert.Equal(t, domain.StatusRequiresConfirmation, payment.Status)
	assert.Equal(t, int64(1235), payment.Amount)

	intentID, ok, err := f.secrets.Get(context.Background(), resp.ClientSecret)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payment.PaymentIntentID, intentID)
}

func TestCreateIntentReissuesExistingSecret(t *testing.T) {
	f := newFixture(t)
	tab := f.seedTab(t, 1235)

	first, err := f.svc.CreateIntent(context.Background(), f.tabID(tab))
	require.NoError(t, err)
	second, err := f.svc.CreateIntent(context.Background(), f.tabID(tab))
	require.NoError(t, err)

	assert.Equal(t, first.ClientSecret, second.ClientSecret)
	assert.Equal(t, first.Amount, second.Amount)

	var count int64
	require.NoError(t, f.db.Model(&domain.Payment{}).Where("tab_id = ?", tab.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateIntentAfterSecretExpiry(t *testing.T) {
	f := newFixture(t)
	tab := f.seedTab(t, 1235)

	first, err := f.svc.CreateIntent(context.Background(), f.tabID(tab))
	require.NoError(t, err)

	f.clk.Advance(901 * time.Second)

	second, err := f.svc.CreateIntent(context.Background(), f.tabID(tab))
	require.NoError(t, err)
	assert.NotEqual(t, first.ClientSecret, second.ClientSecret)

	// The unreachable attempt is retired so the tab never carries two
	// confirmable payments at once.
	var payments []domain.Payment
	require.NoError(t, f.db.Where("tab_id = ?", tab.ID).Order("created_at").Find(&payments).Error)
	require.Len(t, payments, 2)
	assert.Equal(t, domain.StatusFailed, payments[0].Status)
	require.NotNil(t, payments[0].FailureReason)
	assert.Equal(t, "Client secret expired", *payments[0].FailureReason)
	assert.Equal(t, domain.StatusRequiresConfirmation, payments[1].Status)
}

func TestCreateIntentValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateIntent(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = f.svc.CreateIntent(context.Background(), "424242")
	assert.ErrorIs(t, err, tabdomain.ErrNotFound)

	empty := &tabdomain.Tab{
		ID:          f.genID.Generate().Int64(),
		TableNumber: 3,
		Covers:      1,
		Status:      tabdomain.StatusOpen,
		OpenedAt:    f.clk.Now(),
	}
	require.NoError(t, f.db.Create(empty).Error)
	_, err = f.svc.CreateIntent(context.Background(), snowflake.ID(empty.ID).String())
	assert.ErrorIs(t, err, domain.ErrEmptyTab)

	paid := f.seedTab(t, 500)
	require.NoError(t, f.db.Model(&tabdomain.Tab{}).Where("id = ?", paid.ID).
		Update("status", tabdomain.StatusPaid).Error)
	_, err = f.svc.CreateIntent(context.Background(), f.tabID(paid))
	assert.ErrorIs(t, err, tabdomain.ErrTabNotOpen)
}

func TestTakePaymentSucceedsAndClosesTab(t *testing.T) {
	f := newFixture(t)
	tab := f.seedTab(t, 1235)

	intent, err := f.svc.CreateIntent(context.Background(), f.tabID(tab))
	require.NoError(t, err)

	resp, err := f.svc.TakePayment(context.Background(), f.tabID(tab), intent.ClientSecret)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSucceeded, resp.Status)
	assert.Equal(t, int64(1235), resp.Amount)
	require.NotNil(t, resp.ConfirmedAt)
	assert.Equal(t, f.clk.Now(), resp.ConfirmedAt.UTC())

	var got tabdomain.Tab
	require.NoError(t, f.db.First(&got, tab.ID).Error)
	assert.Equal(t, tabdomain.StatusPaid, got.Status)
	require.NotNil(t, got.ClosedAt)
}

func TestTakePaymentIsIdempotentAfterSuccess(t *testing.T) {
	f := newFixture(t)
	tab := f.seedTab(t, 1235)

	intent, err := f.svc.CreateIntent(context.Background(), f.tabID(tab))
	require.NoError(t, err)

	first, err := f.svc.TakePayment(context.Background(), f.tabID(tab), intent.ClientSecret)
	require.NoError(t, err)

	// Repeat confirmations return the identical settled payload,
	// confirmed_at included; the secret mapping survives a success
	// exactly so this works.
	second, err := f.svc.TakePayment(context.Background(), f.tabID(tab), intent.ClientSecret)
	require.NoError(t, err)
	require.NotNil(t, second.ConfirmedAt)
	assert.True(t, first.ConfirmedAt.Equal(*second.ConfirmedAt))

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))

	var count int64
	require.NoError(t, f.db.Model(&domain.Payment{}).Where("tab_id = ?", tab.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTakePaymentDeclined(t *testing.T) {
	f := newFixture(t)
	tab := f.seedTab(t, 1013)

	intent, err := f.svc.CreateIntent(context.Background(), f.tabID(tab))
	require.NoError(t, err)

	_, err = f.svc.TakePayment(context.Background(), f.tabID(tab), intent.ClientSecret)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDeclined)

	var declined *domain.DeclinedError
	require.True(t, errors.As(err, &declined))
	assert.Equal(t, "Insufficient funds", declined.Reason)

	var payment domain.Payment
	require.NoError(t, f.db.Where("tab_id = ?", tab.ID).First(&payment).Error)
	assert.Equal(t, domain.StatusFailed, payment.Status)
	require.NotNil(t, payment.FailureReason)
	assert.Equal(t, "Insufficient funds", *payment.FailureReason)

	// The tab stays open for another attempt.
	var got tabdomain.Tab
	require.NoError(t, f.db.First(&got, tab.ID).Error)
	assert.Equal(t, tabdomain.StatusOpen, got.Status)

	// A decline burns its secret.
	_, err = f.svc.TakePayment(context.Background(), f.tabID(tab), intent.ClientSecret)
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestTakePaymentAlreadyFailed(t *testing.T) {
	f := newFixture(t)
	tab := f.seedTab(t, 1013)

	intent, err := f.svc.CreateIntent(context.Background(), f.tabID(tab))
	require.NoError(t, err)

	_, err = f.svc.TakePayment(context.Background(), f.tabID(tab), intent.ClientSecret)
	require.ErrorIs(t, err, domain.ErrDeclined)

	// Resurrect the mapping to hit the failed row directly.
	var payment domain.Payment
	require.NoError(t, f.db.Where("tab_id = ?", tab.ID).First(&payment).Error)
	require.NoError(t, f.secrets.Put(context.Background(), intent.ClientSecret, payment.PaymentIntentID, time.Minute))

	_, err = f.svc.TakePayment(context.Background(), f.tabID(tab), intent.ClientSecret)
	assert.ErrorIs(t, err, domain.ErrAlreadyFailed)
}

func TestTakePaymentUnknownSecret(t *testing.T) {
	f := newFixture(t)
	tab := f.seedTab(t, 1235)

	_, err := f.svc.TakePayment(context.Background(), f.tabID(tab), "secret_deadbeef")
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestTakePaymentWrongTab(t *testing.T) {
	f := newFixture(t)
	tab := f.seedTab(t, 1235)
	other := f.seedTab(t, 600)

	intent, err := f.svc.CreateIntent(context.Background(), f.tabID(tab))
	require.NoError(t, err)

	// A live secret presented against the wrong tab finds no payment.
	_, err = f.svc.TakePayment(context.Background(), f.tabID(other), intent.ClientSecret)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
