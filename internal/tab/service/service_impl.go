package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tabwise/epos/internal/clock"
	menudomain "github.com/tabwise/epos/internal/menuitem/domain"
	"github.com/tabwise/epos/internal/money"
	"github.com/tabwise/epos/internal/tab/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	MenuRepo menudomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	menuRepo menudomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("tab.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		menuRepo: p.MenuRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.TabResponse, error) {
	if req.TableNumber <= 0 {
		return nil, domain.ErrInvalidTableNumber
	}
	if req.Covers <= 0 {
		return nil, domain.ErrInvalidCovers
	}

	tab := &domain.Tab{
		ID:          s.genID.Generate().Int64(),
		TableNumber: req.TableNumber,
		Covers:      req.Covers,
		Status:      domain.StatusOpen,
		OpenedAt:    s.clock.Now(),
	}

	if err := s.repo.Create(ctx, s.db, tab); err != nil {
		return nil, err
	}

	s.log.Info("tab opened",
		zap.String("tab_id", snowflake.ID(tab.ID).String()),
		zap.Int("table_number", tab.TableNumber),
		zap.Int("covers", tab.Covers),
	)

	resp := toTabResponse(tab)
	return &resp, nil
}

func (s *Service) AddItem(ctx context.Context, tabID string, req domain.AddItemRequest) (*domain.AddItemResponse, error) {
	id, err := parseID(tabID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	if req.Qty < 1 {
		return nil, domain.ErrInvalidQty
	}

	menuItemID, err := parseID(req.MenuItemID)
	if err != nil {
		return nil, menudomain.ErrInvalidID
	}

	var (
		created *domain.TabItem
		totals  money.Totals
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tab, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if tab == nil {
			return domain.ErrNotFound
		}
		if tab.Status != domain.StatusOpen {
			return domain.ErrTabNotOpen
		}

		menuItem, err := s.menuRepo.FindByID(ctx, tx, menuItemID)
		if err != nil {
			return err
		}
		if menuItem == nil {
			return menudomain.ErrNotFound
		}

		line := money.ComputeLine(menuItem.UnitPrice, int64(req.Qty), menuItem.VATRate)
		item := &domain.TabItem{
			ID:           s.genID.Generate().Int64(),
			TabID:        tab.ID,
			MenuItemID:   menuItem.ID,
			MenuItemName: menuItem.Name,
			Qty:          req.Qty,
			UnitPrice:    menuItem.UnitPrice,
			VATRate:      menuItem.VATRate,
			VATAmount:    line.VATAmount,
			LineTotal:    line.LineTotal,
			CreatedAt:    s.clock.Now(),
		}
		if err := s.repo.CreateItem(ctx, tx, item); err != nil {
			return err
		}

		// Full recompute over all stored lines, never incremental.
		items, err := s.repo.FindItems(ctx, tx, tab.ID)
		if err != nil {
			return err
		}
		lines := make([]money.Line, 0, len(items))
		for _, it := range items {
			lines = append(lines, money.Line{VATAmount: it.VATAmount, LineTotal: it.LineTotal})
		}
		totals = money.Compute(lines)

		tab.Subtotal = totals.Subtotal
		tab.ServiceCharge = totals.ServiceCharge
		tab.VATTotal = totals.VATTotal
		tab.Total = totals.Total
		if err := s.repo.UpdateTotals(ctx, tx, tab); err != nil {
			return err
		}

		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &domain.AddItemResponse{
		Item: toItemResponse(created),
		TabTotals: domain.TotalsResponse{
			Subtotal:      totals.Subtotal,
			ServiceCharge: totals.ServiceCharge,
			VATTotal:      totals.VATTotal,
			Total:         totals.Total,
		},
	}, nil
}

func (s *Service) Get(ctx context.Context, tabID string) (*domain.TabResponse, error) {
	id, err := parseID(tabID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	tab, err := s.repo.FindByIDWithItems(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if tab == nil {
		return nil, domain.ErrNotFound
	}

	resp := toTabResponse(tab)
	return &resp, nil
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

func toTabResponse(tab *domain.Tab) domain.TabResponse {
	items := make([]domain.ItemResponse, 0, len(tab.Items))
	for i := range tab.Items {
		items = append(items, toItemResponse(&tab.Items[i]))
	}
	return domain.TabResponse{
		ID:            snowflake.ID(tab.ID).String(),
		TableNumber:   tab.TableNumber,
		Covers:        tab.Covers,
		Status:        tab.Status,
		OpenedAt:      tab.OpenedAt,
		ClosedAt:      tab.ClosedAt,
		Subtotal:      tab.Subtotal,
		ServiceCharge: tab.ServiceCharge,
		VATTotal:      tab.VATTotal,
		Total:         tab.Total,
		Items:         items,
	}
}

func toItemResponse(item *domain.TabItem) domain.ItemResponse {
	return domain.ItemResponse{
		ID:             snowflake.ID(item.ID).String(),
		MenuItemID:     snowflake.ID(item.MenuItemID).String(),
		MenuItemName:   item.MenuItemName,
		Qty:            item.Qty,
		UnitPrice:      item.UnitPrice,
		VATRatePercent: float64(item.VATRate) / 100,
		VATAmount:      item.VATAmount,
		LineTotal:      item.LineTotal,
	}
}
