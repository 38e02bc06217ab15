package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/tabwise/epos/internal/clock"
	"github.com/tabwise/epos/internal/menuitem/domain"
	"github.com/tabwise/epos/internal/money"
	"github.com/tabwise/epos/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("menuitem.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.UnitPrice < 0 {
		return nil, domain.ErrInvalidPrice
	}

	rate, err := RateFromPercent(req.VATRatePercent)
	if err != nil {
		return nil, err
	}

	item := &domain.MenuItem{
		ID:        s.genID.Generate().Int64(),
		Code:      slug.Make(name),
		Name:      name,
		UnitPrice: req.UnitPrice,
		VATRate:   rate,
		CreatedAt: s.clock.Now(),
	}
	if req.Metadata != nil {
		item.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Create(ctx, s.db, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameExists
		}
		return nil, err
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	itemID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

// RateFromPercent validates a percentage with at most two decimal
// places and converts it to basis points.
func RateFromPercent(percent float64) (money.VATRate, error) {
	if percent < 0 || percent > 100 {
		return 0, domain.ErrInvalidVATRate
	}
	scaled := percent * 100
	rounded := math.Round(scaled)
	if math.Abs(scaled-rounded) > 1e-6 {
		return 0, domain.ErrInvalidVATRate
	}
	return money.VATRate(int64(rounded)), nil
}

func toResponse(item *domain.MenuItem) domain.Response {
	resp := domain.Response{
		ID:             snowflake.ID(item.ID).String(),
		Code:           item.Code,
		Name:           item.Name,
		UnitPrice:      item.UnitPrice,
		VATRatePercent: float64(item.VATRate) / 100,
		CreatedAt:      item.CreatedAt,
	}
	if len(item.Metadata) > 0 {
		resp.Metadata = map[string]any(item.Metadata)
	}
	return resp
}
