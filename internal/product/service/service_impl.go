package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/procurahq/procura/internal/clock"
	"github.com/procurahq/procura/internal/events"
	"github.com/procurahq/procura/internal/product/csv"
	"github.com/procurahq/procura/internal/product/domain"
	"github.com/procurahq/procura/pkg/listview"
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
	Feed  *events.Hub
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	feed  *events.Hub
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		feed:  p.Feed,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if !req.Price.IsPositive() {
		return nil, domain.ErrInvalidPrice
	}
	company := strings.TrimSpace(req.Company)
	if company == "" {
		return nil, domain.ErrInvalidCompany
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, domain.ErrInvalidAddress
	}
	contact := strings.TrimSpace(req.ContactNumber)
	if contact == "" {
		return nil, domain.ErrInvalidContact
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	if req.CostPrice != nil && req.CostPrice.IsNegative() {
		return nil, domain.ErrInvalidCostPrice
	}

	now := s.clock.Now()
	p := &domain.Product{
		ID:            s.genID.Generate().Int64(),
		Name:          name,
		Price:         req.Price,
		Company:       company,
		Address:       address,
		ContactNumber: contact,
		Email:         email,
		CostPrice:     req.CostPrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Metadata != nil {
		p.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Create(ctx, s.db, p); err != nil {
		return nil, err
	}

	s.publish(events.TypeProductCreated, p)

	resp := s.toResponse(p)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	search := strings.TrimSpace(req.Search)
	items = listview.Filter(items, func(p domain.Product) bool {
		return listview.MatchText(search, p.Name, p.Company)
	})

	sortProducts(items, strings.TrimSpace(req.SortBy), strings.TrimSpace(req.OrderBy))

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, s.toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, domain.ErrInvalidPrice
		}
		item.Price = *req.Price
	}
	if req.Company != nil {
		company := strings.TrimSpace(*req.Company)
		if company == "" {
			return nil, domain.ErrInvalidCompany
		}
		item.Company = company
	}
	if req.Address != nil {
		address := strings.TrimSpace(*req.Address)
		if address == "" {
			return nil, domain.ErrInvalidAddress
		}
		item.Address = address
	}
	if req.ContactNumber != nil {
		contact := strings.TrimSpace(*req.ContactNumber)
		if contact == "" {
			return nil, domain.ErrInvalidContact
		}
		item.ContactNumber = contact
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, domain.ErrInvalidEmail
		}
		item.Email = email
	}
	if req.CostPrice != nil {
		if req.CostPrice.IsNegative() {
			return nil, domain.ErrInvalidCostPrice
		}
		item.CostPrice = req.CostPrice
	}
	if req.Metadata != nil {
		item.Metadata = datatypes.JSONMap(req.Metadata)
	}

	item.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	s.publish(events.TypeProductUpdated, item)

	resp := s.toResponse(item)
	return &resp, nil
}

// ImportCSV persists every valid row of the upload in one transaction and
// reports rejected rows alongside. A header failure imports nothing.
func (s *Service) ImportCSV(ctx context.Context, text string) (*domain.ImportResult, error) {
	rows, rowErrs, err := csv.Parse(text)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	created := make([]*domain.Product, 0, len(rows))

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			p := &domain.Product{
				ID:            s.genID.Generate().Int64(),
				Name:          row.Name,
				Price:         row.Price,
				Company:       row.Company,
				Address:       row.Address,
				ContactNumber: row.ContactNumber,
				Email:         row.Email,
				CostPrice:     row.CostPrice,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := s.repo.Create(ctx, tx, p); err != nil {
				return err
			}
			created = append(created, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &domain.ImportResult{
		Imported:  len(created),
		Products:  make([]domain.Response, 0, len(created)),
		RowErrors: rowErrs,
	}
	for _, p := range created {
		s.publish(events.TypeProductImported, p)
		result.Products = append(result.Products, s.toResponse(p))
	}

	s.log.Info("csv import finished",
		zap.Int("imported", len(created)),
		zap.Int("rejected", len(rowErrs)),
	)

	return result, nil
}

func (s *Service) publish(eventType string, p *domain.Product) {
	s.feed.Publish(events.Event{
		Type:       eventType,
		ProductID:  snowflake.ID(p.ID).String(),
		Name:       p.Name,
		OccurredAt: s.clock.Now().Format(time.RFC3339),
	})
}

func (s *Service) toResponse(p *domain.Product) domain.Response {
	resp := domain.Response{
		ID:            snowflake.ID(p.ID).String(),
		Name:          p.Name,
		Price:         p.Price,
		Company:       p.Company,
		Address:       p.Address,
		ContactNumber: p.ContactNumber,
		Email:         p.Email,
		CostPrice:     p.CostPrice,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}

	if len(p.Metadata) > 0 {
		resp.Metadata = map[string]any(p.Metadata)
	}

	return resp
}

func sortProducts(items []domain.Product, sortBy, orderBy string) {
	state := listview.SortState{Key: sortBy, Desc: strings.EqualFold(orderBy, "desc")}

	var less func(a, b domain.Product) bool
	switch sortBy {
	case "name":
		less = func(a, b domain.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "price":
		less = func(a, b domain.Product) bool { return a.Price.LessThan(b.Price) }
	case "company":
		less = func(a, b domain.Product) bool { return strings.ToLower(a.Company) < strings.ToLower(b.Company) }
	case "email":
		less = func(a, b domain.Product) bool { return strings.ToLower(a.Email) < strings.ToLower(b.Email) }
	case "created_at", "":
		less = func(a, b domain.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return
	}

	listview.Sort(items, state, less)
}
