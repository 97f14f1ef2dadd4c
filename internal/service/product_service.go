package service

import (
	"context"

	"go-warehouse-inventory/internal/model"
	"go-warehouse-inventory/internal/repository"
	"go-warehouse-inventory/internal/ws"
	"go-warehouse-inventory/pkg/logger"
	"go-warehouse-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *ProductRequest, actor Actor) (*ProductDetail, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest, actor Actor) (*ProductDetail, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID, actor Actor) error
	GetProducts(ctx context.Context, filter repository.ProductFilter) ([]ProductDetail, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
}

type productService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	wsHub       *ws.Hub
	log         *zap.Logger
}

func NewProductService(pRepo repository.ProductRepository, db *gorm.DB, hub *ws.Hub, log *zap.Logger) ProductService {
	return &productService{
		productRepo: pRepo,
		db:          db,
		wsHub:       hub,
		log:         logger.OrNop(log).Named("product"),
	}
}

func (s *productService) repo(ctx context.Context) repository.ProductRepository {
	return s.productRepo.WithTx(s.db.WithContext(ctx))
}

func (s *productService) CreateProduct(ctx context.Context, req *ProductRequest, actor Actor) (*ProductDetail, error) {
	// 1. Payload validation
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	repo := s.repo(ctx)

	// 2. Unique code
	exists, err := repo.ExistsByCode(req.ProductCode, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateProduct
	}

	// 3. Persist (entity rules run in the save hook)
	product := model.Product{IsActive: true}
	req.apply(&product)
	product.CreatedBy = actor.AuditName()
	product.UpdatedBy = actor.AuditName()
	if err := repo.Create(&product); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("product_code", product.Code),
		zap.String("actor", actor.AuditName()))

	// 4. Broadcast
	detail := newProductDetail(product, decimal.Zero)
	s.wsHub.Publish(ws.EventProductChanged, eventData{
		"action":  "created",
		"product": detail,
		"user":    actor.Name,
	})
	return &detail, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest, actor Actor) (*ProductDetail, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	repo := s.repo(ctx)
	product, err := repo.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}

	exists, err := repo.ExistsByCode(req.ProductCode, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateProduct
	}

	req.apply(product)
	product.UpdatedBy = actor.AuditName()
	if err := repo.Update(product); err != nil {
		return nil, err
	}

	current, err := repo.CurrentStock(id)
	if err != nil {
		return nil, err
	}

	detail := newProductDetail(*product, current)
	s.wsHub.Publish(ws.EventProductChanged, eventData{
		"action":  "updated",
		"product": detail,
		"user":    actor.Name,
	})
	return &detail, nil
}

// DeactivateProduct is the delete operation: products are never removed
// because their lines carry the stock history.
func (s *productService) DeactivateProduct(ctx context.Context, id uuid.UUID, actor Actor) error {
	repo := s.repo(ctx)
	product, err := repo.FindByID(id)
	if err != nil {
		return notFound(err, ErrProductNotFound)
	}

	product.IsActive = false
	product.UpdatedBy = actor.AuditName()
	if err := repo.Update(product); err != nil {
		return err
	}

	s.log.Info("product deactivated", zap.String("product_code", product.Code))
	s.wsHub.Publish(ws.EventProductChanged, eventData{
		"action":     "deactivated",
		"product_id": product.ID,
		"user":       actor.Name,
	})
	return nil
}

func (s *productService) GetProducts(ctx context.Context, filter repository.ProductFilter) ([]ProductDetail, error) {
	repo := s.repo(ctx)
	products, err := repo.FindAll(filter)
	if err != nil {
		return nil, err
	}
	levels, err := repo.StockLevels()
	if err != nil {
		return nil, err
	}

	details := make([]ProductDetail, 0, len(products))
	for _, p := range products {
		details = append(details, newProductDetail(p, levels[p.ID]))
	}
	return details, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	repo := s.repo(ctx)
	product, err := repo.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	current, err := repo.CurrentStock(id)
	if err != nil {
		return nil, err
	}
	detail := newProductDetail(*product, current)
	return &detail, nil
}

// eventData is the body of a websocket event.
type eventData = map[string]interface{}
