package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/internal/app/repository"
)

var ErrProductNotFound = errors.New("product not found")

type ProductService interface {
	ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error)
	GetProduct(id uint) (*model.Product, error)
	GetSeasonPrices(productID uint) ([]model.SeasonPrice, error)
	GetPriceHistory(productID uint, limit int) ([]model.PriceHistory, error)
	GetCaseMapping(productID uint) (*model.CaseMapping, error)
}

type productService struct {
	productRepo repository.ProductRepository
	priceRepo   repository.PriceRepository
	caseRepo    repository.CaseMappingRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	priceRepo repository.PriceRepository,
	caseRepo repository.CaseMappingRepository,
) ProductService {
	return &productService{
		productRepo: productRepo,
		priceRepo:   priceRepo,
		caseRepo:    caseRepo,
	}
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error) {
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetSeasonPrices(productID uint) ([]model.SeasonPrice, error) {
	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}
	return s.priceRepo.FindSeasonPrices(productID)
}

func (s *productService) GetPriceHistory(productID uint, limit int) ([]model.PriceHistory, error) {
	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}
	return s.priceRepo.FindHistory(productID, limit)
}

func (s *productService) GetCaseMapping(productID uint) (*model.CaseMapping, error) {
	mapping, err := s.caseRepo.FindByCaseProduct(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapping, nil
}
