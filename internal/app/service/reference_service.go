package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/summitretail/preseason-backend/internal/app/model"
	"github.com/summitretail/preseason-backend/internal/app/repository"
	"github.com/summitretail/preseason-backend/pkg/logger"
)

var ErrLocationNotFound = errors.New("location not found")

// ReferenceService covers the slow-moving lookup data everything else hangs
// off of: brands, seasons, and store locations.
type ReferenceService interface {
	ListBrands(activeOnly bool) ([]model.Brand, error)
	CreateBrand(brand *model.Brand) error
	UpdateBrand(brand *model.Brand) error
	ListSeasons() ([]model.Season, error)
	CreateSeason(season *model.Season) error
	GetCurrentSeason() (*model.Season, error)
	SetCurrentSeason(id uint) error
	ListLocations(activeOnly bool) ([]model.Location, error)
}

type referenceService struct {
	brandRepo    repository.BrandRepository
	seasonRepo   repository.SeasonRepository
	locationRepo repository.LocationRepository
}

func NewReferenceService(
	brandRepo repository.BrandRepository,
	seasonRepo repository.SeasonRepository,
	locationRepo repository.LocationRepository,
) ReferenceService {
	return &referenceService{
		brandRepo:    brandRepo,
		seasonRepo:   seasonRepo,
		locationRepo: locationRepo,
	}
}

func (s *referenceService) ListBrands(activeOnly bool) ([]model.Brand, error) {
	return s.brandRepo.FindAll(activeOnly)
}

func (s *referenceService) CreateBrand(brand *model.Brand) error {
	if err := s.brandRepo.Create(brand); err != nil {
		return err
	}
	logger.Info("Brand created", map[string]interface{}{
		"brand_id": brand.ID,
		"name":     brand.Name,
		"code":     brand.Code,
	})
	return nil
}

func (s *referenceService) UpdateBrand(brand *model.Brand) error {
	if _, err := s.brandRepo.FindByID(brand.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBrandNotFound
		}
		return err
	}
	return s.brandRepo.Update(brand)
}

func (s *referenceService) ListSeasons() ([]model.Season, error) {
	return s.seasonRepo.FindAll()
}

func (s *referenceService) CreateSeason(season *model.Season) error {
	if err := s.seasonRepo.Create(season); err != nil {
		return err
	}
	logger.Info("Season created", map[string]interface{}{
		"season_id": season.ID,
		"code":      season.Code,
	})
	return nil
}

func (s *referenceService) GetCurrentSeason() (*model.Season, error) {
	season, err := s.seasonRepo.FindCurrent()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	return season, nil
}

// SetCurrentSeason flips the current flag; only one season holds it at a time
func (s *referenceService) SetCurrentSeason(id uint) error {
	if _, err := s.seasonRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSeasonNotFound
		}
		return err
	}
	if err := s.seasonRepo.SetCurrent(id); err != nil {
		return err
	}
	logger.Info("Current season changed", map[string]interface{}{
		"season_id": id,
	})
	return nil
}

func (s *referenceService) ListLocations(activeOnly bool) ([]model.Location, error) {
	return s.locationRepo.FindAll(activeOnly)
}
