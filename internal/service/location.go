package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/model"
	"pkl-club-api/internal/repository"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type LocationService interface {
	ListCountries(ctx context.Context) ([]*model.Country, error)
	CreateCountry(ctx context.Context, req *dto.CreateCountryRequest) (*model.Country, error)
	ListRegions(ctx context.Context, countryCode string) ([]*model.Region, error)
	CreateRegion(ctx context.Context, req *dto.CreateRegionRequest) (*model.Region, error)
	ListCities(ctx context.Context, filters repository.CityFilters) (*dto.CitySearchResponse, error)
	CreateCity(ctx context.Context, req *dto.CreateCityRequest) (*model.City, error)
	UpdateCityStatus(ctx context.Context, id string, status model.CityStatus) (*model.City, error)
}

type locationServiceImpl struct {
	locationRepo repository.LocationRepository
}

func NewLocationService(locationRepo repository.LocationRepository) LocationService {
	return &locationServiceImpl{
		locationRepo: locationRepo,
	}
}

func (s *locationServiceImpl) ListCountries(ctx context.Context) ([]*model.Country, error) {
	return s.locationRepo.FindAllCountries(ctx)
}

func (s *locationServiceImpl) CreateCountry(ctx context.Context, req *dto.CreateCountryRequest) (*model.Country, error) {
	code := strings.ToUpper(req.Code)
	if _, err := s.locationRepo.FindCountryByCode(ctx, code); err == nil {
		return nil, echo.NewHTTPError(http.StatusConflict, "Country already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	country := &model.Country{
		Code:     code,
		Name:     req.Name,
		FlagCode: strings.ToLower(req.FlagCode),
		IsActive: true,
	}
	if err := s.locationRepo.CreateCountry(ctx, country); err != nil {
		return nil, err
	}

	return country, nil
}

func (s *locationServiceImpl) ListRegions(ctx context.Context, countryCode string) ([]*model.Region, error) {
	return s.locationRepo.FindRegionsByCountry(ctx, strings.ToUpper(countryCode))
}

func (s *locationServiceImpl) CreateRegion(ctx context.Context, req *dto.CreateRegionRequest) (*model.Region, error) {
	countryCode := strings.ToUpper(req.CountryCode)
	country, err := s.locationRepo.FindCountryByCode(ctx, countryCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Country not found")
		}
		return nil, err
	}

	code := strings.ToUpper(req.Code)
	if _, err := s.locationRepo.FindRegionByCode(ctx, code, countryCode); err == nil {
		return nil, echo.NewHTTPError(http.StatusConflict, "Region already exists in country")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	region := &model.Region{
		Code:        code,
		Name:        req.Name,
		CountryID:   country.ID,
		CountryCode: countryCode,
		IsActive:    true,
	}
	if err := s.locationRepo.CreateRegion(ctx, region); err != nil {
		return nil, err
	}

	return region, nil
}

// ListCities splits the result into activated (has a tournament) and
// open (available for one) buckets for the city picker.
func (s *locationServiceImpl) ListCities(ctx context.Context, filters repository.CityFilters) (*dto.CitySearchResponse, error) {
	cities, err := s.locationRepo.FindActiveCities(ctx, filters)
	if err != nil {
		return nil, err
	}

	resp := &dto.CitySearchResponse{
		Activated: []*model.City{},
		Open:      []*model.City{},
	}
	for _, city := range cities {
		if city.Status == model.CityActivated {
			resp.Activated = append(resp.Activated, city)
		} else {
			resp.Open = append(resp.Open, city)
		}
	}

	return resp, nil
}

func (s *locationServiceImpl) CreateCity(ctx context.Context, req *dto.CreateCityRequest) (*model.City, error) {
	countryCode := strings.ToUpper(req.CountryCode)
	regionCode := strings.ToUpper(req.RegionCode)

	region, err := s.locationRepo.FindRegionByCode(ctx, regionCode, countryCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Region not found")
		}
		return nil, err
	}

	code := strings.ToUpper(req.Code)
	if _, err := s.locationRepo.FindCityByCode(ctx, code, regionCode); err == nil {
		return nil, echo.NewHTTPError(http.StatusConflict, "City already exists in region")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	city := &model.City{
		Code:        code,
		Name:        req.Name,
		RegionID:    region.ID,
		RegionCode:  regionCode,
		CountryID:   region.CountryID,
		CountryCode: countryCode,
		Status:      model.CityOpen,
		IsActive:    true,
	}
	if err := s.locationRepo.CreateCity(ctx, city); err != nil {
		return nil, err
	}

	return city, nil
}

func (s *locationServiceImpl) UpdateCityStatus(ctx context.Context, id string, status model.CityStatus) (*model.City, error) {
	if err := s.locationRepo.UpdateCityStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "City not found")
		}
		return nil, err
	}

	return s.locationRepo.FindCityByID(ctx, id)
}
