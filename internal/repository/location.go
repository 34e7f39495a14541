package repository

import (
	"context"

	"pkl-club-api/internal/model"

	"gorm.io/gorm"
)

type CityFilters struct {
	CountryCode string
	RegionCode  string
	Code        string
}

type LocationRepository interface {
	FindAllCountries(ctx context.Context) ([]*model.Country, error)
	FindCountryByCode(ctx context.Context, code string) (*model.Country, error)
	CreateCountry(ctx context.Context, country *model.Country) error

	FindRegionsByCountry(ctx context.Context, countryCode string) ([]*model.Region, error)
	FindRegionByCode(ctx context.Context, code, countryCode string) (*model.Region, error)
	CreateRegion(ctx context.Context, region *model.Region) error

	FindCitiesByRegion(ctx context.Context, regionCode, countryCode string) ([]*model.City, error)
	FindCityByCode(ctx context.Context, code, regionCode string) (*model.City, error)
	FindCityByID(ctx context.Context, id string) (*model.City, error)
	FindActiveCities(ctx context.Context, filters CityFilters) ([]*model.City, error)
	CreateCity(ctx context.Context, city *model.City) error
	UpdateCityStatus(ctx context.Context, id string, status model.CityStatus) error
	CountCities(ctx context.Context) (int64, error)
	CountCitiesByStatus(ctx context.Context, status model.CityStatus) (int64, error)
}

type locationRepoImpl struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepoImpl{db: db}
}

func (r *locationRepoImpl) FindAllCountries(ctx context.Context) ([]*model.Country, error) {
	var countries []*model.Country
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&countries).Error

	return countries, err
}

func (r *locationRepoImpl) FindCountryByCode(ctx context.Context, code string) (*model.Country, error) {
	var country model.Country
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&country).Error

	if err != nil {
		return nil, err
	}

	return &country, nil
}

func (r *locationRepoImpl) CreateCountry(ctx context.Context, country *model.Country) error {
	return r.db.WithContext(ctx).Create(country).Error
}

func (r *locationRepoImpl) FindRegionsByCountry(ctx context.Context, countryCode string) ([]*model.Region, error) {
	var regions []*model.Region
	err := r.db.WithContext(ctx).
		Where("country_code = ? AND is_active = ?", countryCode, true).
		Order("name ASC").
		Find(&regions).Error

	return regions, err
}

func (r *locationRepoImpl) FindRegionByCode(ctx context.Context, code, countryCode string) (*model.Region, error) {
	var region model.Region
	err := r.db.WithContext(ctx).
		Where("code = ? AND country_code = ?", code, countryCode).
		First(&region).Error

	if err != nil {
		return nil, err
	}

	return &region, nil
}

func (r *locationRepoImpl) CreateRegion(ctx context.Context, region *model.Region) error {
	return r.db.WithContext(ctx).Create(region).Error
}

func (r *locationRepoImpl) FindCitiesByRegion(ctx context.Context, regionCode, countryCode string) ([]*model.City, error) {
	query := r.db.WithContext(ctx).
		Where("region_code = ? AND is_active = ?", regionCode, true)

	if countryCode != "" {
		query = query.Where("country_code = ?", countryCode)
	}

	var cities []*model.City
	err := query.Order("name ASC").Find(&cities).Error

	return cities, err
}

func (r *locationRepoImpl) FindCityByCode(ctx context.Context, code, regionCode string) (*model.City, error) {
	var city model.City
	err := r.db.WithContext(ctx).
		Where("code = ? AND region_code = ?", code, regionCode).
		First(&city).Error

	if err != nil {
		return nil, err
	}

	return &city, nil
}

func (r *locationRepoImpl) FindCityByID(ctx context.Context, id string) (*model.City, error) {
	var city model.City
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&city).Error

	if err != nil {
		return nil, err
	}

	return &city, nil
}

func (r *locationRepoImpl) FindActiveCities(ctx context.Context, filters CityFilters) ([]*model.City, error) {
	query := r.db.WithContext(ctx).Where("is_active = ?", true)

	if filters.CountryCode != "" {
		query = query.Where("country_code = ?", filters.CountryCode)
	}
	if filters.RegionCode != "" {
		query = query.Where("region_code = ?", filters.RegionCode)
	}
	if filters.Code != "" {
		query = query.Where("code = ?", filters.Code)
	}

	var cities []*model.City
	err := query.Order("name ASC").Find(&cities).Error

	return cities, err
}

func (r *locationRepoImpl) CreateCity(ctx context.Context, city *model.City) error {
	return r.db.WithContext(ctx).Create(city).Error
}

func (r *locationRepoImpl) UpdateCityStatus(ctx context.Context, id string, status model.CityStatus) error {
	result := r.db.WithContext(ctx).Model(&model.City{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *locationRepoImpl) CountCities(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.City{}).
		Where("is_active = ?", true).
		Count(&count).Error

	return count, err
}

func (r *locationRepoImpl) CountCitiesByStatus(ctx context.Context, status model.CityStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.City{}).
		Where("status = ? AND is_active = ?", status, true).
		Count(&count).Error

	return count, err
}
