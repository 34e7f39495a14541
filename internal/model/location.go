package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CityStatus string

const (
	// CityActivated means the city has at least one active tournament.
	CityActivated CityStatus = "activated"
	CityOpen      CityStatus = "open"
)

type Country struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Code     string `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Name     string `gorm:"size:64;not null" json:"name"`
	FlagCode string `gorm:"size:8;not null" json:"flagCode"`
	IsActive bool   `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Country) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Region struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Code        string `gorm:"size:32;not null;uniqueIndex:idx_region_code_country" json:"code"`
	Name        string `gorm:"size:64;not null" json:"name"`
	CountryID   string `gorm:"size:36;not null" json:"countryId"`
	CountryCode string `gorm:"size:32;not null;uniqueIndex:idx_region_code_country" json:"countryCode"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Region) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type City struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Code        string     `gorm:"size:32;not null;uniqueIndex:idx_city_code_region" json:"code"`
	Name        string     `gorm:"size:64;not null" json:"name"`
	RegionID    string     `gorm:"size:36;not null" json:"regionId"`
	RegionCode  string     `gorm:"size:32;not null;uniqueIndex:idx_city_code_region" json:"regionCode"`
	CountryID   string     `gorm:"size:36;not null" json:"countryId"`
	CountryCode string     `gorm:"size:32;not null;index" json:"countryCode"`
	Status      CityStatus `gorm:"size:16;default:'open'" json:"status"`
	IsActive    bool       `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *City) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
