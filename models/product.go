package models

import (
	"time"
)

type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" binding:"required,min=2,max=100"`
	Description  string    `json:"description"`
	Slug         string    `json:"slug"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ProductCount *int      `json:"product_count,omitempty"`
}

type Tag struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" binding:"required,min=2,max=30"`
	CreatedAt    time.Time `json:"created_at"`
	ProductCount *int      `json:"product_count,omitempty"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	SalePrice   *float64  `json:"sale_price,omitempty"`
	ImageURL    string    `json:"image_url"`
	CategoryID  string    `json:"category_id"`
	Stock       int       `json:"stock"`
	Featured    bool      `json:"featured"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
	Slug        string    `json:"slug"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductInput is the admin create/update payload. Tags carries tag IDs to
// associate; the product row itself never stores tags.
type ProductInput struct {
	Name        string   `json:"name" binding:"required,min=3,max=100"`
	Description string   `json:"description" binding:"required,min=10"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	SalePrice   *float64 `json:"sale_price"`
	ImageURL    string   `json:"image_url" binding:"omitempty,url"`
	CategoryID  string   `json:"category_id" binding:"required,uuid"`
	Stock       int      `json:"stock" binding:"min=0"`
	Featured    bool     `json:"featured"`
	Slug        string   `json:"slug"`
	Tags        []string `json:"tags"`
}

type ProductDetail struct {
	Product
	Category *Category `json:"category,omitempty"`
	Tags     []Tag     `json:"tags"`
	Reviews  []Review  `json:"reviews"`
}

// ProductListResponse is the listing endpoint contract: the matching page of
// rows plus the exact total across all pages, with the applied page/limit
// echoed back.
type ProductListResponse struct {
	Products   []Product `json:"products"`
	TotalCount int       `json:"totalCount"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
}

type CategoryListResponse struct {
	Categories []Category `json:"categories"`
	TotalCount int        `json:"totalCount"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
}

type Pagination struct {
	Page     int
	PageSize int
}
