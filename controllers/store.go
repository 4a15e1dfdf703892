package controllers

import (
	"context"

	"github.com/0xDracarys/ABAYA-ecom-v1/catalog"
	"github.com/0xDracarys/ABAYA-ecom-v1/database"
	"github.com/0xDracarys/ABAYA-ecom-v1/models"
)

// CatalogStore executes a composed listing query and returns the page of rows
// together with the exact total count from the same snapshot.
type CatalogStore interface {
	ListProducts(ctx context.Context, q catalog.Query) ([]models.Product, int, error)
}

var catalogStore CatalogStore = sqlCatalogStore{}

// SetCatalogStore replaces the backing store. Tests only.
func SetCatalogStore(s CatalogStore) {
	catalogStore = s
}

type sqlCatalogStore struct{}

func (sqlCatalogStore) ListProducts(ctx context.Context, q catalog.Query) ([]models.Product, int, error) {
	rows, err := database.DB.QueryContext(ctx, q.SQL(), q.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		products []models.Product
		total    int
	)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.SalePrice, &p.ImageURL,
			&p.CategoryID, &p.Stock, &p.Featured, &p.Rating, &p.ReviewCount, &p.Slug,
			&p.CreatedAt, &p.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
