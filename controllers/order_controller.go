package controllers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/0xDracarys/ABAYA-ecom-v1/database"
	"github.com/0xDracarys/ABAYA-ecom-v1/middlewares"
	"github.com/0xDracarys/ABAYA-ecom-v1/models"
	"github.com/0xDracarys/ABAYA-ecom-v1/utils"
	"github.com/gin-gonic/gin"
)

// ListMyOrders returns the authenticated customer's orders, newest first.
func ListMyOrders(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("order", "list_own", ok)
	}()

	userID := c.GetString("userID")
	pagination := utils.ParsePagination(c, 10)
	offset := (pagination.Page - 1) * pagination.PageSize

	rows, err := database.DB.QueryContext(c.Request.Context(), `
		SELECT id, user_id, user_email, status, total, shipping_address, created_at,
		       count(*) OVER () AS total_count
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, pagination.PageSize, offset)
	if err != nil {
		log.Printf("Error fetching orders for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	orders, total, err := scanOrders(rows)
	if err != nil {
		log.Printf("Error scanning orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, models.OrderListResponse{
		Orders:     orders,
		TotalCount: total,
		Page:       pagination.Page,
		Limit:      pagination.PageSize,
	})
}

// GetOrder returns one order with its line items. Customers see only their
// own orders; admins see all.
func GetOrder(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("order", "get", ok)
	}()

	orderID := c.Param("id")
	userID := c.GetString("userID")
	isAdmin := c.GetString("role") == middlewares.RoleAdmin

	var order models.Order
	err := database.DB.QueryRowContext(c.Request.Context(), `
		SELECT id, user_id, user_email, status, total, shipping_address, created_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(&order.ID, &order.UserID, &order.UserEmail, &order.Status,
		&order.Total, &order.ShippingAddress, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		log.Printf("Error fetching order %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	if !isAdmin && order.UserID != userID {
		// Not found rather than forbidden: order IDs are not probeable.
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	itemRows, err := database.DB.QueryContext(c.Request.Context(), `
		SELECT id, product_id, name, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY name
	`, orderID)
	if err != nil {
		log.Printf("Error fetching items for order %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	defer itemRows.Close()

	order.Items = []models.OrderItem{}
	for itemRows.Next() {
		var item models.OrderItem
		if err := itemRows.Scan(&item.ID, &item.ProductID, &item.Name, &item.Quantity, &item.Price); err != nil {
			log.Printf("Error scanning order item: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		order.Items = append(order.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		log.Printf("Error fetching items for order %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders is the admin order overview with an optional status filter.
func ListOrders(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("order", "list", ok)
	}()

	status := c.Query("status")
	if status != "" && !models.ValidOrderStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Validation failed",
			"details": []gin.H{
				{"field": "status", "message": "unknown status"},
			},
		})
		return
	}

	pagination := utils.ParsePagination(c, 20)
	offset := (pagination.Page - 1) * pagination.PageSize

	query := `
		SELECT id, user_id, user_email, status, total, shipping_address, created_at,
		       count(*) OVER () AS total_count
		FROM orders`
	var args []any
	if status != "" {
		query += " WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3"
		args = []any{status, pagination.PageSize, offset}
	} else {
		query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"
		args = []any{pagination.PageSize, offset}
	}

	rows, err := database.DB.QueryContext(c.Request.Context(), query, args...)
	if err != nil {
		log.Printf("Error fetching orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	orders, total, err := scanOrders(rows)
	if err != nil {
		log.Printf("Error scanning orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, models.OrderListResponse{
		Orders:     orders,
		TotalCount: total,
		Page:       pagination.Page,
		Limit:      pagination.PageSize,
	})
}

// UpdateOrderStatus moves an order along its lifecycle.
func UpdateOrderStatus(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("order", "update_status", ok)
	}()

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}
	if !models.ValidOrderStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Validation failed",
			"details": []gin.H{
				{"field": "status", "message": "unknown status"},
			},
		})
		return
	}

	result, err := database.DB.ExecContext(c.Request.Context(),
		"UPDATE orders SET status = $1 WHERE id = $2",
		input.Status, c.Param("id"))
	if err != nil {
		log.Printf("Error updating order status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}

func scanOrders(rows *sql.Rows) ([]models.Order, int, error) {
	orders := []models.Order{}
	total := 0
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.UserEmail, &o.Status, &o.Total,
			&o.ShippingAddress, &o.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}
