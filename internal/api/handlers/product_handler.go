package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vishu8474/prokhoz-backend/internal/services"
)

// ProductHandler handles catalog requests.
type ProductHandler struct {
	productService services.IProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService services.IProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GetProducts handles GET /api/products. Public.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(products),
		"products": products,
	})
}

// CreateProduct handles POST /api/products. Manufacturer only; ownership is
// forced to the caller regardless of the request body.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), principal, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "product": product})
}

// GetMyProducts handles GET /api/products/my-products.
func (h *ProductHandler) GetMyProducts(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	products, err := h.productService.ListByManufacturer(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(products),
		"products": products,
	})
}
