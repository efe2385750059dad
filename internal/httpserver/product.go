package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Search(ctx context.Context, keyword string) ([]domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

func listProducts(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context())
		if err != nil {
			respond(c, http.StatusInternalServerError, false, nil, "Error in getting products")
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		respond(c, http.StatusOK, true, gin.H{"products": products, "count": len(products)}, "")
	}
}

func searchProducts(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.Search(c.Request.Context(), c.Param("keyword"))
		if err != nil {
			respond(c, http.StatusInternalServerError, false, nil, "Error in search product")
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		respond(c, http.StatusOK, true, gin.H{"products": products}, "")
	}
}

func getProduct(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				respond(c, http.StatusNotFound, false, nil, "Product not found")
				return
			}
			respond(c, http.StatusInternalServerError, false, nil, "Error while getting product")
			return
		}
		respond(c, http.StatusOK, true, gin.H{"product": product}, "")
	}
}
