package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func getCartHandler(logger *log.Logger, carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := carts.GetCarts(c.Request.Context(), identityFrom(c))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"carts": out})
	}
}

type addCartItemRequest struct {
	MenuItemID string `json:"menuItemId" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

func addCartItemHandler(logger *log.Logger, carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		cart, err := carts.AddItem(c.Request.Context(), identityFrom(c), req.MenuItemID, req.Quantity)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func updateCartItemHandler(logger *log.Logger, carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		cart, err := carts.UpdateItem(c.Request.Context(), identityFrom(c), c.Param("menuItemId"), req.Quantity)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

func removeCartItemHandler(logger *log.Logger, carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.RemoveItem(c.Request.Context(), identityFrom(c), c.Param("menuItemId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

func clearCartHandler(logger *log.Logger, carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.ClearCart(c.Request.Context(), identityFrom(c))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}
