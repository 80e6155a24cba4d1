package httpserver

import (
	"log"
	"net/http"

	menuitemrepo "foodorder/internal/repository/menuitem"
	restaurantrepo "foodorder/internal/repository/restaurant"
	catalogsvc "foodorder/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type restaurantRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location" binding:"required"`
}

func createRestaurantHandler(logger *log.Logger, catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req restaurantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		r, err := catalog.CreateRestaurant(c.Request.Context(), identityFrom(c), catalogsvc.RestaurantInput{
			Name:        req.Name,
			Description: req.Description,
			Location:    req.Location,
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"restaurant": r})
	}
}

func getRestaurantHandler(logger *log.Logger, catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := catalog.GetRestaurant(c.Request.Context(), c.Param("restaurantId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"restaurant": r})
	}
}

func listRestaurantsHandler(logger *log.Logger, catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := catalog.ListRestaurants(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"restaurants": out})
	}
}

type restaurantUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
}

func updateRestaurantHandler(logger *log.Logger, catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req restaurantUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		r, err := catalog.UpdateRestaurant(c.Request.Context(), identityFrom(c), c.Param("restaurantId"), restaurantrepo.UpdateInput{
			Name:        req.Name,
			Description: req.Description,
			Location:    req.Location,
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"restaurant": r})
	}
}

func deleteRestaurantHandler(logger *log.Logger, catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.DeleteRestaurant(c.Request.Context(), identityFrom(c), c.Param("restaurantId")); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type menuItemRequest struct {
	RestaurantID string `json:"restaurantId" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	PriceCents   int64  `json:"priceCents" binding:"min=0"`
}

func createMenuItemHandler(logger *log.Logger, catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req menuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		item, err := catalog.CreateMenuItem(c.Request.Context(), identityFrom(c), catalogsvc.MenuItemInput{
			RestaurantID: req.RestaurantID,
			Name:         req.Name,
			Description:  req.Description,
			PriceCents:   req.PriceCents,
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"menuItem": item})
	}
}

func getMenuItemHandler(logger *log.Logger, catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := catalog.GetMenuItem(c.Request.Context(), c.Param("menuItemId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"menuItem": item})
	}
}

// listMenuItemsHandler serves both /menu-items and
// /restaurants/:restaurantId/menu-items.
func listMenuItemsHandler(logger *log.Logger, catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantId")
		if restaurantID == "" {
			restaurantID = c.Query("restaurantId")
		}
		out, err := catalog.ListMenuItems(c.Request.Context(), restaurantID)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"menuItems": out})
	}
}

type menuItemUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"priceCents"`
}

func updateMenuItemHandler(logger *log.Logger, catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req menuItemUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		item, err := catalog.UpdateMenuItem(c.Request.Context(), identityFrom(c), c.Param("menuItemId"), menuitemrepo.UpdateInput{
			Name:        req.Name,
			Description: req.Description,
			PriceCents:  req.PriceCents,
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"menuItem": item})
	}
}

func deleteMenuItemHandler(logger *log.Logger, catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.DeleteMenuItem(c.Request.Context(), identityFrom(c), c.Param("menuItemId")); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
