package httpserver

import (
	"log"
	"net/http"

	usersvc "foodorder/internal/service/user"
	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Location string `json:"location" binding:"required"`
}

func signupHandler(logger *log.Logger, users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		u, err := users.Signup(c.Request.Context(), usersvc.SignupInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Location: req.Location,
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": u})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(logger *log.Logger, users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		u, access, refresh, err := users.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user":         u,
			"accessToken":  access,
			"refreshToken": refresh,
			"expiresIn":    users.AccessTTLSeconds(),
		})
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func refreshHandler(logger *log.Logger, users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		u, access, refresh, err := users.Refresh(c.Request.Context(), req.RefreshToken)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user":         u,
			"accessToken":  access,
			"refreshToken": refresh,
			"expiresIn":    users.AccessTTLSeconds(),
		})
	}
}

func logoutHandler(logger *log.Logger, users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		if err := users.Logout(c.Request.Context(), id.UserID); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getUserHandler(logger *log.Logger, users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := users.Get(c.Request.Context(), identityFrom(c), c.Param("userId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u})
	}
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password"`
	Location *string `json:"location"`
}

func updateUserHandler(logger *log.Logger, users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		u, err := users.Update(c.Request.Context(), identityFrom(c), c.Param("userId"), usersvc.UpdateInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Location: req.Location,
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u})
	}
}

func deleteUserHandler(logger *log.Logger, users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := users.Delete(c.Request.Context(), identityFrom(c), c.Param("userId")); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func meHandler(c *gin.Context) {
	u := userFrom(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
