package httpserver

import (
	"log"
	"net/http"

	"foodorder/internal/domain"
	"github.com/gin-gonic/gin"
)

func getPaymentHandler(logger *log.Logger, payments paymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := payments.Get(c.Request.Context(), identityFrom(c), c.Param("paymentId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment": p})
	}
}

func listOrderPaymentsHandler(logger *log.Logger, payments paymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := payments.ListByOrder(c.Request.Context(), identityFrom(c), c.Param("orderId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payments": out})
	}
}

type paymentStatusRequest struct {
	Status string `json:"status" binding:"required,paymentstatus"`
}

func updatePaymentStatusHandler(logger *log.Logger, payments paymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		p, err := payments.UpdateStatus(c.Request.Context(), identityFrom(c), c.Param("paymentId"), domain.PaymentStatus(req.Status))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment": p})
	}
}

type paymentMethodRequest struct {
	Method string `json:"method" binding:"required,paymentmethod"`
}

func updatePaymentMethodHandler(logger *log.Logger, payments paymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentMethodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		p, err := payments.UpdateMethod(c.Request.Context(), identityFrom(c), c.Param("paymentId"), domain.PaymentMethod(req.Method))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment": p})
	}
}

func deletePaymentHandler(logger *log.Logger, payments paymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := payments.Delete(c.Request.Context(), identityFrom(c), c.Param("paymentId")); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
