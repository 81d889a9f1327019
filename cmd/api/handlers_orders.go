package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tashivar/backoffice/internal/application"
	"github.com/tashivar/backoffice/internal/domain"
	"github.com/tashivar/backoffice/pkg/api"
	apperrors "github.com/tashivar/backoffice/pkg/errors"
	"github.com/tashivar/backoffice/pkg/logging"
	"github.com/tashivar/backoffice/pkg/middleware"
)

func respondServiceError(responder *middleware.ErrorResponder, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		responder.RespondWithAppError(appErr)
		return
	}
	responder.RespondInternalError(err)
}

func createOrderHandler(service *application.OrderService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.CreateOrderCommand
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		result, err := service.CreateOrder(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}

func getOrderHandler(service *application.OrderService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		result, err := service.GetOrder(c.Request.Context(), c.Param("orderId"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func listOrdersHandler(service *application.OrderService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		respondOrderPage(c, responder, service, domain.OrderFilter{
			Status:   domain.Status(c.Query("status")),
			BuyerID:  c.Query("buyerId"),
			VendorID: c.Query("vendorId"),
		})
	}
}

func respondOrderPage(c *gin.Context, responder *middleware.ErrorResponder, service *application.OrderService, filter domain.OrderFilter) {
	page := api.ParsePagination(c)

	orders, total, err := service.ListOrders(c.Request.Context(), filter, domain.Pagination{
		Skip:  page.Skip(),
		Limit: page.Limit(),
	})
	if err != nil {
		respondServiceError(responder, err)
		return
	}

	c.JSON(http.StatusOK, api.NewPageResponse(orders, page.Page, page.PageSize, total))
}

func listOrdersByStatusHandler(service *application.OrderService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		status, ok := domain.NormalizeStatus(c.Param("status"))
		if !ok {
			responder.RespondBadRequest("invalid order status")
			return
		}

		respondOrderPage(c, responder, service, domain.OrderFilter{Status: status})
	}
}

func listOrdersByBuyerHandler(service *application.OrderService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)
		respondOrderPage(c, responder, service, domain.OrderFilter{BuyerID: c.Param("buyerId")})
	}
}

func listOrdersByVendorHandler(service *application.OrderService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)
		respondOrderPage(c, responder, service, domain.OrderFilter{VendorID: c.Param("vendorId")})
	}
}

func updateOrderHandler(service *application.OrderService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.UpdateOrderCommand
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}
		cmd.OrderID = c.Param("orderId")

		result, err := service.UpdateOrder(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func deleteOrderHandler(service *application.OrderService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		if err := service.DeleteOrder(c.Request.Context(), c.Param("orderId")); err != nil {
			respondServiceError(responder, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// transitionHandler serves the transitions that take no request body
func transitionHandler(
	fn func(ctx context.Context, orderID string) (*application.OrderDTO, error),
	logger *logging.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		result, err := fn(c.Request.Context(), c.Param("orderId"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func forwardToVendorHandler(service *application.OrderService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.ForwardToVendorCommand
		if c.Request.ContentLength > 0 {
			if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
				responder.RespondWithAppError(appErr)
				return
			}
		}
		cmd.OrderID = c.Param("orderId")

		result, err := service.ForwardToVendor(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func dispatchHandler(
	fn func(ctx context.Context, cmd application.DispatchCommand) (*application.OrderDTO, error),
	logger *logging.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.DispatchCommand
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}
		cmd.OrderID = c.Param("orderId")

		result, err := fn(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func receiveAtWarehouseHandler(service *application.OrderService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.ReceiveAtWarehouseCommand
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}
		cmd.OrderID = c.Param("orderId")

		result, err := service.ReceiveAtWarehouse(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func markDeliveredHandler(service *application.OrderService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.MarkDeliveredCommand
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}
		cmd.OrderID = c.Param("orderId")

		result, err := service.MarkDelivered(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func cancelOrderHandler(service *application.OrderService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.CancelOrderCommand
		if c.Request.ContentLength > 0 {
			if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
				responder.RespondWithAppError(appErr)
				return
			}
		}
		cmd.OrderID = c.Param("orderId")

		result, err := service.CancelOrder(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func partyActionHandler(
	fn func(ctx context.Context, cmd application.PartyActionCommand) (*application.OrderDTO, error),
	logger *logging.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.PartyActionCommand
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}
		cmd.OrderID = c.Param("orderId")

		result, err := fn(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func markSharePaidHandler(service *application.OrderService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		result, err := service.MarkCommissionSharePaid(
			c.Request.Context(), c.Param("orderId"), c.Param("recipient"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
