package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tashivar/backoffice/internal/application"
	"github.com/tashivar/backoffice/internal/domain"
	"github.com/tashivar/backoffice/pkg/api"
	"github.com/tashivar/backoffice/pkg/logging"
	"github.com/tashivar/backoffice/pkg/middleware"
)

func createChallanHandler(service *application.ChallanService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.CreateChallanCommand
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		result, err := service.CreateChallan(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}

func createChallanFromOrderHandler(service *application.ChallanService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		result, err := service.CreateChallanFromOrder(c.Request.Context(), c.Param("orderId"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}

func createChallanFromOfflineRequestHandler(service *application.ChallanService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.CreateChallanFromOfflineRequestCommand
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		result, err := service.CreateChallanFromOfflineRequest(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}

func getChallanHandler(service *application.ChallanService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		result, err := service.GetChallan(c.Request.Context(), c.Param("challanNumber"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func listChallansHandler(service *application.ChallanService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)
		page := api.ParsePagination(c)

		filter := domain.ChallanFilter{
			Status:     domain.ChallanStatus(c.Query("status")),
			CustomerID: c.Query("customerId"),
			OrderID:    c.Query("orderId"),
		}

		challans, total, err := service.ListChallans(c.Request.Context(), filter, domain.Pagination{
			Skip:  page.Skip(),
			Limit: page.Limit(),
		})
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, api.NewPageResponse(challans, page.Page, page.PageSize, total))
	}
}

func recordPaymentHandler(service *application.ChallanService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.RecordChallanPaymentCommand
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}
		cmd.ChallanNumber = c.Param("challanNumber")

		result, err := service.RecordPayment(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func convertChallanHandler(service *application.ChallanService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.ConvertChallanCommand
		if c.Request.ContentLength > 0 {
			if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
				responder.RespondWithAppError(appErr)
				return
			}
		}
		cmd.ChallanNumber = c.Param("challanNumber")

		result, err := service.ConvertToInvoice(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func cancelChallanHandler(service *application.ChallanService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		result, err := service.CancelChallan(c.Request.Context(), c.Param("challanNumber"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
