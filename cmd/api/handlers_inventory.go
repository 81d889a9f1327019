package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tashivar/backoffice/internal/application"
	"github.com/tashivar/backoffice/internal/domain"
	"github.com/tashivar/backoffice/pkg/api"
	"github.com/tashivar/backoffice/pkg/logging"
	"github.com/tashivar/backoffice/pkg/middleware"
)

func recordTransactionHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.RecordTransactionCommand
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		result, err := service.RecordTransaction(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}

func getTransactionHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		result, err := service.GetTransaction(c.Request.Context(), c.Param("txnId"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func listTransactionsHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)
		page := api.ParsePagination(c)

		filter := domain.TxnFilter{
			ProductID: c.Query("productId"),
			OrderID:   c.Query("orderId"),
			Type:      domain.TransactionType(c.Query("type")),
		}
		if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
			filter.Since = &from
		}
		if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
			filter.Until = &to
		}

		txns, total, err := service.ListTransactions(c.Request.Context(), filter, domain.Pagination{
			Skip:  page.Skip(),
			Limit: page.Limit(),
		})
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, api.NewPageResponse(txns, page.Page, page.PageSize, total))
	}
}

func stockSummaryHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		productID := c.Param("productId")
		if productID == "" {
			productID = c.Query("productId")
		}

		result, err := service.Summarize(c.Request.Context(), productID)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"summaries": result})
	}
}

func purgeLedgerHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		deleted, err := service.PurgeLedger(c.Request.Context())
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
	}
}

func listInventoryHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)
		page := api.ParsePagination(c)

		filter := domain.InventoryFilter{
			Status: domain.StockStatus(c.Query("status")),
			Type:   domain.ProductType(c.Query("type")),
		}

		items, total, err := service.ListInventory(c.Request.Context(), filter, domain.Pagination{
			Skip:  page.Skip(),
			Limit: page.Limit(),
		})
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, api.NewPageResponse(items, page.Page, page.PageSize, total))
	}
}

func getInventoryItemHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		result, err := service.GetInventoryItem(c.Request.Context(), c.Param("productId"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func syncProductHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.SyncProductCommand
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		result, err := service.SyncProduct(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func syncCatalogHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.SyncCatalogCommand
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		count, err := service.SyncCatalog(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"synced": count})
	}
}

func checkAvailabilityHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.CheckAvailabilityCommand
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		result, err := service.CheckAvailability(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func availabilityHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
		if err != nil || quantity <= 0 {
			responder.RespondBadRequest("quantity must be a positive integer")
			return
		}

		result, err := service.CheckAvailability(c.Request.Context(), application.CheckAvailabilityCommand{
			ProductID: c.Param("productId"),
			Quantity:  quantity,
		})
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func rebuildProjectionHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		result, err := service.RebuildProjection(c.Request.Context(), c.Param("productId"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func deleteInventoryItemHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		if err := service.DeleteInventoryItem(c.Request.Context(), c.Param("productId")); err != nil {
			respondServiceError(responder, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func purgeInventoryHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		deleted, err := service.PurgeInventory(c.Request.Context())
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
	}
}
