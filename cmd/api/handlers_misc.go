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

func upsertRuleHandler(service *application.CommissionService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.UpsertCommissionRuleCommand
		if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		result, err := service.UpsertRule(c.Request.Context(), cmd)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func listRulesHandler(service *application.CommissionService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		rules, err := service.ListRules(c.Request.Context())
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"rules": rules})
	}
}

// PreviewCommissionRequest carries line items to price without an order
type PreviewCommissionRequest struct {
	Items []application.LineItemInput `json:"items" binding:"required,min=1,dive"`
}

func previewCommissionHandler(service *application.CommissionService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req PreviewCommissionRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		items := application.CreateOrderCommand{Items: req.Items}.ToDomainItems()
		total, shares, err := service.Preview(c.Request.Context(), items)
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"totalCommission": total,
			"shares":          shares,
		})
	}
}

func listNotificationsHandler(service *application.NotificationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)
		page := api.ParsePagination(c)

		filter := domain.NotificationFilter{
			Type:       domain.NotificationType(c.Query("type")),
			UnreadOnly: c.Query("unread") == "true",
		}

		notifications, total, err := service.ListNotifications(c.Request.Context(), filter, domain.Pagination{
			Skip:  page.Skip(),
			Limit: page.Limit(),
		})
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, api.NewPageResponse(notifications, page.Page, page.PageSize, total))
	}
}

func markReadHandler(service *application.NotificationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		if err := service.MarkRead(c.Request.Context(), c.Param("notifId")); err != nil {
			respondServiceError(responder, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func markAllReadHandler(service *application.NotificationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		updated, err := service.MarkAllRead(c.Request.Context())
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"updated": updated})
	}
}

// getBlobHandler serves both blob reads (?key=) and key listing
// (?prefix=, or no parameters for every key)
func getBlobHandler(service *application.KVService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		if key := c.Query("key"); key != "" {
			value, err := service.Get(c.Request.Context(), key)
			if err != nil {
				respondServiceError(responder, err)
				return
			}

			// Values are stored verbatim, so the stored bytes are the response body.
			c.Data(http.StatusOK, "application/json; charset=utf-8", value)
			return
		}

		keys, err := service.Keys(c.Request.Context(), c.Query("prefix"))
		if err != nil {
			respondServiceError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"keys": keys})
	}
}

func setBlobHandler(service *application.KVService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		value, err := c.GetRawData()
		if err != nil {
			responder.RespondBadRequest("failed to read request body")
			return
		}

		if err := service.Set(c.Request.Context(), c.Query("key"), value); err != nil {
			respondServiceError(responder, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func deleteBlobHandler(service *application.KVService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		if err := service.Delete(c.Request.Context(), c.Query("key")); err != nil {
			respondServiceError(responder, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
