package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"bitbucket.org/fieldfocus/punchlist_backend/backend"
	"bitbucket.org/fieldfocus/punchlist_backend/config"
	"bitbucket.org/fieldfocus/punchlist_backend/models"
	"bitbucket.org/fieldfocus/punchlist_backend/utils"
)

type generatePunchlistRequest struct {
	WorkOrderId *string `json:"work_order_id"`
}

type generatePunchlistResponse struct {
	PunchlistId int64                  `json:"punchlist_id"`
	WorkOrderId *string                `json:"work_order_id"`
	ItemsCount  int                    `json:"items_count"`
	Items       []models.PunchlistItem `json:"items"`
}

// generatePunchlistHandler reads the diff view, computes discrepancy items
// and persists the punchlist. A run with zero discrepancies still creates
// the (empty) punchlist record.
func generatePunchlistHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The body is optional; a chunked request reports no ContentLength,
		// so bind unconditionally and treat an empty body as the zero request.
		var req generatePunchlistRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			abortWithError(c, &utils.ValidationError{Msg: "invalid request body"})
			return
		}

		ctx := c.Request.Context()
		params := backend.SelectParams{Table: models.ViewManifestDiff}
		if req.WorkOrderId != nil && *req.WorkOrderId != "" {
			params.Filters = []backend.Filter{{Column: "work_order_id", Op: "eq", Value: *req.WorkOrderId}}
		}
		diffRows, err := backend.SelectInto[models.ManifestLine](ctx, a.be, params)
		if err != nil {
			config.LogError(a.logger, "punchlists.go", "generatePunchlistHandler", "read diff view", req, err)
			abortWithError(c, err)
			return
		}

		items := models.ComputeItems(diffRows)
		result, err := models.CreatePunchlist(ctx, a.be, req.WorkOrderId, items)
		if err != nil {
			config.LogError(a.logger, "punchlists.go", "generatePunchlistHandler", "create punchlist", req, err)
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, generatePunchlistResponse{
			PunchlistId: result.Punchlist.ID,
			WorkOrderId: result.Punchlist.WorkOrderId,
			ItemsCount:  len(result.Items),
			Items:       result.Items,
		})
	}
}
