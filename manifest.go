package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"bitbucket.org/fieldfocus/punchlist_backend/backend"
	"bitbucket.org/fieldfocus/punchlist_backend/config"
	"bitbucket.org/fieldfocus/punchlist_backend/models"
	"bitbucket.org/fieldfocus/punchlist_backend/utils"
)

// manifestRow is one expected-equipment line as imported. The uniqueness
// key in the store is (manufacturer, model, room); re-importing the same
// key merges instead of duplicating.
type manifestRow struct {
	WorkOrderId   *string `json:"work_order_id,omitempty"`
	Manufacturer  string  `json:"manufacturer" validate:"required"`
	Model         string  `json:"model" validate:"required"`
	Room          string  `json:"room" validate:"required"`
	ExpectedQty   int     `json:"expected_qty" validate:"gte=0"`
	TotalReceived int     `json:"total_received" validate:"gte=0"`
	TotalDamaged  int     `json:"total_damaged" validate:"gte=0"`
}

var manifestConflictCols = []string{"manufacturer", "model", "room"}

var manifestValidate = validator.New()

func importManifestHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []manifestRow
		if err := c.ShouldBindJSON(&rows); err != nil {
			abortWithError(c, &utils.ValidationError{Msg: "request body must be a JSON array of manifest rows"})
			return
		}
		if len(rows) == 0 {
			abortWithError(c, &utils.ValidationError{Msg: "manifest rows are required"})
			return
		}
		for i := range rows {
			if err := manifestValidate.Struct(rows[i]); err != nil {
				abortWithError(c, &utils.ValidationError{Msg: "invalid manifest row: " + err.Error()})
				return
			}
		}

		upserted, err := backend.UpsertReturning[manifestRow](c.Request.Context(), a.be,
			models.TableManifestLines, rows, manifestConflictCols)
		if err != nil {
			config.LogError(a.logger, "manifest.go", "importManifestHandler", "upsert manifest rows", len(rows), err)
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, upserted)
	}
}
