package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bitbucket.org/fieldfocus/punchlist_backend/config"
	"bitbucket.org/fieldfocus/punchlist_backend/models"
	"bitbucket.org/fieldfocus/punchlist_backend/report"
	"bitbucket.org/fieldfocus/punchlist_backend/utils"
)

type reportRequest struct {
	PunchlistId *int64           `json:"punchlist_id"`
	WorkOrderId *string          `json:"work_order_id"`
	Branding    *report.Override `json:"branding"`
}

// renderReportHandler streams the punchlist report. Errors go back as
// plain text; nothing useful can parse a JSON error where a PDF was
// expected.
func renderReportHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reportRequest
		if c.Request.Method == http.MethodPost {
			// An empty POST body is fine; the identifier may arrive in the
			// query string instead.
			if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
				reportError(c, &utils.ValidationError{Msg: "invalid request body"})
				return
			}
		}
		if req.PunchlistId == nil {
			if v := strings.TrimSpace(c.Query("punchlist_id")); v != "" {
				id, err := strconv.ParseInt(v, 10, 64)
				if err != nil {
					reportError(c, &utils.ValidationError{Msg: "punchlist_id must be an integer"})
					return
				}
				req.PunchlistId = &id
			}
		}
		if req.WorkOrderId == nil {
			if v := strings.TrimSpace(c.Query("work_order_id")); v != "" {
				req.WorkOrderId = &v
			}
		}
		if req.PunchlistId == nil && req.WorkOrderId == nil {
			reportError(c, &utils.ValidationError{Msg: "punchlist_id or work_order_id is required"})
			return
		}

		ctx := c.Request.Context()
		var pl *models.Punchlist
		var err error
		if req.PunchlistId != nil {
			pl, err = models.GetPunchlist(ctx, a.be, *req.PunchlistId)
		} else {
			pl, err = models.LatestPunchlistForWorkOrder(ctx, a.be, *req.WorkOrderId)
		}
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				c.String(http.StatusNotFound, "no punchlist found")
				return
			}
			config.LogError(a.logger, "report.go", "renderReportHandler", "load punchlist", req, err)
			reportError(c, err)
			return
		}

		items, err := models.GetPunchlistItems(ctx, a.be, pl.ID)
		if err != nil {
			config.LogError(a.logger, "report.go", "renderReportHandler", "load items", pl.ID, err)
			reportError(c, err)
			return
		}

		var wo *models.WorkOrder
		if pl.WorkOrderId != nil && *pl.WorkOrderId != "" {
			wo, err = models.GetWorkOrder(ctx, a.be, *pl.WorkOrderId)
			if err != nil {
				// Branding lookup only; the render proceeds without it.
				config.LogError(a.logger, "report.go", "renderReportHandler", "work order lookup", *pl.WorkOrderId, err)
				wo = nil
			}
		}

		branding := report.ResolveBranding(req.Branding, wo, brandingFallback(a.cfg))
		doc, err := a.renderer.Render(branding, pl, wo, items)
		if err != nil {
			config.LogError(a.logger, "report.go", "renderReportHandler", "render", pl.ID, err)
			reportError(c, err)
			return
		}

		filename := fmt.Sprintf("punchlist-%d-%s.pdf", pl.ID, uuid.NewString()[:8])
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
		c.Data(http.StatusOK, "application/pdf", doc)
	}
}

// reportError writes the taxonomy-mapped status with a plain-text body and
// records the error for the logging middleware.
func reportError(c *gin.Context, err error) {
	c.String(utils.HTTPStatus(err), err.Error())
	_ = c.Error(err)
}

func brandingFallback(cfg *config.Config) report.Branding {
	return report.Branding{
		CompanyName:    cfg.CompanyName,
		Tagline:        cfg.CompanyTagline,
		Address:        cfg.CompanyAddress,
		Phone:          cfg.CompanyPhone,
		CompanyLogoURL: cfg.CompanyLogoURL,
	}
}
