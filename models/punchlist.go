package models

import (
	"context"
	"strconv"
	"time"

	"bitbucket.org/fieldfocus/punchlist_backend/backend"
	"bitbucket.org/fieldfocus/punchlist_backend/utils"
)

type PunchlistStatus string

const (
	PunchlistStatusDraft  PunchlistStatus = "draft"
	PunchlistStatusIssued PunchlistStatus = "issued"
	PunchlistStatusClosed PunchlistStatus = "closed"
)

// Tables in the hosted store. The diff view joins expected manifest
// quantities against received/damaged totals; it is read-only here.
const (
	TableManifestLines  = "manifest_lines"
	TablePunchlists     = "punchlists"
	TablePunchlistItems = "punchlist_items"
	TableWorkOrders     = "work_orders"
	ViewManifestDiff    = "manifest_diff"
)

// ManifestLine is one row of the diff view. Quantity fields the view leaves
// null decode as zero.
type ManifestLine struct {
	WorkOrderId   *string `json:"work_order_id,omitempty"`
	Manufacturer  string  `json:"manufacturer"`
	Model         string  `json:"model"`
	Room          string  `json:"room"`
	ExpectedQty   int     `json:"expected_qty"`
	TotalReceived int     `json:"total_received"`
	TotalDamaged  int     `json:"total_damaged"`
}

type PunchlistItem struct {
	ID           int64  `json:"id,omitempty"`
	PunchlistId  int64  `json:"punchlist_id,omitempty"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Room         string `json:"room"`
	ExpectedQty  int    `json:"expected_qty"`
	ReceivedQty  int    `json:"received_qty"`
	MissingQty   int    `json:"missing_qty"`
	DamagedQty   int    `json:"damaged_qty"`
	Issue        string `json:"issue,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type Punchlist struct {
	ID          int64           `json:"id"`
	WorkOrderId *string         `json:"work_order_id"`
	Status      PunchlistStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// WorkOrder is owned by the job-management system; this service only reads
// it for report branding.
type WorkOrder struct {
	ID                 string `json:"id"`
	Code               string `json:"code"`
	ProjectName        string `json:"project_name"`
	ClientName         string `json:"client_name"`
	ClientLogoUrl      string `json:"client_logo_url"`
	CompanyDisplayName string `json:"company_display_name"`
	CompanyLogoUrl     string `json:"company_logo_url"`
}

type newPunchlist struct {
	WorkOrderId *string         `json:"work_order_id"`
	Status      PunchlistStatus `json:"status"`
}

type CreatePunchlistResult struct {
	Punchlist Punchlist
	Items     []PunchlistItem
}

// CreatePunchlist creates the punchlist header and then attaches the
// computed items in a single batch insert. The header is created even when
// items is empty: every diff run leaves an audit record. If the item insert
// fails the header row stays behind; there is no compensating rollback.
func CreatePunchlist(ctx context.Context, be *backend.Client, workOrderId *string, items []PunchlistItem) (*CreatePunchlistResult, error) {
	headers, err := backend.InsertReturning[Punchlist](ctx, be, TablePunchlists,
		[]newPunchlist{{WorkOrderId: normalizeId(workOrderId), Status: PunchlistStatusDraft}})
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return nil, &utils.BackendError{Op: "insert " + TablePunchlists, Body: "insert returned no rows"}
	}

	result := &CreatePunchlistResult{Punchlist: headers[0], Items: []PunchlistItem{}}
	if len(items) == 0 {
		return result, nil
	}

	rows := make([]PunchlistItem, len(items))
	copy(rows, items)
	for i := range rows {
		rows[i].PunchlistId = result.Punchlist.ID
	}
	persisted, err := backend.InsertReturning[PunchlistItem](ctx, be, TablePunchlistItems, rows)
	if err != nil {
		return nil, err
	}
	result.Items = persisted
	return result, nil
}

func normalizeId(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

// GetPunchlist fetches one punchlist by id.
func GetPunchlist(ctx context.Context, be *backend.Client, id int64) (*Punchlist, error) {
	rows, err := backend.SelectInto[Punchlist](ctx, be, backend.SelectParams{
		Table:   TablePunchlists,
		Filters: []backend.Filter{{Column: "id", Op: "eq", Value: strconv.FormatInt(id, 10)}},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, utils.ErrNotFound
	}
	return &rows[0], nil
}

// LatestPunchlistForWorkOrder fetches the most recently created punchlist
// for the work order.
func LatestPunchlistForWorkOrder(ctx context.Context, be *backend.Client, workOrderId string) (*Punchlist, error) {
	rows, err := backend.SelectInto[Punchlist](ctx, be, backend.SelectParams{
		Table:   TablePunchlists,
		Filters: []backend.Filter{{Column: "work_order_id", Op: "eq", Value: workOrderId}},
		Order:   "created_at.desc",
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, utils.ErrNotFound
	}
	return &rows[0], nil
}

// GetPunchlistItems returns the punchlist's items in insertion order.
func GetPunchlistItems(ctx context.Context, be *backend.Client, punchlistId int64) ([]PunchlistItem, error) {
	return backend.SelectInto[PunchlistItem](ctx, be, backend.SelectParams{
		Table:   TablePunchlistItems,
		Filters: []backend.Filter{{Column: "punchlist_id", Op: "eq", Value: strconv.FormatInt(punchlistId, 10)}},
		Order:   "id.asc",
	})
}

// GetWorkOrder fetches one work order by id.
func GetWorkOrder(ctx context.Context, be *backend.Client, id string) (*WorkOrder, error) {
	rows, err := backend.SelectInto[WorkOrder](ctx, be, backend.SelectParams{
		Table:   TableWorkOrders,
		Filters: []backend.Filter{{Column: "id", Op: "eq", Value: id}},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, utils.ErrNotFound
	}
	return &rows[0], nil
}
