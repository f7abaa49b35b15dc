package report

import (
	"bitbucket.org/fieldfocus/punchlist_backend/models"
)

// Fixed A4 portrait geometry, in millimeters. Rows-per-page capacity is
// derived from these constants, never measured at draw time, so pagination
// stays a pure function of the item count.
const (
	pageWidth   = 210.0
	pageHeight  = 297.0
	marginLeft  = 12.0
	marginTop   = 12.0
	marginRight = 12.0

	printableWidth = pageWidth - marginLeft - marginRight

	headerHeight  = 58.0 // branding block + document key/value lines
	tableHeadH    = 8.0
	rowHeight     = 7.0
	footerReserve = 46.0 // signature block + footer line

	logoWidth   = 26.0
	cellPadding = 1.2
)

// Column is one fixed-width table column.
type Column struct {
	Title string
	Width float64
	Align string
}

// Columns is the canonical table schema: separate Missing and Damaged
// columns, widths summing to the printable width.
var Columns = []Column{
	{Title: "Manufacturer", Width: 30, Align: "L"},
	{Title: "Model", Width: 30, Align: "L"},
	{Title: "Room", Width: 18, Align: "L"},
	{Title: "Expected", Width: 16, Align: "R"},
	{Title: "Received", Width: 16, Align: "R"},
	{Title: "Missing", Width: 16, Align: "R"},
	{Title: "Damaged", Width: 16, Align: "R"},
	{Title: "Issue", Width: 44, Align: "L"},
}

// RowsPerPage is the table capacity implied by the page geometry.
func RowsPerPage() int {
	usable := pageHeight - marginTop - headerHeight - tableHeadH - footerReserve
	return int(usable / rowHeight)
}

// Paginate slices items into consecutive page-sized chunks, in input order.
// An empty item list still yields one (empty) page so the header, signature
// lines and footer are rendered.
func Paginate(items []models.PunchlistItem, perPage int) [][]models.PunchlistItem {
	if perPage <= 0 {
		perPage = 1
	}
	if len(items) == 0 {
		return [][]models.PunchlistItem{{}}
	}
	var pages [][]models.PunchlistItem
	for start := 0; start < len(items); start += perPage {
		end := start + perPage
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, items[start:end])
	}
	return pages
}
