package report

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"

	"bitbucket.org/fieldfocus/punchlist_backend/models"
	"bitbucket.org/fieldfocus/punchlist_backend/utils"
)

// Renderer draws the punchlist report. One renderer, one layout: portrait
// A4, separate Missing and Damaged columns, paginated, full branding.
type Renderer struct {
	logger *logrus.Logger
	http   *http.Client
	now    func() time.Time
}

func NewRenderer(logger *logrus.Logger) *Renderer {
	return &Renderer{
		logger: logger,
		http:   &http.Client{Timeout: 10 * time.Second},
		now:    time.Now,
	}
}

// Render composes the whole document and returns the PDF bytes. Any
// composition failure aborts the render; only logo fetching degrades.
func (r *Renderer) Render(b Branding, pl *models.Punchlist, wo *models.WorkOrder, items []models.PunchlistItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")

	companyLogo := r.embedLogo(pdf, "company_logo", b.CompanyLogoURL)
	clientLogo := r.embedLogo(pdf, "client_logo", b.ClientLogoURL)

	generated := r.now().UTC()
	pdf.SetFooterFunc(func() {
		pdf.SetY(pageHeight - 10)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(printableWidth/2, 4, "Generated "+generated.Format("2006-01-02 15:04")+" UTC", "", 0, "L", false, 0, "")
		pdf.CellFormat(printableWidth/2, 4, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	for _, page := range Paginate(items, RowsPerPage()) {
		pdf.AddPage()
		r.drawHeader(pdf, b, pl, wo, companyLogo, clientLogo)
		r.drawTable(pdf, page)
		r.drawSignatures(pdf)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &utils.RenderError{Err: err}
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawHeader(pdf *gofpdf.Fpdf, b Branding, pl *models.Punchlist, wo *models.WorkOrder, companyLogo bool, clientLogo bool) {
	if companyLogo {
		pdf.ImageOptions("company_logo", marginLeft, marginTop, logoWidth, 0, false, gofpdf.ImageOptions{}, 0, "")
	}
	if clientLogo {
		pdf.ImageOptions("client_logo", pageWidth-marginRight-logoWidth, marginTop, logoWidth, 0, false, gofpdf.ImageOptions{}, 0, "")
	}

	textX := marginLeft
	if companyLogo {
		textX += logoWidth + 4
	}
	pdf.SetXY(textX, marginTop)
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(0, 7, b.CompanyName, "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetX(textX)
	for _, line := range []string{b.Tagline, b.Address, b.Phone} {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pdf.CellFormat(0, 4.5, line, "", 2, "L", false, 0, "")
		pdf.SetX(textX)
	}

	// Document block sits at a fixed offset regardless of how many branding
	// lines were present, so the table always starts at the same Y.
	pdf.SetXY(marginLeft, marginTop+28)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 7, "Shipment Punchlist", "", 2, "L", false, 0, "")

	kvLine(pdf, "Punchlist #", strconv.FormatInt(pl.ID, 10))
	if wo != nil {
		kvLine(pdf, "Work Order", wo.Code)
		kvLine(pdf, "Project", wo.ProjectName)
	}
	if b.ClientName != "" {
		kvLine(pdf, "Client", b.ClientName)
	}
	kvLine(pdf, "Status", string(pl.Status))
	if !pl.CreatedAt.IsZero() {
		kvLine(pdf, "Created", pl.CreatedAt.UTC().Format("2006-01-02"))
	}
}

func kvLine(pdf *gofpdf.Fpdf, key string, value string) {
	pdf.SetX(marginLeft)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(26, 4.6, key, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 4.6, value, "", 1, "L", false, 0, "")
}

func (r *Renderer) drawTable(pdf *gofpdf.Fpdf, rows []models.PunchlistItem) {
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(50, 62, 79)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range Columns {
		pdf.CellFormat(col.Width, tableHeadH, col.Title, "1", 0, col.Align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(240, 242, 245)

	if len(rows) == 0 {
		pdf.SetX(marginLeft)
		pdf.SetFontStyle("I")
		pdf.CellFormat(printableWidth, rowHeight, "No discrepancies recorded.", "1", 1, "C", false, 0, "")
		pdf.SetFontStyle("")
		return
	}

	for i, item := range rows {
		fill := i%2 == 1 // zebra
		values := []string{
			item.Manufacturer,
			item.Model,
			item.Room,
			strconv.Itoa(item.ExpectedQty),
			strconv.Itoa(item.ReceivedQty),
			strconv.Itoa(item.MissingQty),
			strconv.Itoa(item.DamagedQty),
			item.Issue,
		}
		pdf.SetX(marginLeft)
		for j, col := range Columns {
			text := truncateToWidth(pdf, values[j], col.Width-2*cellPadding)
			pdf.CellFormat(col.Width, rowHeight, text, "1", 0, col.Align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
}

func (r *Renderer) drawSignatures(pdf *gofpdf.Fpdf) {
	y := pageHeight - footerReserve + 4
	pdf.SetXY(marginLeft, y)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Acknowledgement", "", 1, "L", false, 0, "")

	lineY := y + 20
	half := printableWidth/2 - 8
	pdf.Line(marginLeft, lineY, marginLeft+half, lineY)
	pdf.Line(pageWidth-marginRight-half, lineY, pageWidth-marginRight, lineY)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(marginLeft, lineY+1)
	pdf.CellFormat(half, 4, "Field Technician / Date", "", 0, "L", false, 0, "")
	pdf.SetX(pageWidth - marginRight - half)
	pdf.CellFormat(half, 4, "Client Representative / Date", "", 0, "L", false, 0, "")
}

// truncateToWidth clamps s so its rendered width fits maxWidth, dropping
// trailing characters one at a time. Lossy on purpose: table cells never
// wrap and carry no ellipsis.
func truncateToWidth(pdf *gofpdf.Fpdf, s string, maxWidth float64) string {
	if pdf.GetStringWidth(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)) > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

// embedLogo fetches image bytes and registers them with the document,
// sniffing PNG vs JPEG from the first byte. Any failure is non-fatal:
// branding degrades, the report still ships.
func (r *Renderer) embedLogo(pdf *gofpdf.Fpdf, name string, url string) bool {
	if strings.TrimSpace(url) == "" {
		return false
	}
	resp, err := r.http.Get(url)
	if err != nil {
		r.warnLogo(url, err.Error())
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.warnLogo(url, "status "+strconv.Itoa(resp.StatusCode))
		return false
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		r.warnLogo(url, "empty or unreadable body")
		return false
	}

	imageType := "JPG"
	if data[0] == 0x89 {
		imageType = "PNG"
	}
	pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if pdf.Err() {
		// A corrupt image would poison the whole document; drop it and
		// carry on without the logo.
		pdf.ClearError()
		r.warnLogo(url, "unreadable image data")
		return false
	}
	return true
}

func (r *Renderer) warnLogo(url string, reason string) {
	if r.logger == nil {
		return
	}
	r.logger.WithFields(logrus.Fields{
		"module": "report",
		"url":    url,
	}).Warn("logo skipped: " + reason)
}
