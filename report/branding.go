package report

import (
	"strings"

	"bitbucket.org/fieldfocus/punchlist_backend/models"
)

const defaultCompanyName = "FieldFocus Integration Services"

// Branding is the resolved identity block drawn on every page.
type Branding struct {
	CompanyName    string
	Tagline        string
	Address        string
	Phone          string
	CompanyLogoURL string
	ClientName     string
	ClientLogoURL  string
}

// Override carries per-request branding fields. Empty fields fall through
// to the next source in the chain.
type Override struct {
	CompanyName    string `json:"company_name"`
	Tagline        string `json:"tagline"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	CompanyLogoURL string `json:"company_logo_url"`
	ClientName     string `json:"client_name"`
	ClientLogoURL  string `json:"client_logo_url"`
}

// ResolveBranding applies the precedence chain: per-request override, then
// the work order's branding columns, then the configured fallback, then the
// default company name.
func ResolveBranding(ov *Override, wo *models.WorkOrder, fallback Branding) Branding {
	if ov == nil {
		ov = &Override{}
	}
	var woCompany, woCompanyLogo, woClient, woClientLogo string
	if wo != nil {
		woCompany = wo.CompanyDisplayName
		woCompanyLogo = wo.CompanyLogoUrl
		woClient = wo.ClientName
		woClientLogo = wo.ClientLogoUrl
	}
	return Branding{
		CompanyName:    pick(ov.CompanyName, woCompany, fallback.CompanyName, defaultCompanyName),
		Tagline:        pick(ov.Tagline, fallback.Tagline),
		Address:        pick(ov.Address, fallback.Address),
		Phone:          pick(ov.Phone, fallback.Phone),
		CompanyLogoURL: pick(ov.CompanyLogoURL, woCompanyLogo, fallback.CompanyLogoURL),
		ClientName:     pick(ov.ClientName, woClient, fallback.ClientName),
		ClientLogoURL:  pick(ov.ClientLogoURL, woClientLogo, fallback.ClientLogoURL),
	}
}

func pick(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
