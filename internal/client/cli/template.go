package cli

import (
	"fmt"
	"text/template"
	"time"
)

var templateFuncs = template.FuncMap{
	"deref": deref,
	"price": formatPrice,
	"date":  func(t time.Time) string { return t.Format("2006-01-02") },
}

const productTemplate = `
=== {{.Title}} ===

ID:          {{.ID}}
Price:       {{price .Price}}
{{- if .CompareAtPrice }}
Compare at:  {{price .CompareAtPrice}}
{{- end}}
Status:      {{.Status}}
Active:      {{.IsActive}}
{{- if .Category }}
Category:    {{deref .Category}}
{{- end}}
{{- if .Tags }}
Tags:        {{deref .Tags}}
{{- end}}
{{- if .FileName }}
File:        {{deref .FileName}}{{if .FileType}} ({{deref .FileType}}){{end}}
{{- end}}
Sold:        {{.SoldCount}}
Rating:      {{printf "%.1f" .AverageRating}} ({{.ReviewCount}} reviews)
Created:     {{date .CreatedAt}}

{{.Description}}
`

const applicationTemplate = `
=== Seller Application ===

Store:    {{.StoreName}}
Email:    {{.Email}}
Status:   {{.Status}}
Address:  {{.SellerAddress}}
{{- if .SellerTaxID }}
Tax ID:   {{deref .SellerTaxID}}
{{- end}}
Applied:  {{date .CreatedAt}}

{{.SellerBio}}
`

const sellerProfileTemplate = `
=== Seller Profile ===

Email:     {{.Email}}
{{- if .StoreName }}
Store:     {{deref .StoreName}}
{{- end}}
{{- if .FullName }}
Name:      {{deref .FullName}}
{{- end}}
Approved:  {{.IsSellerApproved}}
Verified:  {{.SellerVerified}}
Products:  {{.TotalProducts}}
Sales:     {{price .TotalSales}}
Rating:    {{printf "%.1f" .SellerRating}}
{{- if .SellerBio }}

{{deref .SellerBio}}
{{- end}}
`

const orderTemplate = `
=== Order #{{.ID}} ===

Status:    {{.Status}}
Total:     {{price .TotalAmount}}
{{- if .ShippingAddress }}
Ship to:   {{deref .ShippingAddress}}
{{- end}}
{{- if .TrackingNumber }}
Tracking:  {{deref .TrackingNumber}}
{{- end}}
Placed:    {{date .CreatedAt}}

{{range .Items}}  {{.Quantity}} x {{.ProductName}} (#{{.ProductID}}) @ {{price .Price}}
{{end}}`

var (
	productTmpl       = mustTemplate("product", productTemplate)
	applicationTmpl   = mustTemplate("application", applicationTemplate)
	sellerProfileTmpl = mustTemplate("seller-profile", sellerProfileTemplate)
	orderTmpl         = mustTemplate("order", orderTemplate)
)

func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(templateFuncs).Parse(text))
}

// formatPrice принимает float64 или *float64
func formatPrice(v any) string {
	switch p := v.(type) {
	case float64:
		return fmt.Sprintf("$%.2f", p)
	case *float64:
		if p != nil {
			return fmt.Sprintf("$%.2f", *p)
		}
	}
	return "-"
}

// render выводит данные по шаблону
func (c *Cli) render(tmpl *template.Template, data any) error {
	if err := tmpl.Execute(c.io, data); err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	return nil
}
