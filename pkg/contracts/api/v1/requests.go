// Package api contains API contract definitions for the solar dashboard.
// Version v1 represents the current stable API version.
package api

// Dashboard API Requests

// DashboardQuery is the query string shared by the page, the chart images,
// the export and the JSON analysis endpoints
type DashboardQuery struct {
	Strategy    string   `json:"strategy" query:"strategy" validate:"omitempty,oneof=none ffill drop mean median"`
	ShowCleaned bool     `json:"show_cleaned" query:"show_cleaned"`
	Line        []string `json:"line" query:"line" validate:"omitempty,max=64,dive,required,max=256"`
	HistColumn  string   `json:"hist_column" query:"hist_column" validate:"omitempty,max=256"`
	Bins        int      `json:"bins" query:"bins" validate:"omitempty,min=5,max=50"`
	Corr        []string `json:"corr" query:"corr" validate:"omitempty,max=64,dive,required,max=256"`
	Rows        int      `json:"rows" query:"rows" validate:"omitempty,min=1,max=100"`
	// Submitted is set by the page form; with it an absent line or corr
	// parameter means an explicit empty selection instead of the default
	Submitted bool `json:"submitted" query:"submitted"`
}

// ChartRequest selects one chart image
type ChartRequest struct {
	Kind   string `json:"kind" param:"kind" validate:"required,oneof=line histogram correlation wind"`
	Format string `json:"format" param:"format" validate:"required,oneof=png svg"`
}

// ExportRequest selects the download encoding
type ExportRequest struct {
	Format string `json:"format" query:"format" validate:"omitempty,oneof=csv xlsx"`
	BOM    bool   `json:"bom" query:"bom"`
}

// UploadRequest describes the file part of a multipart upload
type UploadRequest struct {
	Filename string `json:"filename" validate:"required,filename"`
	Size     int64  `json:"size" validate:"gte=0"`
}
