package models

// Requests for series HTTP endpoints. Defined in domain for consistency and reuse.

type SeriesRequest struct {
	Name    string `param:"name" json:"name" validate:"required,max=64"`
	Range   string `query:"range" json:"range" validate:"max=16"`
	Start   string `query:"start" json:"start" validate:"omitempty,max=40"`
	End     string `query:"end" json:"end" validate:"omitempty,max=40"`
	OnEmpty string `query:"on_empty" json:"on_empty" validate:"omitempty,oneof=show_all show_empty"`
	Fields  string `query:"fields" json:"fields" validate:"omitempty,max=256"`
}

type DashboardRequest struct {
	Range   string `query:"range" json:"range" validate:"max=16"`
	Start   string `query:"start" json:"start" validate:"omitempty,max=40"`
	End     string `query:"end" json:"end" validate:"omitempty,max=40"`
	OnEmpty string `query:"on_empty" json:"on_empty" validate:"omitempty,oneof=show_all show_empty"`
}

type TradesRequest struct {
	Limit      int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
	Offset     int    `query:"offset" json:"offset" default:"0" validate:"gte=0"`
	Status     string `query:"status" json:"status" validate:"omitempty,max=32"`
	AssetClass string `query:"asset_class" json:"asset_class" validate:"omitempty,max=32"`
	CustomerID string `query:"customer_id" json:"customer_id" validate:"omitempty,max=32"`
	SortBy     string `query:"sort_by" json:"sort_by" default:"trade_date" validate:"oneof=trade_id customer_name type asset_class amount status trade_date"`
	SortOrder  string `query:"sort_order" json:"sort_order" default:"desc" validate:"oneof=asc desc ASC DESC"`
}

type IDRequest struct {
	ID int64 `param:"id" json:"id" validate:"required,gte=1"`
}

type UploadListRequest struct {
	Limit  int `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=500"`
	Offset int `query:"offset" json:"offset" default:"0" validate:"gte=0"`
}

type UploadRequest struct {
	Series string `query:"series" json:"series" validate:"omitempty,max=64"`
}
