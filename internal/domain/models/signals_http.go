package models

// Requests for the dashboard HTTP endpoints.

type IndicatorsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=16"`
	Period int    `query:"period" json:"period" default:"14" validate:"gte=2,lte=100"`
}

type SignalRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=16"`
}

type BatchSignalsRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,max=50,dive,required,max=16"`
}

// MomentumRequest takes a comma separated symbol list; empty means the configured universe.
type MomentumRequest struct {
	Symbols string `query:"symbols" json:"symbols"`
}

type MacroZScoreRequest struct {
	Series string `query:"series" json:"series" validate:"required"`
	Units  string `query:"units" json:"units" default:"lin" validate:"oneof=lin chg ch1 pch pc1 pca"`
	Window int    `query:"window" json:"window" default:"12" validate:"gte=2,lte=120"`
}

type MacroAnomalyRequest struct {
	Series    string  `query:"series" json:"series" validate:"required"`
	Units     string  `query:"units" json:"units" default:"lin" validate:"oneof=lin chg ch1 pch pc1 pca"`
	Threshold float64 `query:"threshold" json:"threshold" default:"2" validate:"gt=0,lte=10"`
}
