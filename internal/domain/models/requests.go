package models

// Requests for the dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type SentimentRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required"`
	Hours  int    `query:"hours" json:"hours" default:"24" validate:"gte=1,lte=168"`
}

type SymbolRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required"`
}

type CreateWatchlistRequest struct {
	Name    string   `json:"name" validate:"required,min=1,max=64"`
	Symbols []string `json:"symbols" validate:"max=100"`
}

type WatchlistIDRequest struct {
	ID string `param:"id" json:"id" validate:"required"`
}

type WatchlistSymbolsRequest struct {
	ID      string   `param:"id" json:"id" validate:"required"`
	Symbols []string `json:"symbols" validate:"required,min=1,max=100"`
}

type DuplicateWatchlistRequest struct {
	ID   string `param:"id" json:"id" validate:"required"`
	Name string `json:"name" validate:"required,min=1,max=64"`
}
