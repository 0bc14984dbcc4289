package types

type Candle struct {
	Ts    int64
	Close float64
}

// SymbolConstraints are the exchange-imposed LOT_SIZE / MIN_NOTIONAL
// filters for one trading pair.
type SymbolConstraints struct {
	Symbol      string
	BaseAsset   string
	QuoteAsset  string
	StepSize    string
	MinNotional float64
}

type OrderReq struct {
	Symbol, Side string
	Qty          float64
}
type OrderReceipt struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// Sides as written to the trade log. The log format predates this
// implementation and keeps the Portuguese markers.
const (
	SideBuy  = "COMPRA"
	SideSell = "VENDA"
)

type StepStatus string

const (
	StepTraded  StepStatus = "TRADED"
	StepSkipped StepStatus = "SKIPPED"
	StepFailed  StepStatus = "FAILED"
)

// StepResult reports what one per-symbol pass of the execution loop did.
// Failures are carried here instead of escaping the loop.
type StepResult struct {
	Symbol string         `json:"symbol"`
	Status StepStatus     `json:"status"`
	Side   string         `json:"side,omitempty"`
	Price  float64        `json:"price,omitempty"`
	Qty    float64        `json:"qty,omitempty"`
	Reason string         `json:"reason"`
	Orders []OrderReceipt `json:"orders,omitempty"`
}

type Balance struct {
	Asset string  `json:"asset"`
	Free  float64 `json:"free"`
}
