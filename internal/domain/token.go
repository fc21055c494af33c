package domain

// TokenPrice is a spot price with its 24h move, in USD.
type TokenPrice struct {
	USD       float64 `json:"usd"`
	Change24h float64 `json:"change_24h"`
}

// TokenSnapshot is one token's balance and valuation for a wallet.
type TokenSnapshot struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Mint      string  `json:"mint,omitempty"`
	Balance   float64 `json:"balance"`
	Price     float64 `json:"price"`
	Value     float64 `json:"value"`
	Change24h float64 `json:"change_24h"`
}
