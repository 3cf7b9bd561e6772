package domain

// NewsHeadline is one feed item kept for the analyst report.
type NewsHeadline struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
}

// CoinInsight is the enrichment block built per collateral coin: price
// changes over short windows, realized volatility, and recent headlines.
// Nil pointers mean the market data could not be fetched.
type CoinInsight struct {
	Symbol         string
	CoinName       string
	Pct5d          *float64
	Pct10d         *float64
	Pct30d         *float64
	RealizedVol30d *float64
	Headlines      []NewsHeadline
}

// AnalystSummary is the rendered report. Provider is "deterministic" when
// the markdown comes straight from the template, or the LLM provider name
// when a rewrite was applied.
type AnalystSummary struct {
	Markdown string `json:"markdown"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	UsedLLM  bool   `json:"used_llm"`
}
