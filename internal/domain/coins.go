package domain

// Coin maps a collateral symbol to its market-data identifier and display
// name. MarketID is the id used by the price history provider.
type Coin struct {
	Symbol   string
	MarketID string
	Name     string
}

// supportedCoins is the collateral universe the metrics refresher and the
// analyst report know how to enrich. Symbols outside this list still price
// (the classifier and premium defaults cover them) but get no market data.
var supportedCoins = []Coin{
	{Symbol: "BTC", MarketID: "bitcoin", Name: "Bitcoin"},
	{Symbol: "ETH", MarketID: "ethereum", Name: "Ethereum"},
	{Symbol: "XRP", MarketID: "ripple", Name: "XRP"},
	{Symbol: "USDT", MarketID: "tether", Name: "Tether"},
	{Symbol: "SOL", MarketID: "solana", Name: "Solana"},
	{Symbol: "ADA", MarketID: "cardano", Name: "Cardano"},
}

// CoinBySymbol looks up a supported coin by its (uppercase) symbol.
func CoinBySymbol(symbol string) (Coin, bool) {
	for _, c := range supportedCoins {
		if c.Symbol == symbol {
			return c, true
		}
	}
	return Coin{}, false
}

// Coins returns the supported collateral universe in a stable order.
func Coins() []Coin {
	out := make([]Coin, len(supportedCoins))
	copy(out, supportedCoins)
	return out
}
