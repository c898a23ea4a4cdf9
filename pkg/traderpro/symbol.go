package traderpro

import "strings"

// quoteSuffix is appended to crypto tickers to form the provider's pair symbol.
const quoteSuffix = "-USD"

// cryptoTickers lists major crypto symbols that conflict with stock tickers or
// need an explicit quote suffix. Synced with the frontend's popular-assets list;
// it is a fixed list and will drift as new assets gain traction.
var cryptoTickers = map[string]struct{}{
	"BTC": {}, "ETH": {}, "BNB": {}, "SOL": {}, "XRP": {}, "ADA": {},
	"AVAX": {}, "DOGE": {}, "DOT": {}, "MATIC": {}, "LINK": {}, "UNI": {},
	"ATOM": {}, "LTC": {}, "BCH": {}, "NEAR": {}, "APT": {}, "ARB": {},
	"OP": {}, "SUI": {}, "TIA": {}, "INJ": {}, "SEI": {}, "FTM": {},
	"ALGO": {}, "VET": {}, "ICP": {}, "HBAR": {}, "FIL": {}, "AAVE": {},
	"MKR": {}, "GRT": {}, "SAND": {}, "MANA": {}, "AXS": {}, "THETA": {},
	"XLM": {}, "XMR": {}, "EOS": {}, "SHIB": {}, "PEPE": {}, "WIF": {},
	"BONK": {}, "FLOKI": {}, "GALA": {}, "CHZ": {}, "ENJ": {}, "ROSE": {},
	"RUNE": {}, "KAVA": {},
}

// normalizeSymbol upper-cases and trims a raw user symbol.
func normalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// isCryptoTicker reports whether the normalized symbol is a known crypto asset.
func isCryptoTicker(symbol string) bool {
	_, ok := cryptoTickers[symbol]
	return ok
}

// resolveCandidates turns a raw user symbol into the ordered list of provider
// identifiers to attempt. Known crypto tickers get the quote suffix up front;
// for any symbol without an explicit suffix a suffixed fallback is appended to
// catch crypto assets missing from the fixed list. First success wins.
func resolveCandidates(raw string) []string {
	symbol := normalizeSymbol(raw)
	if symbol == "" {
		return nil
	}

	primary := symbol
	if isCryptoTicker(symbol) {
		primary = symbol + quoteSuffix
	}

	candidates := []string{primary}
	if !strings.Contains(primary, "-") {
		candidates = append(candidates, symbol+quoteSuffix)
	}
	return candidates
}
