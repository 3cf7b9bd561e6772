package summary

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
)

// buildReportMarkdown renders the deterministic analyst report:
// market snapshot, per-coin performance and risk, LTV overview, portfolio
// interest rate, and the smart-contract terms block.
func buildReportMarkdown(profile *domain.LoanProfile, insights map[string]domain.CoinInsight, cfg Config) string {
	s := profile.Summary

	// Market snapshot: how much of the collateral universe is up over
	// each window.
	var up5, up10, up30 int
	for _, info := range insights {
		if info.Pct5d != nil && *info.Pct5d >= 0 {
			up5++
		}
		if info.Pct10d != nil && *info.Pct10d >= 0 {
			up10++
		}
		if info.Pct30d != nil && *info.Pct30d >= 0 {
			up30++
		}
	}
	total := len(insights)

	snapshotLines := []string{
		fmt.Sprintf("- Coins up over **5d**: %d/%d", up5, total),
		fmt.Sprintf("- Coins up over **10d**: %d/%d", up10, total),
		fmt.Sprintf("- Coins up over **30d**: %d/%d", up30, total),
		fmt.Sprintf("- Portfolio term: **%d months**", s.Months),
	}

	coinSections := make([]string, 0, len(profile.Assets))
	for _, a := range profile.Assets {
		coinSections = append(coinSections, coinSection(a.Symbol, insights[a.Symbol], cfg.NewsPerCoin))
	}

	ltvLines := []string{
		fmt.Sprintf("- **Portfolio LTV (current)**: %s — share of loan vs. collateral now.", fmtPct(&s.PortfolioLTV)),
		fmt.Sprintf("- **Margin Call LTV**: %s — checkpoint to top up collateral or reduce exposure.", fmtPct(&s.MarginCallLTV)),
		fmt.Sprintf("- **Liquidation LTV**: %s — threshold where positions may be closed to repay the loan.", fmtPct(&s.LiquidationLTV)),
	}

	irLines := []string{
		fmt.Sprintf("- **Portfolio interest rate**: %s.", fmtPct(&s.InterestRate)),
		fmt.Sprintf("- **Monthly EMI**: %s for %d months.", fmtUSD(s.MonthlyEMI), s.Months),
	}

	scLines := []string{
		fmt.Sprintf("- **Term**: %d-month loan.", s.Months),
		"- **Custody**: Selected collateral coins move from the borrower’s specified wallet(s) to Aetherum’s custody smart contract for the duration of the loan.",
		"- **Withdrawal/repayment**: Coins are released back after full repayment; early repayment allowed per contract terms.",
	}
	switch {
	case cfg.ContractAddress != "" && cfg.ExplorerBaseURL != "":
		scLines = append(scLines, fmt.Sprintf("- **Contract** (%s): [`%s`](%s/%s)",
			cfg.ChainName, cfg.ContractAddress, cfg.ExplorerBaseURL, cfg.ContractAddress))
	case cfg.ContractAddress != "":
		scLines = append(scLines, fmt.Sprintf("- **Contract** (%s): `%s` (paste into your preferred block explorer)",
			cfg.ChainName, cfg.ContractAddress))
	}

	lines := []string{"## Market snapshot"}
	lines = append(lines, snapshotLines...)
	lines = append(lines, "", "## Collateral coins — performance & risk")
	if len(coinSections) > 0 {
		for _, sec := range coinSections {
			lines = append(lines, sec+"\n")
		}
	} else {
		lines = append(lines, "(no assets provided)")
	}
	lines = append(lines, "", "## LTV overview")
	lines = append(lines, ltvLines...)
	lines = append(lines, "", "## Portfolio interest rate")
	lines = append(lines, irLines...)
	lines = append(lines, "", "## Smart contract terms")
	lines = append(lines, scLines...)

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// coinSection renders one collateral coin's performance, risk verdict and
// recent headlines.
func coinSection(symbol string, info domain.CoinInsight, newsPerCoin int) string {
	name := info.CoinName
	if name == "" {
		name = symbol
	}

	var riskLine string
	switch {
	case info.RealizedVol30d == nil:
		riskLine = "- Risk/volatility: data limited; keep conservative LTV discipline"
	case *info.RealizedVol30d < 5:
		riskLine = "- Risk/volatility: **low** (30-day realized vol under 5%)"
	case *info.RealizedVol30d < 15:
		riskLine = "- Risk/volatility: **moderate** (30-day realized vol 5–15%)"
	default:
		riskLine = "- Risk/volatility: **elevated** (30-day realized vol above 15%)"
	}

	headlines := info.Headlines
	if len(headlines) > newsPerCoin {
		headlines = headlines[:newsPerCoin]
	}
	var newsLines []string
	if len(headlines) > 0 {
		newsLines = []string{"- Recent headlines:"}
		for _, h := range headlines {
			newsLines = append(newsLines, fmt.Sprintf("  - [%s](%s) — _%s_",
				strings.TrimSpace(h.Title), strings.TrimSpace(h.Link), strings.TrimSpace(h.Published)))
		}
	} else {
		newsLines = []string{"- Recent headlines: (none found in the last few days)"}
	}

	lines := []string{
		fmt.Sprintf("**%s (%s)**", name, symbol),
		fmt.Sprintf("- 5d: %s | 10d: %s | 30d: %s", fmtPct(info.Pct5d), fmtPct(info.Pct10d), fmtPct(info.Pct30d)),
		fmt.Sprintf("- 30-day realized volatility: %s", fmtPct(info.RealizedVol30d)),
		riskLine,
	}
	lines = append(lines, newsLines...)
	return strings.Join(lines, "\n")
}

// fmtPct renders a percent value to 2 decimals, or an em dash when the
// data is missing.
func fmtPct(x *float64) string {
	if x == nil {
		return "—"
	}
	return fmt.Sprintf("%.2f%%", *x)
}

// fmtUSD renders a dollar amount with thousands separators, e.g.
// $1,234,567.89.
func fmtUSD(x float64) string {
	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}

	s := strconv.FormatFloat(x, 'f', 2, 64)
	intPart := s[:len(s)-3]
	frac := s[len(s)-3:]
	for i := len(intPart) - 3; i > 0; i -= 3 {
		intPart = intPart[:i] + "," + intPart[i:]
	}

	return "$" + sign + intPart + frac
}
