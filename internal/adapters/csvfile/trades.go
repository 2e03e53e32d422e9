package csvfile

import (
	"io"
	"os"
	"strings"

	"optionsrisk/internal/domain/options"
	"optionsrisk/internal/metrics"
	"optionsrisk/pkg/errors"
	"optionsrisk/pkg/numeric"
)

var tradeRenames = map[string]string{
	"Price~":   "UnderlyingPrice",
	"Open Int": "OpenInterest",
	"Expires":  "ExpirationDateTime",
	"*":        "OpenClose",
}

var tradeNumeric = []string{
	"UnderlyingPrice", "Strike", "Trade", "Size", "Premium", "Volume",
	"OpenInterest", "Delta", "DTE",
}

var tradePercentage = []string{"IV"}

// TradesRequired are the columns the flow view depends on
var TradesRequired = []string{"Strike", "Type", "Premium", "Size", "Trade", "Volume", "OpenInterest", "IV", "Delta"}

// ReadUnusualTradesFile loads the unusual flow export at path
func ReadUnusualTradesFile(path string) ([]options.UnusualTrade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Unavailable(errors.CodeFileUnreadable, "open unusual trades "+path, err)
	}
	defer f.Close()

	return ReadUnusualTrades(f, path)
}

// ReadUnusualTrades parses an unusual flow export
func ReadUnusualTrades(r io.Reader, name string) ([]options.UnusualTrade, error) {
	t, err := ReadTable(r, name)
	if err != nil {
		return nil, err
	}
	t.Rename(tradeRenames)
	if err := t.Require(TradesRequired...); err != nil {
		return nil, err
	}

	cols := columns{}
	cols.normalize(t, metrics.SourceTrades, tradeNumeric, numeric.NumericColumn)
	cols.normalize(t, metrics.SourceTrades, tradePercentage, numeric.PercentageColumn)

	trades := make([]options.UnusualTrade, t.Len())
	for i := range trades {
		tr := options.UnusualTrade{
			Symbol:          t.Cell(i, "Symbol"),
			Type:            options.ParseOptionType(t.Cell(i, "Type")),
			Strike:          cols.at("Strike", i),
			TradeTime:       t.Cell(i, "Time"),
			Side:            strings.TrimSpace(t.Cell(i, "Side")),
			OpenClose:       strings.TrimSpace(t.Cell(i, "OpenClose")),
			Trade:           cols.at("Trade", i),
			Size:            cols.at("Size", i),
			Premium:         cols.at("Premium", i),
			Volume:          cols.at("Volume", i),
			OpenInterest:    cols.at("OpenInterest", i),
			IV:              cols.at("IV", i),
			Delta:           cols.at("Delta", i),
			UnderlyingPrice: cols.at("UnderlyingPrice", i),
			DTE:             cols.at("DTE", i),
		}
		if t.Has("ExpirationDateTime") {
			raw := t.Cell(i, "ExpirationDateTime")
			tr.ExpirationDateTime = parseTime(raw)
			tr.ExpirationDate = parseDate(raw)
		}
		trades[i] = tr
	}

	return trades, nil
}
