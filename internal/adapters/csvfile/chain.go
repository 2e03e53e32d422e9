package csvfile

import (
	"io"
	"os"

	"optionsrisk/internal/domain/options"
	"optionsrisk/internal/metrics"
	"optionsrisk/pkg/errors"
	"optionsrisk/pkg/numeric"
)

var chainRenames = map[string]string{
	"Price~":   "UnderlyingPrice",
	"Exp Date": "ExpirationDate",
	"Open Int": "OpenInterest",
	"ITM Prob": "ITMProbability",
}

var chainNumeric = []string{
	"UnderlyingPrice", "Strike", "Bid", "Ask", "Volume", "OpenInterest",
	"Delta", "Gamma", "Theta", "Vega",
}

var chainPercentage = []string{"IV", "ITMProbability"}

// ChainRequired are the columns every metric depends on
var ChainRequired = []string{"Strike", "Type", "OpenInterest", "Gamma", "Vega", "Theta", "Volume"}

// ReadChainFile loads the option chain export at path
func ReadChainFile(path string) ([]options.OptionQuote, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Unavailable(errors.CodeFileUnreadable, "open chain "+path, err)
	}
	defer f.Close()

	return ReadChain(f, path)
}

// ReadChain parses an option chain export
func ReadChain(r io.Reader, name string) ([]options.OptionQuote, error) {
	t, err := ReadTable(r, name)
	if err != nil {
		return nil, err
	}
	t.Rename(chainRenames)
	if err := t.Require(ChainRequired...); err != nil {
		return nil, err
	}

	cols := columns{}
	cols.normalize(t, metrics.SourceChain, chainNumeric, numeric.NumericColumn)
	cols.normalize(t, metrics.SourceChain, chainPercentage, numeric.PercentageColumn)

	quotes := make([]options.OptionQuote, t.Len())
	for i := range quotes {
		q := options.OptionQuote{
			Symbol:          t.Cell(i, "Symbol"),
			Type:            options.ParseOptionType(t.Cell(i, "Type")),
			Strike:          cols.at("Strike", i),
			UnderlyingPrice: cols.at("UnderlyingPrice", i),
			Bid:             cols.at("Bid", i),
			Ask:             cols.at("Ask", i),
			Volume:          cols.at("Volume", i),
			OpenInterest:    cols.at("OpenInterest", i),
			IV:              cols.at("IV", i),
			ITMProbability:  cols.at("ITMProbability", i),
			Delta:           cols.at("Delta", i),
			Gamma:           cols.at("Gamma", i),
			Theta:           cols.at("Theta", i),
			Vega:            cols.at("Vega", i),
		}
		q.MidPrice = options.MidPrice(q.Bid, q.Ask)
		if t.Has("ExpirationDate") {
			q.ExpirationDate = parseDate(t.Cell(i, "ExpirationDate"))
		}
		if t.Has("Time") {
			q.LastTradeDate = parseTime(t.Cell(i, "Time"))
		}
		quotes[i] = q
	}

	return quotes, nil
}
