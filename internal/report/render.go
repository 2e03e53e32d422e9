package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"optionsrisk/internal/adapters/config"
	"optionsrisk/pkg/errors"
)

const missing = "N/A"

// Write renders v in the requested format. Text output understands *Report
// and Expirations and leaves out the IV smile; any value can be written as
// JSON or YAML.
func Write(w io.Writer, format string, v any) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return enc.Close()
	case config.FormatText, "":
		return writeText(w, v)
	default:
		return errors.NewValidationError("format", "must be text, json or yaml", format)
	}
}

// Expirations is the output of the expirations listing
type Expirations struct {
	Expirations []string `json:"expirations" yaml:"expirations"`
}

func writeText(w io.Writer, v any) error {
	switch x := v.(type) {
	case *Report:
		return textReport(w, x)
	case Expirations:
		for _, e := range x.Expirations {
			if _, err := fmt.Fprintln(w, e); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Newf("no text layout for %T", v)
	}
}

func textReport(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	switch {
	case r.ChainError != "":
		fmt.Fprintf(tw, "Option chain: no data (%s)\n\n", r.ChainError)
	case r.Chain != nil:
		textChain(tw, r.Chain)
	}

	switch {
	case r.FlowError != "":
		fmt.Fprintf(tw, "Unusual flow: no data (%s)\n", r.FlowError)
	case r.Flow != nil:
		textFlow(tw, r.Flow)
	}

	return tw.Flush()
}

func textChain(w io.Writer, c *ChainView) {
	s := c.Summary
	fmt.Fprintf(w, "Snapshot %s  expiration %s\n\n", c.SnapshotID, c.Expiration)
	fmt.Fprintf(w, "Underlying price\t%s\n", money(s.UnderlyingPrice))
	fmt.Fprintf(w, "Total volume\t%s\n", humanize.Comma(int64(s.TotalVolume)))
	fmt.Fprintf(w, "Total open interest\t%s\n", humanize.Comma(int64(s.TotalOpenInterest)))
	fmt.Fprintf(w, "P/C ratio (volume)\t%s\n", ratio(s.PCVolumeRatio))
	fmt.Fprintf(w, "P/C ratio (OI)\t%s\n", ratio(s.PCOIRatio))
	fmt.Fprintf(w, "Max pain strike\t%s\t%s from spot\n", money(s.MaxPainStrike), percent(s.MaxPainDistance))
	fmt.Fprintf(w, "Gamma flip strike\t%s\n\n", money(s.GammaFlipStrike))

	fmt.Fprintln(w, "Strike\tP/C vol\tP/C OI\tCall vol\tPut vol\tCall OI\tPut OI\tMoney at risk\tPain\tDealer GEX\tCumulative GEX\tVega exposure\tTheta exposure")
	for i, pc := range c.PutCall {
		row := []string{amount(pc.Strike), ratio(pc.PCVolumeRatio), ratio(pc.PCOIRatio)}
		if a, ok := findActivity(c.Activity, pc.Strike); ok {
			row = append(row, whole(a.CallVolume), whole(a.PutVolume), whole(a.CallOI), whole(a.PutOI))
		} else {
			row = append(row, missing, missing, missing, missing)
		}
		row = append(row, money(valueAt(c.MoneyAtRisk, i, pc.Strike)), money(valueAt(c.PainCurve, i, pc.Strike)))
		if g, ok := findGamma(c.Gamma, pc.Strike); ok {
			row = append(row, wholeP(g.DealerGEX), wholeP(g.Cumulative))
		} else {
			row = append(row, missing, missing)
		}
		row = append(row, wholeP(valueAt(c.Vega, i, pc.Strike)), wholeP(valueAt(c.Theta, i, pc.Strike)))
		for j, col := range row {
			if j > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, col)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

func textFlow(w io.Writer, f *FlowView) {
	s := f.Summary
	fmt.Fprintf(w, "Unusual flow  min premium %s  sides %v  open/close %v\n\n", money(&f.MinPremium), f.Sides, f.OpenClose)
	fmt.Fprintf(w, "Trades\t%d\n", s.Trades)
	fmt.Fprintf(w, "Call premium\t%s\n", money(&s.CallPremium))
	fmt.Fprintf(w, "Put premium\t%s\n", money(&s.PutPremium))
	fmt.Fprintf(w, "P/C premium ratio\t%s\t%s\n\n", ratio(s.PutCallPremiumRatio), s.Sentiment)

	fmt.Fprintln(w, "Symbol\tType\tStrike\tExpiration\tTime\tSide\tOpen/Close\tSize\tPremium\tIV")
	for _, t := range f.Trades {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Symbol, t.Type, amountP(t.Strike), orMissing(t.ExpirationDate), t.TradeTime,
			t.Side, t.OpenClose, wholeP(t.Size), money(t.Premium), percent(t.IV))
	}
}

func findActivity(rows []ActivityRow, strike float64) (ActivityRow, bool) {
	for _, a := range rows {
		if a.Strike == strike {
			return a, true
		}
	}
	return ActivityRow{}, false
}

func findGamma(rows []GammaRow, strike float64) (GammaRow, bool) {
	for _, g := range rows {
		if g.Strike == strike {
			return g, true
		}
	}
	return GammaRow{}, false
}

// valueAt prefers the aligned index and falls back to a scan
func valueAt(series []StrikeValue, i int, strike float64) *float64 {
	if i < len(series) && series[i].Strike == strike {
		return series[i].Value
	}
	for _, p := range series {
		if p.Strike == strike {
			return p.Value
		}
	}
	return nil
}

func amount(f float64) string {
	return humanize.FormatFloat("#,###.##", f)
}

func amountP(f *float64) string {
	if f == nil {
		return missing
	}
	return amount(*f)
}

func money(f *float64) string {
	if f == nil {
		return missing
	}
	return "$" + amount(*f)
}

func whole(f float64) string {
	return humanize.FormatFloat("#,###.", f)
}

func wholeP(f *float64) string {
	if f == nil {
		return missing
	}
	return whole(*f)
}

func ratio(f *float64) string {
	if f == nil {
		return missing
	}
	return fmt.Sprintf("%.2f", *f)
}

func percent(f *float64) string {
	if f == nil {
		return missing
	}
	return fmt.Sprintf("%.2f%%", *f*100)
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}
