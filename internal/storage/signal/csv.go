package signal

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/sigscan/sigscan/internal/core"
)

// EncodeCSV renders signals as CSV for export, one row per signal with
// forward outcome columns left empty while absent.
func EncodeCSV(signals []core.Signal) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"id", "symbol", "signal_date", "price_at_signal",
		"price_5d", "gain_5d_pct", "result_5d",
		"price_10d", "gain_10d_pct", "result_10d",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, sig := range signals {
		row := []string{
			strconv.FormatInt(sig.ID, 10),
			sig.Symbol,
			sig.Date.Format(dateLayout),
			formatFloat(sig.PriceAtSignal),
			floatCol(sig.Forward.Price5d),
			floatCol(sig.Forward.Gain5d),
			outcomeCol(sig.Forward.Result5d),
			floatCol(sig.Forward.Price10d),
			floatCol(sig.Forward.Gain10d),
			outcomeCol(sig.Forward.Result10d),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func floatCol(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func outcomeCol(o *core.Outcome) string {
	if o == nil {
		return ""
	}
	return string(*o)
}
