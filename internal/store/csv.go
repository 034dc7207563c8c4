package store

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV renders a search's ads with ";" delimiter (spreadsheet-friendly
// in pt-BR locales, where "," is the decimal separator).
func WriteCSV(w io.Writer, s Search, ads []AdRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	header := []string{"position", "title", "price_text", "price", "reference_price", "margin", "url", "price_ceiling"}
	if err := cw.Write(header); err != nil {
		return err
	}

	ceiling := strconv.Itoa(s.TargetPrice + s.PriceTolerance)
	for _, a := range ads {
		rec := []string{
			strconv.Itoa(a.Rank),
			a.Title,
			a.PriceText,
			intOrEmpty(a.Price),
			intOrEmpty(a.ReferencePrice),
			intOrEmpty(a.Margin),
			a.URL,
			ceiling,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func intOrEmpty(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
