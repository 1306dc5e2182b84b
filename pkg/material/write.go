package material

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

const maxLetters = 26

// WriteTable writes records in the compiled table layout ParseTable reads.
// Unused parameter slots are written as "^".
func WriteTable(w io.Writer, records ...Record) error {
	var nLow, nHigh int
	for _, r := range records {
		nLow = max(nLow, len(r.Params.Low))
		nHigh = max(nHigh, len(r.Params.High))
	}
	if nLow > maxLetters || nHigh > maxLetters {
		return fmt.Errorf("%w: more than %d parameters per group", ErrMalformedRecord, maxLetters)
	}

	header := []string{"Material Name", "Fit Type", "Low Temp", "High Temp", "Perc Err"}
	for i := 0; i < nLow; i++ {
		header = append(header, string(rune('a'+i)))
	}
	for i := 0; i < nHigh; i++ {
		header = append(header, string(rune('A'+i)))
	}
	header = append(header, "erf param")

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.Material, string(r.Type), fmtFloat(r.TLow), fmtFloat(r.THigh), fmtFloat(r.PercErr)}
		row = appendSlots(row, r.Params.Low, nLow)
		row = appendSlots(row, r.Params.High, nHigh)
		row = append(row, fmtFloat(r.Params.ErfLoc))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func appendSlots(row []string, vals []float64, n int) []string {
	for i := 0; i < n; i++ {
		if i < len(vals) {
			row = append(row, fmtFloat(vals[i]))
		} else {
			row = append(row, "^")
		}
	}
	return row
}

func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
