package capture

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes one row per sample: run, index and the sample columns.
// Pair dumps get right and left columns, single dumps a value column.
func (c *Capture) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	pair := false
	for _, run := range c.Runs {
		if len(run) > 0 {
			pair = run[0].Pair
			break
		}
	}
	header := []string{"run", "index", "value"}
	if pair {
		header = []string{"run", "index", "right", "left"}
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for r, run := range c.Runs {
		for i, smp := range run {
			row := []string{strconv.Itoa(r), strconv.Itoa(i)}
			if pair {
				row = append(row, strconv.Itoa(int(smp.Right)), strconv.Itoa(int(smp.Left)))
			} else {
				row = append(row, strconv.Itoa(int(smp.Value)))
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
