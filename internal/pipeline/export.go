package pipeline

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"premierstats/internal"
)

// MissingCell is written for absent values in CSV output.
const MissingCell = "N/a"

const (
	PlayersCSV   = "results.csv"
	PlayersXLSX  = "results.xlsx"
	TransfersCSV = "transfer_values.csv"
)

func WritePlayersCSV(ds *Dataset, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Keys()); err != nil {
		return err
	}
	cols := ds.Columns()
	record := make([]string, len(cols))
	for r := 0; r < ds.Len(); r++ {
		for c := range cols {
			v := cols[c].Values[r]
			if v.IsAbsent() {
				record[c] = MissingCell
				continue
			}
			record[c] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ExportPlayersCSV(ds *Dataset, outputPath string) error {
	return writeFile(outputPath, func(w io.Writer) error { return WritePlayersCSV(ds, w) })
}

func WriteTransfersCSV(values []internal.TransferValue, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "value"}); err != nil {
		return err
	}
	for _, v := range values {
		if err := cw.Write([]string{v.Name, strconv.FormatFloat(v.Value, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ExportTransfersCSV(values []internal.TransferValue, outputPath string) error {
	return writeFile(outputPath, func(w io.Writer) error { return WriteTransfersCSV(values, w) })
}

// ExportPlayersXLSX writes the dataset to one sheet. Numeric columns are
// stored as numbers; absent cells are left empty.
func ExportPlayersXLSX(ds *Dataset, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, key := range ds.Keys() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, key)
	}

	for c, col := range ds.Columns() {
		for r, v := range col.Values {
			if v.IsAbsent() {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, cellValue(v))
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, XSplit: 1, YSplit: 1, TopLeftCell: "B2", ActivePane: "bottomRight"}); err != nil {
		return errors.Wrap(err, "freeze header")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func cellValue(v internal.Value) any {
	if i, ok := v.Int(); ok {
		return i
	}
	if n, ok := v.Number(); ok {
		return n
	}
	return v.String()
}

func writeFile(outputPath string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "write %s", outputPath)
	}
	return f.Close()
}
