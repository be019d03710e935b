package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospector/internal/model"
)

// WriteXLSX writes records to an XLSX workbook at the given path, one sheet
// with a header row.
func WriteXLSX(path string, records []model.CompanyRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Companies")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, h := range recordHeaders {
		header.AddCell().SetString(h)
	}

	for _, r := range records {
		row := sheet.AddRow()
		for _, v := range recordRow(r) {
			row.AddCell().SetString(v)
		}
	}

	return eris.Wrap(f.Save(path), "export: save xlsx")
}
