package export

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospector/internal/model"
)

// WriteCSV writes records as CSV with a header row.
func WriteCSV(w io.Writer, records []model.CompanyRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(recordHeaders); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, r := range records {
		if err := cw.Write(recordRow(r)); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}
