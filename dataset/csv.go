package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
)

// missingToken reports whether a raw CSV field denotes a missing value.
// Empty fields, "NA" and "." are all treated as missing, matching the
// conventions of the tabular files this package is fed from.
func missingToken(s string) bool {
	return s == "" || s == "NA" || s == "."
}

// FromCSV reads a dataset from CSV data with a header row.  A column is
// numeric when every non-missing field parses as a float; otherwise it is
// categorical.
func FromCSV(r io.Reader) (*Dataset, error) {

	cr := csv.NewReader(r)
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "dataset: reading CSV")
	}
	if len(recs) < 2 {
		return nil, errors.New("dataset: CSV has no data rows")
	}

	header := recs[0]
	rows := recs[1:]

	ds := New()
	for j, name := range header {

		numeric := true
		for _, rec := range rows {
			if missingToken(rec[j]) {
				continue
			}
			if _, err := strconv.ParseFloat(rec[j], 64); err != nil {
				numeric = false
				break
			}
		}

		if numeric {
			vals := make([]float64, len(rows))
			for i, rec := range rows {
				if missingToken(rec[j]) {
					vals[i] = math.NaN()
					continue
				}
				vals[i], _ = strconv.ParseFloat(rec[j], 64)
			}
			if err := ds.AddNumeric(name, vals); err != nil {
				return nil, err
			}
		} else {
			vals := make([]string, len(rows))
			for i, rec := range rows {
				if missingToken(rec[j]) {
					continue
				}
				vals[i] = rec[j]
			}
			if err := ds.AddCategorical(name, vals); err != nil {
				return nil, err
			}
		}
	}

	return ds, nil
}
