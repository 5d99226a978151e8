package ingest

// MaxReportedErrors bounds Report.Errors. ErrorCount keeps counting past it.
const MaxReportedErrors = 200

const (
	msgDuplicate = "duplicate (already exists)"
	msgDBError   = "db error: "
)

// RowError explains why one item was skipped. Row is the 1-based item
// position for JSON and the record number for CSV, counting the header as 1.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Report summarizes an import. Created+Skipped equals the number of items
// processed.
type Report struct {
	Created    int        `json:"created"`
	Skipped    int        `json:"skipped"`
	Errors     []RowError `json:"errors"`
	ErrorCount int        `json:"error_count"`
}

func newReport() Report {
	return Report{Errors: []RowError{}}
}

func (r *Report) created() {
	r.Created++
}

func (r *Report) skip(row int, msg string) {
	r.Skipped++
	r.ErrorCount++
	if len(r.Errors) < MaxReportedErrors {
		r.Errors = append(r.Errors, RowError{Row: row, Error: msg})
	}
}
