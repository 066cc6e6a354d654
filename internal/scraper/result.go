package scraper

// ResultSet accumulates vacancies for one run. It only grows: records are
// appended in enumeration order and never removed or replaced.
type ResultSet struct {
	source  string
	columns []string
	records []Vacancy
}

// NewResultSet creates an empty set. columns fixes the header; when empty the
// header is derived from the records themselves.
func NewResultSet(source string, columns ...string) *ResultSet {
	return &ResultSet{
		source:  source,
		columns: append([]string(nil), columns...),
	}
}

func (r *ResultSet) Source() string {
	return r.source
}

func (r *ResultSet) Append(vacancies ...Vacancy) {
	r.records = append(r.records, vacancies...)
}

func (r *ResultSet) Len() int {
	return len(r.records)
}

// Records returns a copy of the accumulated slice.
func (r *ResultSet) Records() []Vacancy {
	out := make([]Vacancy, len(r.records))
	copy(out, r.records)
	return out
}

// Header returns the fixed columns, or the union of record field names in
// first-seen order.
func (r *ResultSet) Header() []string {
	if len(r.columns) > 0 {
		return append([]string(nil), r.columns...)
	}

	seen := make(map[string]bool)
	var header []string
	for _, rec := range r.records {
		for _, f := range rec {
			if !seen[f.Name] {
				seen[f.Name] = true
				header = append(header, f.Name)
			}
		}
	}
	return header
}

// Rows renders every record against the header, filling absent cells with
// sentinel.
func (r *ResultSet) Rows(sentinel string) [][]string {
	header := r.Header()
	rows := make([][]string, 0, len(r.records))
	for _, rec := range r.records {
		row := make([]string, len(header))
		for i, name := range header {
			if v, ok := rec.Get(name); ok {
				row[i] = v
			} else {
				row[i] = sentinel
			}
		}
		rows = append(rows, row)
	}
	return rows
}
