// Package catalog loads and holds the career dataset.
//
// A Catalog is populated once from a CSV table and never mutated afterwards,
// so it can be shared by concurrent readers without locking.
package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/careerpath/internal/domain/model"
)

// Column headers of the catalog table.
const (
	ColTitle           = "Career Title"
	ColIndustry        = "Industry"
	ColEntryLevel      = "Entry-Level Roles"
	ColMidLevel        = "Mid-Level Roles"
	ColSeniorLevel     = "Senior-Level Roles"
	ColExpectedSalary  = "Expected Salary (INR)"
	ColHiringCompanies = "Top Hiring Private Companies"
)

// requiredColumns lists every column Load insists on, in record field order.
var requiredColumns = []string{
	ColTitle,
	ColIndustry,
	ColEntryLevel,
	ColMidLevel,
	ColSeniorLevel,
	ColExpectedSalary,
	ColHiringCompanies,
}

const utf8BOM = "\uFEFF"

// Catalog is an immutable, ordered set of career records.
type Catalog struct {
	records []model.CareerRecord
	byTitle map[string]int // lower-cased title -> first position
}

// New builds a Catalog from already-parsed records. Titles must be non-empty.
func New(records []model.CareerRecord) (*Catalog, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: catalog has no records", model.ErrDataLoad)
	}
	c := &Catalog{
		records: make([]model.CareerRecord, len(records)),
		byTitle: make(map[string]int, len(records)),
	}
	copy(c.records, records)
	for i, r := range c.records {
		if strings.TrimSpace(r.Title) == "" {
			return nil, fmt.Errorf("%w: record %d has an empty title", model.ErrDataLoad, i+1)
		}
		key := titleKey(r.Title)
		if _, dup := c.byTitle[key]; !dup {
			c.byTitle[key] = i
		}
	}
	return c, nil
}

// Load parses a CSV table with a header row. Column order is free and extra
// columns are ignored, but every required column must be present.
func Load(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(skipBOM(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty source", model.ErrDataLoad)
		}
		return nil, fmt.Errorf("%w: read header: %w", model.ErrDataLoad, err)
	}

	positions, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var records []model.CareerRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrDataLoad, err)
		}
		if isBlankRow(row) {
			continue
		}
		get := func(col string) string {
			p := positions[col]
			if p >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[p])
		}
		records = append(records, model.CareerRecord{
			Title:            get(ColTitle),
			Industry:         get(ColIndustry),
			EntryLevelRoles:  get(ColEntryLevel),
			MidLevelRoles:    get(ColMidLevel),
			SeniorLevelRoles: get(ColSeniorLevel),
			ExpectedSalary:   get(ColExpectedSalary),
			HiringCompanies:  get(ColHiringCompanies),
		})
	}
	return New(records)
}

// skipBOM drops a leading UTF-8 byte order mark so the first header can be
// quoted.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && string(b) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// locateColumns maps each required column to its index in header. Matching is
// case-insensitive; the hiring-companies column also accepts a longer header
// such as "Top Hiring Private Companies in India".
func locateColumns(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, col := range requiredColumns {
			if _, seen := positions[col]; seen {
				continue
			}
			want := strings.ToLower(col)
			if h == want || (col == ColHiringCompanies && strings.HasPrefix(h, want)) {
				positions[col] = i
				break
			}
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := positions[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", model.ErrDataLoad, strings.Join(missing, ", "))
	}
	return positions, nil
}

func isBlankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func titleKey(title string) string {
	return strings.ToLower(title)
}

// All returns every record in catalog order. The slice is a copy.
func (c *Catalog) All() []model.CareerRecord {
	out := make([]model.CareerRecord, len(c.records))
	copy(out, c.records)
	return out
}

// FindByTitle returns the first record whose title equals title, ignoring
// case. When several rows share a title the earliest one wins.
func (c *Catalog) FindByTitle(title string) (model.CareerRecord, error) {
	i, ok := c.byTitle[titleKey(title)]
	if !ok {
		return model.CareerRecord{}, fmt.Errorf("%w: %q", model.ErrNotFound, title)
	}
	return c.records[i], nil
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}
