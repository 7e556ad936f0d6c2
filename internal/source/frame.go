package source

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"
)

// frame reads typed, nullable cells out of an all-string dataframe.
// Column lookup ignores case. Missing columns and unparsable cells read
// as NULL.
type frame struct {
	df    dataframe.DataFrame
	names map[string]string
}

func newFrame(df dataframe.DataFrame) *frame {
	names := make(map[string]string, df.Ncol())
	for _, n := range df.Names() {
		names[strings.ToLower(strings.TrimSpace(n))] = n
	}
	return &frame{df: df, names: names}
}

func (f *frame) Nrow() int {
	return f.df.Nrow()
}

func (f *frame) raw(col string, row int) (string, bool) {
	name, ok := f.names[col]
	if !ok {
		return "", false
	}
	el := f.df.Col(name).Elem(row)
	if el.IsNA() {
		return "", false
	}
	return strings.TrimSpace(el.String()), true
}

func (f *frame) String(col string, row int) sql.NullString {
	s, ok := f.raw(col, row)
	if !ok {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func (f *frame) Int(col string, row int) sql.NullInt64 {
	s, ok := f.raw(col, row)
	if !ok {
		return sql.NullInt64{}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

func (f *frame) Decimal(col string, row int) decimal.NullDecimal {
	s, ok := f.raw(col, row)
	if !ok {
		return decimal.NullDecimal{}
	}
	d, err := ParseDecimal(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func (f *frame) Time(col string, row int) sql.NullTime {
	s, ok := f.raw(col, row)
	if !ok {
		return sql.NullTime{}
	}
	t, ok := ParseTime(s)
	if !ok {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

var timeLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime accepts dd/mm/yyyy and ISO dates, with or without a time part.
// Values without an offset are read in the local zone.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDecimal accepts "1.234,56" as well as "1234.56".
func ParseDecimal(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}
	return decimal.NewFromString(clean)
}
