package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DType is the reported name of a column type (int64, float64, bool, object)
type DType string

const (
	DTypeInt    DType = "int64"
	DTypeFloat  DType = "float64"
	DTypeBool   DType = "bool"
	DTypeObject DType = "object"
)

// IsNumeric reports whether columns of this dtype can be plotted
func (t DType) IsNumeric() bool {
	return t == DTypeInt || t == DTypeFloat
}

func dtypeOf(t series.Type) DType {
	switch t {
	case series.Int:
		return DTypeInt
	case series.Float:
		return DTypeFloat
	case series.Bool:
		return DTypeBool
	default:
		return DTypeObject
	}
}

// ColumnType pairs a column with its dtype
type ColumnType struct {
	Column string `json:"column"`
	DType  DType  `json:"dtype"`
}

// ColumnCount pairs a column with a count of cells
type ColumnCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// MissingReport lists the columns that contain missing cells
type MissingReport struct {
	Columns []ColumnCount `json:"columns"`
	Total   int           `json:"total"`
}

// Preview is the head of a table rendered as display strings
type Preview struct {
	Columns []string   `json:"columns"`
	Index   []int      `json:"index"`
	Rows    [][]string `json:"rows"`
}

// Dataset is an uploaded table plus its source metadata
type Dataset struct {
	name     string
	size     int64
	loadedAt time.Time
	frame    dataframe.DataFrame
	index    []int
}

// New wraps a DataFrame and settles column types the way the dtype report
// expects them: integer columns holding missing cells become float64, columns
// with no present cell become float64, and text columns of True/False
// spellings become bool.
func New(name string, size int64, frame dataframe.DataFrame) (*Dataset, error) {
	if err := frame.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	index := make([]int, frame.Nrow())
	for i := range index {
		index[i] = i
	}

	d := &Dataset{
		name:     name,
		size:     size,
		loadedAt: time.Now(),
		frame:    frame,
		index:    index,
	}
	return d.normalizeTypes()
}

func (d *Dataset) normalizeTypes() (*Dataset, error) {
	frame := d.frame
	for _, name := range frame.Names() {
		col := frame.Col(name)
		switch {
		case col.Type() == series.Int && col.HasNaN():
			frame = frame.Mutate(series.New(col.Float(), series.Float, name))
		case col.Type() == series.String && allMissing(col):
			frame = frame.Mutate(series.New(col.Float(), series.Float, name))
		case col.Type() == series.String:
			if values, ok := boolValues(col); ok {
				frame = frame.Mutate(series.New(values, series.Bool, name))
			}
		}
	}
	if err := frame.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return d.derive(frame, d.index), nil
}

func allMissing(col series.Series) bool {
	if col.Len() == 0 {
		return false
	}
	for _, na := range col.IsNaN() {
		if !na {
			return false
		}
	}
	return true
}

// boolValues parses a column whose every cell is true or false in any
// letter case. Any missing cell keeps the column object.
func boolValues(col series.Series) ([]bool, bool) {
	if col.Len() == 0 {
		return nil, false
	}
	values := make([]bool, col.Len())
	for i := range values {
		e := col.Elem(i)
		if e.IsNA() {
			return nil, false
		}
		switch strings.ToLower(strings.TrimSpace(e.String())) {
		case "true":
			values[i] = true
		case "false":
		default:
			return nil, false
		}
	}
	return values, true
}

// derive returns a copy of d holding frame and index
func (d *Dataset) derive(frame dataframe.DataFrame, index []int) *Dataset {
	return &Dataset{
		name:     d.name,
		size:     d.size,
		loadedAt: d.loadedAt,
		frame:    frame,
		index:    index,
	}
}

// Name returns the uploaded file name
func (d *Dataset) Name() string { return d.name }

// Size returns the uploaded file size in bytes
func (d *Dataset) Size() int64 { return d.size }

// LoadedAt returns the time the file was parsed
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// Frame returns the underlying DataFrame
func (d *Dataset) Frame() dataframe.DataFrame { return d.frame }

// Index returns the row labels of the original upload
func (d *Dataset) Index() []int {
	out := make([]int, len(d.index))
	copy(out, d.index)
	return out
}

// Shape returns (rows, columns)
func (d *Dataset) Shape() (int, int) {
	if d.frame.Ncol() == 0 {
		return 0, 0
	}
	return d.frame.Nrow(), d.frame.Ncol()
}

// Columns returns the column names in file order
func (d *Dataset) Columns() []string {
	return d.frame.Names()
}

// HasColumn reports whether the named column exists
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.frame.Names() {
		if c == name {
			return true
		}
	}
	return false
}

// DTypes returns each column's dtype in file order
func (d *Dataset) DTypes() []ColumnType {
	names := d.frame.Names()
	types := d.frame.Types()
	out := make([]ColumnType, len(names))
	for i, name := range names {
		out[i] = ColumnType{Column: name, DType: dtypeOf(types[i])}
	}
	return out
}

// DType returns the dtype of one column
func (d *Dataset) DType(column string) (DType, error) {
	if !d.HasColumn(column) {
		return "", fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}
	return dtypeOf(d.frame.Col(column).Type()), nil
}

// NumericColumns returns the int64 and float64 columns in file order
func (d *Dataset) NumericColumns() []string {
	var out []string
	for _, ct := range d.DTypes() {
		if ct.DType.IsNumeric() {
			out = append(out, ct.Column)
		}
	}
	return out
}

// Float returns a numeric column as float64 values, NaN marking missing cells
func (d *Dataset) Float(column string) ([]float64, error) {
	dtype, err := d.DType(column)
	if err != nil {
		return nil, err
	}
	if !dtype.IsNumeric() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotNumeric, column, dtype)
	}
	return d.frame.Col(column).Float(), nil
}

// MissingValues counts missing cells per column. Only columns with at least
// one missing cell are listed.
func (d *Dataset) MissingValues() MissingReport {
	var report MissingReport
	for _, name := range d.frame.Names() {
		n := 0
		for _, na := range d.frame.Col(name).IsNaN() {
			if na {
				n++
			}
		}
		if n > 0 {
			report.Columns = append(report.Columns, ColumnCount{Column: name, Count: n})
			report.Total += n
		}
	}
	return report
}

// HasMissing reports whether any cell is missing
func (d *Dataset) HasMissing() bool {
	return d.MissingValues().Total > 0
}

// Head returns the first n rows as display strings
func (d *Dataset) Head(n int) Preview {
	rows, _ := d.Shape()
	if n > rows {
		n = rows
	}
	if n < 0 {
		n = 0
	}

	names := d.frame.Names()
	preview := Preview{
		Columns: names,
		Index:   append([]int(nil), d.index[:n]...),
		Rows:    make([][]string, n),
	}
	cols := make([]series.Series, len(names))
	for j, name := range names {
		cols[j] = d.frame.Col(name)
	}
	for i := 0; i < n; i++ {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = FormatCell(col.Elem(i))
		}
		preview.Rows[i] = row
	}
	return preview
}

// Records returns the header followed by every row as display strings
func (d *Dataset) Records() [][]string {
	rows, _ := d.Shape()
	preview := d.Head(rows)
	return append([][]string{preview.Columns}, preview.Rows...)
}

// FormatCell renders an element the way the preview shows it. Floats use the
// shortest representation that round-trips.
func FormatCell(e series.Element) string {
	if e.IsNA() {
		return "NaN"
	}
	if e.Type() == series.Float {
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	}
	return e.String()
}
