package engine

import (
	"bufio"
	"cyberdash/internal/models"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/csv"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

// Rows per Arrow record batch while parsing.
const chunkRows = 4096

// Arrow types of the required columns; anything else in the header is read
// as a string.
var columnTypes = map[string]arrow.DataType{
	ColCountry:        arrow.BinaryTypes.String,
	ColYear:           arrow.PrimitiveTypes.Int64,
	ColAttackType:     arrow.BinaryTypes.String,
	ColTargetIndustry: arrow.BinaryTypes.String,
	ColFinancialLoss:  arrow.PrimitiveTypes.Float64,
	ColAffectedUsers:  arrow.PrimitiveTypes.Int64,
	ColAttackSource:   arrow.BinaryTypes.String,
	ColVulnerability:  arrow.BinaryTypes.String,
	ColDefense:        arrow.BinaryTypes.String,
	ColResolutionTime: arrow.PrimitiveTypes.Float64,
}

// LoadColumnar reads the delimited file at path into a ColumnStore.
// A missing file yields ErrNotFound; anything that stops the file from being
// read as a table yields ErrParse. Missing required columns are not an error
// here: see Validate.
func LoadColumnar(path string) (*ColumnStore, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	return ReadColumnar(f)
}

// ReadColumnar parses CSV content with a header row. The Arrow schema is
// built from the header up front: required columns get their pinned types and
// every other column is read as a string, so extra columns never fail a load
// and a header-only file yields an empty store.
func ReadColumnar(r io.Reader) (*ColumnStore, error) {
	br := bufio.NewReader(r)
	names, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	rdr := csv.NewReader(br, headerSchema(names),
		csv.WithHeader(false),
		csv.WithChunk(chunkRows),
		csv.WithAllocator(memory.NewGoAllocator()),
		csv.WithNullReader(true, ""),
	)
	defer rdr.Release()

	cs := newColumnStore(names)
	for rdr.Next() {
		if err := cs.appendRecord(rdr.Record()); err != nil {
			return nil, err
		}
	}
	if err := rdr.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return cs, nil
}

// readHeader consumes the first line of br and splits it into column names.
func readHeader(br *bufio.Reader) ([]string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	line = strings.TrimPrefix(line, "\ufeff")
	if strings.TrimSpace(line) == "" {
		return nil, fmt.Errorf("%w: no header row", ErrParse)
	}

	names, err := stdcsv.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrParse, err)
	}
	return names, nil
}

func headerSchema(names []string) *arrow.Schema {
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		typ, ok := columnTypes[name]
		if !ok {
			typ = arrow.BinaryTypes.String
		}
		fields[i] = arrow.Field{Name: name, Type: typ, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// appendRecord copies one Arrow batch into the flat columns.
func (cs *ColumnStore) appendRecord(rec arrow.Record) error {
	schema := rec.Schema()
	column := func(name string) arrow.Array {
		idx := schema.FieldIndices(name)
		if len(idx) == 0 {
			return nil
		}
		return rec.Column(idx[0])
	}

	// A. Categorical columns (dictionary encoded)
	for d := Dimension(0); d < numDimensions; d++ {
		col := column(d.Column())
		if col == nil {
			continue
		}
		arr, ok := col.(*array.String)
		if !ok {
			return typeError(d.Column(), col)
		}
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				return nullError(d.Column(), cs.rows+i)
			}
			cs.dims[d].add(arr.Value(i))
		}
	}

	// B. Numeric columns
	if col := column(ColYear); col != nil {
		years, err := numericColumn[int64](col, ColYear, cs.rows)
		if err != nil {
			return err
		}
		for i, y := range years {
			if y > math.MaxInt32 {
				return fmt.Errorf("%w: column %q record %d: year %d out of range", ErrParse, ColYear, cs.rows+i+1, y)
			}
			cs.Years = append(cs.Years, int32(y))
		}
	}
	if col := column(ColFinancialLoss); col != nil {
		losses, err := numericColumn[float64](col, ColFinancialLoss, cs.rows)
		if err != nil {
			return err
		}
		cs.Losses = append(cs.Losses, losses...)
	}
	if col := column(ColAffectedUsers); col != nil {
		users, err := numericColumn[int64](col, ColAffectedUsers, cs.rows)
		if err != nil {
			return err
		}
		cs.AffectedUsers = append(cs.AffectedUsers, users...)
	}
	if col := column(ColResolutionTime); col != nil {
		hours, err := numericColumn[float64](col, ColResolutionTime, cs.rows)
		if err != nil {
			return err
		}
		cs.ResolutionHours = append(cs.ResolutionHours, hours...)
	}

	cs.rows += int(rec.NumRows())
	return nil
}

func numericColumn[T int64 | float64](col arrow.Array, name string, firstRow int) ([]T, error) {
	arr, ok := col.(interface{ Value(int) T })
	if !ok {
		return nil, typeError(name, col)
	}
	out := make([]T, col.Len())
	for i := range out {
		if col.IsNull(i) {
			return nil, nullError(name, firstRow+i)
		}
		v := arr.Value(i)
		if v < 0 {
			return nil, fmt.Errorf("%w: column %q record %d: negative value %v", ErrParse, name, firstRow+i+1, v)
		}
		out[i] = v
	}
	return out, nil
}

func typeError(name string, col arrow.Array) error {
	return fmt.Errorf("%w: column %q read as %s", ErrParse, name, col.DataType())
}

func nullError(name string, row int) error {
	return fmt.Errorf("%w: column %q record %d: empty value", ErrParse, name, row+1)
}

// Validate reports whether every required column is present. A nil store is
// not valid.
func Validate(cs *ColumnStore) bool {
	return cs != nil && len(cs.Missing(RequiredColumns...)) == 0
}

// Describe summarises the table: size, header, year range and the sorted
// distinct countries and attack types.
func Describe(cs *ColumnStore) (models.DatasetInfo, error) {
	if err := cs.require(ColYear, ColCountry, ColAttackType); err != nil {
		return models.DatasetInfo{}, err
	}

	info := models.DatasetInfo{
		TotalRecords: cs.Len(),
		Columns:      append([]string(nil), cs.Columns...),
		Countries:    sortedValues(cs.Dim(Country)),
		AttackTypes:  sortedValues(cs.Dim(AttackType)),
	}
	for i, y := range cs.Years {
		if i == 0 || int(y) < info.DateRange.Min {
			info.DateRange.Min = int(y)
		}
		if i == 0 || int(y) > info.DateRange.Max {
			info.DateRange.Max = int(y)
		}
	}
	return info, nil
}

func sortedValues(d *Dictionary) []string {
	out := append([]string{}, d.Values...)
	sort.Strings(out)
	return out
}
