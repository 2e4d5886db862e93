package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Reader yields sheet names and full cell grids from an xlsx workbook.
// Ingestion consumes it as a plain 2-D string grid; all structural
// inference happens downstream.
type Reader interface {
	SheetNames() []string
	Grid(sheet string) ([][]string, error)
	Close() error
}

// Writer mutates a workbook grid and serializes it back out, used by the
// export side of the system.
type Writer interface {
	AddSheet(name string) error
	SetCell(sheet, cell string, value interface{}) error
	SetRow(sheet string, row int, values []interface{}) error
	WriteTo(w io.Writer) (int64, error)
	Close() error
}

type workbook struct {
	file *excelize.File
}

// Open reads a workbook from an io.Reader (an uploaded file).
func Open(r io.Reader) (Reader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &workbook{file: f}, nil
}

// OpenFile reads a workbook from disk.
func OpenFile(path string) (Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &workbook{file: f}, nil
}

// New creates an empty workbook for writing.
func New() Writer {
	return &workbook{file: excelize.NewFile()}
}

func (w *workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

func (w *workbook) Grid(sheet string) ([][]string, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func (w *workbook) AddSheet(name string) error {
	_, err := w.file.NewSheet(name)
	return err
}

func (w *workbook) SetCell(sheet, cell string, value interface{}) error {
	return w.file.SetCellValue(sheet, cell, value)
}

// SetRow writes an entire row at once; row is 1-indexed.
func (w *workbook) SetRow(sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return w.file.SetSheetRow(sheet, cell, &values)
}

func (w *workbook) WriteTo(out io.Writer) (int64, error) {
	return w.file.WriteTo(out)
}

func (w *workbook) Close() error {
	return w.file.Close()
}
