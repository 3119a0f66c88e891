// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tabular

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/filepilot/pkg/apperr"
	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"
)

// 📄 Supported table formats by extension.
const (
	extCSV  = ".csv"
	extXLSX = ".xlsx"
)

// 🔍 SupportedExtension reports whether path has a loadable table extension.
func SupportedExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extCSV, extXLSX:
		return true
	}
	return false
}

// 📥 LoadFile reads a CSV or XLSX file into a Document. The first row is the
// header; there is no index column.
func LoadFile(ctx context.Context, path string) (*Document, error) {
	logger := zerolog.Ctx(ctx)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case extCSV:
		doc, err := loadCSV(path)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("path", path).Int("rows", doc.NumRows()).Msg("loaded csv")
		return doc, nil
	case extXLSX:
		doc, err := loadXLSX(path)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("path", path).Int("rows", doc.NumRows()).Msg("loaded xlsx")
		return doc, nil
	default:
		return nil, errors.Errorf("%w: unsupported file type %q, only .csv and .xlsx are supported", apperr.ErrInput, ext)
	}
}

// 📤 SaveFile writes the Document back in the format implied by the path's
// extension: CSV as comma-separated values, XLSX as a single sheet. No index
// column in either case.
func SaveFile(ctx context.Context, doc *Document, path string) error {
	logger := zerolog.Ctx(ctx)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case extCSV:
		if err := saveCSV(doc, path); err != nil {
			return err
		}
	case extXLSX:
		if err := saveXLSX(doc, path); err != nil {
			return err
		}
	default:
		return errors.Errorf("%w: unsupported file type %q, only .csv and .xlsx are supported", apperr.ErrInput, ext)
	}

	logger.Debug().Str("path", path).Int("rows", doc.NumRows()).Msg("saved table")
	return nil
}

func loadCSV(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("%w: opening %s: %w", apperr.ErrIO, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows, New pads them

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Errorf("%w: parsing %s: %w", apperr.ErrIO, path, err)
	}
	if len(records) == 0 {
		return New(nil, nil), nil
	}
	return New(records[0], records[1:]), nil
}

func saveCSV(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf("%w: creating %s: %w", apperr.ErrIO, path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(doc.columns); err != nil {
		return errors.Errorf("%w: writing header: %w", apperr.ErrIO, err)
	}
	for _, row := range doc.rows {
		if err := w.Write(row); err != nil {
			return errors.Errorf("%w: writing row: %w", apperr.ErrIO, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Errorf("%w: flushing %s: %w", apperr.ErrIO, path, err)
	}
	return nil
}

func loadXLSX(path string) (*Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Errorf("%w: opening %s: %w", apperr.ErrIO, path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return New(nil, nil), nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Errorf("%w: reading sheet %s: %w", apperr.ErrIO, sheets[0], err)
	}
	if len(rows) == 0 {
		return New(nil, nil), nil
	}
	return New(rows[0], rows[1:]), nil
}

func saveXLSX(doc *Document, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := writeSheetRow(f, sheet, 1, doc.columns); err != nil {
		return err
	}
	for i, row := range doc.rows {
		if err := writeSheetRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Errorf("%w: saving %s: %w", apperr.ErrIO, path, err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Errorf("%w: computing cell name: %w", apperr.ErrIO, err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return errors.Errorf("%w: writing row %d: %w", apperr.ErrIO, row, err)
	}
	return nil
}
