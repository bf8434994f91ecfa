// Package attendee keeps the reminder mailing list in an xlsx workbook so
// it can be edited by hand outside the program.
package attendee

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

const (
	// SheetName is the sheet created for a new workbook.
	SheetName = "Attendees"
	// Header is the first-row label of the email column.
	Header = "Email"
)

// ErrInvalidEmail indicates a blank or malformed address.
var ErrInvalidEmail = errors.New("invalid attendee email")

// Directory implements repository.AttendeeDirectory on an xlsx file.
type Directory struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewDirectory creates a Directory backed by path. The workbook is created
// on first use.
func NewDirectory(path string, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Directory{path: path, logger: logger}
}

// ListEmails returns the non-blank entries of the first column of the
// active sheet, skipping the header row.
func (d *Directory) ListEmails(_ context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensure(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("open attendees workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, fmt.Errorf("read attendees sheet: %w", err)
	}

	var emails []string
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if email := strings.TrimSpace(row[0]); email != "" {
			emails = append(emails, email)
		}
	}
	return emails, nil
}

// AddEmail appends email as a new row of the active sheet.
func (d *Directory) AddEmail(_ context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensure(); err != nil {
		return err
	}

	f, err := excelize.OpenFile(d.path)
	if err != nil {
		return fmt.Errorf("open attendees workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read attendees sheet: %w", err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("locate next row: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, email); err != nil {
		return fmt.Errorf("write attendee: %w", err)
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save attendees workbook: %w", err)
	}

	d.logger.Info("attendee added", "email", email, "path", d.path)
	return nil
}

// ensure creates the workbook with its header row when it does not exist.
func (d *Directory) ensure() error {
	if _, err := os.Stat(d.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat attendees workbook: %w", err)
	}

	if dir := filepath.Dir(d.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create attendees dir: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("name attendees sheet: %w", err)
	}
	if err := f.SetCellValue(SheetName, "A1", Header); err != nil {
		return fmt.Errorf("write attendees header: %w", err)
	}
	if err := f.SaveAs(d.path); err != nil {
		return fmt.Errorf("create attendees workbook: %w", err)
	}

	d.logger.Info("attendees workbook created", "path", d.path)
	return nil
}
