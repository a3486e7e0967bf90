package roster

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// templateHeaders is every column the loader understands, in the order the
// template presents them.
var templateHeaders = []interface{}{
	colEmployeeID, colFullName, colJoinDate, "Department", "Sub Department",
	"Designation", "Payment Mode", "Bank", "Bank IFSC", "Bank Account",
	"PAN", "UAN", "PF Number", colEmail, "Annual CTC",
	"Basic", "HRA", "Medical Allowance", "Transport Allowance",
	"Special Allowance", "Professional Allowance", "Performance Pay",
	"Courier Reimb", colWorkingDays, colPayableDays,
	"Professional Tax", "Performance Bonus", "Performance Bonus Recovery", "PF",
}

var templateSampleRow = []interface{}{
	"AA001", "Arun Kumar", "27-08-2025", "Design", "N/A",
	"Graphic Designer", "Bank Transfer", "ICICI Bank", "ICIC0000001", "9xx0100XXXXXXX",
	"XXXXKXXXXX", "N/A", "MOH/001/0001", "arun@example.com", 578400.00,
	23500.00, 11750.00, 4700.00, 1600.00,
	3100.00, 1175.00, 1175.00,
	1200.00, 20, 19,
	200.00, 1000.00, 0.0, 500.00,
}

// EnsureWorkbook creates a template workbook with the expected headers and
// one sample row when none exists, so an operator has something to fill in.
// An existing file is left untouched.
func EnsureWorkbook(path string, logger *zap.Logger) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	logger.Info("Employee workbook not found, creating template", zap.String("path", path))

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &templateHeaders); err != nil {
		return fmt.Errorf("failed to write template header: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A2", &templateSampleRow); err != nil {
		return fmt.Errorf("failed to write template sample row: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save template workbook: %w", err)
	}

	logger.Info("Template created, fill in employee rows before the next run",
		zap.String("path", path))
	return nil
}
