// Package document renders certificate and invoice artifacts as xlsx
// workbooks.
package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/herbolab/submission-workflow/internal/domain/entity"
)

// Generator writes certificate and invoice workbooks
type Generator struct {
	labName    string
	labAddress string
	logger     *zap.Logger
}

// NewGenerator creates a document generator stamped with the lab identity
func NewGenerator(labName, labAddress string, logger *zap.Logger) *Generator {
	return &Generator{
		labName:    labName,
		labAddress: labAddress,
		logger:     logger,
	}
}

// GenerateCertificate writes the certificate of analysis for a submission
func (g *Generator) GenerateCertificate(ctx context.Context, sub *entity.Submission, documentNumber, outputPath string) error {
	g.logger.Info("Generating certificate",
		zap.Int64("submission_id", sub.ID),
		zap.String("document_number", documentNumber))

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	g.setCell(f, sheet, "A1", g.labName)
	g.setCell(f, sheet, "A2", g.labAddress)
	g.setCell(f, sheet, "A4", "CERTIFICATE OF ANALYSIS")
	g.setCell(f, sheet, "A5", documentNumber)

	g.setCell(f, sheet, "A7", "Case number")
	g.setCell(f, sheet, "B7", sub.CaseNumber)
	g.setCell(f, sheet, "A8", "Police officer")
	g.setCell(f, sheet, "B8", sub.PoliceOfficer)
	g.setCell(f, sheet, "A9", "Police station")
	g.setCell(f, sheet, "B9", sub.PoliceStation)
	g.setCell(f, sheet, "A10", "Received")
	g.setCell(f, sheet, "B10", sub.ReceivedAt.Format("2006-01-02"))

	g.setCell(f, sheet, "A12", "Lab no.")
	g.setCell(f, sheet, "B12", "Gross weight (g)")
	g.setCell(f, sheet, "C12", "Net weight (g)")
	g.setCell(f, sheet, "D12", "Determination")

	row := 13
	for _, bag := range sub.Bags {
		determination := entity.DeterminationPending
		if bag.Assessment != nil {
			determination = bag.Assessment.Determination
		}
		g.setCell(f, sheet, fmt.Sprintf("A%d", row), bag.LabNumber)
		g.setCell(f, sheet, fmt.Sprintf("B%d", row), bag.GrossWeightG)
		g.setCell(f, sheet, fmt.Sprintf("C%d", row), bag.NetWeightG)
		g.setCell(f, sheet, fmt.Sprintf("D%d", row), determination)
		row++
	}

	return g.save(f, outputPath)
}

// GenerateInvoice writes the invoice for a submission using the current
// pricing settings.
func (g *Generator) GenerateInvoice(ctx context.Context, sub *entity.Submission, settings *entity.SystemSettings, documentNumber, outputPath string) error {
	g.logger.Info("Generating invoice",
		zap.Int64("submission_id", sub.ID),
		zap.String("document_number", documentNumber))

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	bagCount := len(sub.Bags)
	analysisTotal := settings.AnalysisFeePerBag.Mul(decimal.NewFromInt(int64(bagCount)))

	g.setCell(f, sheet, "A1", g.labName)
	g.setCell(f, sheet, "A2", g.labAddress)
	g.setCell(f, sheet, "A4", "INVOICE")
	g.setCell(f, sheet, "A5", documentNumber)
	g.setCell(f, sheet, "A6", "Case "+sub.CaseNumber)
	g.setCell(f, sheet, "A7", "Billed to: "+sub.PoliceStation)

	g.setCell(f, sheet, "A9", "Item")
	g.setCell(f, sheet, "B9", "Qty")
	g.setCell(f, sheet, "C9", "Unit price")
	g.setCell(f, sheet, "D9", "Amount")

	g.setCell(f, sheet, "A10", "Botanical analysis (per bag)")
	g.setCell(f, sheet, "B10", bagCount)
	g.setCell(f, sheet, "C10", settings.AnalysisFeePerBag.StringFixed(2))
	g.setCell(f, sheet, "D10", analysisTotal.StringFixed(2))

	g.setCell(f, sheet, "A11", "Certificate of analysis")
	g.setCell(f, sheet, "B11", 1)
	g.setCell(f, sheet, "C11", settings.CertificateFee.StringFixed(2))
	g.setCell(f, sheet, "D11", settings.CertificateFee.StringFixed(2))

	g.setCell(f, sheet, "A13", "Total ("+settings.Currency+")")
	g.setCell(f, sheet, "D13", settings.TotalFor(bagCount).StringFixed(2))

	return g.save(f, outputPath)
}

// setCell sets a cell value, logging failures without aborting the fill
func (g *Generator) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		g.logger.Warn("Failed to set cell",
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func (g *Generator) save(f *excelize.File, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
