package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SystemSettings holds the lab's pricing configuration used by finance cost
// calculations and invoice generation. Fetched from the settings endpoint
// and cached by the settings service.
type SystemSettings struct {
	AnalysisFeePerBag decimal.Decimal `json:"analysis_fee_per_bag"`
	CertificateFee    decimal.Decimal `json:"certificate_fee"`
	Currency          string          `json:"currency"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TotalFor computes the charge for a submission with the given bag count:
// per-bag analysis fees plus the flat certificate fee.
func (s SystemSettings) TotalFor(bagCount int) decimal.Decimal {
	return s.AnalysisFeePerBag.Mul(decimal.NewFromInt(int64(bagCount))).Add(s.CertificateFee)
}
