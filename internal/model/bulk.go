package model

// BulkStatus is the typed outcome of a bulk-purchase comparison. Unit
// problems are reported here, not as errors.
type BulkStatus string

// Bulk analysis outcomes.
const (
	BulkOK              BulkStatus = "ok"
	BulkUnitMismatch    BulkStatus = "unit_mismatch"
	BulkUnknownUnit     BulkStatus = "unknown_unit"
	BulkInvalidQuantity BulkStatus = "invalid_quantity"
)

// PackOffer is one purchase option: a pack size, its unit, and its price.
type PackOffer struct {
	Unit           string
	NormalizedUnit string
	Quantity       float64
	NormalizedQty  float64
	PackPrice      float64
	UnitPrice      float64 // per normalized unit; 0 until compared
}

// BulkAnalysis compares a standard single purchase against a bulk pack.
// Numeric fields are meaningful only when Status is BulkOK.
type BulkAnalysis struct {
	ItemName                string
	Status                  BulkStatus
	Single                  PackOffer
	Bulk                    PackOffer
	SavingsPercent          float64 // bulk vs single unit price
	MonthlyConsumption      float64 // normalized units, 0 when history is too thin
	ProjectedMonthlySavings float64
	RecommendBulk           bool
}
