package domain

// OrderLine is a persisted service line of an order. Historical rows may
// carry NULL references or quantities, hence the pointers.
type OrderLine struct {
	ID        uint
	OrderID   *uint
	ServiceID *uint
	Quantity  *int
}

// LineItem is a requested (service, quantity) pair.
type LineItem struct {
	ServiceID uint
	Quantity  int
}

// LineOutcome tags how a persisted line was treated when inspected.
type LineOutcome string

const (
	LineValid     LineOutcome = "VALID"
	LineCorrected LineOutcome = "CORRECTED"
	LineRemoved   LineOutcome = "REMOVED"
)

// RepairedQuantity replaces NULL or non-positive historical quantities.
const RepairedQuantity = 1

// Classify inspects a persisted line without touching storage.
func (l OrderLine) Classify() LineOutcome {
	if l.OrderID == nil || l.ServiceID == nil {
		return LineRemoved
	}
	if l.Quantity == nil || *l.Quantity <= 0 {
		return LineCorrected
	}
	return LineValid
}
