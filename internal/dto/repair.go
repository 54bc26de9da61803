package dto

type RepairReport struct {
	Scanned   int `json:"scanned"`
	Valid     int `json:"valid"`
	Corrected int `json:"corrected"`
	Removed   int `json:"removed"`
	Errored   int `json:"errored"`
}

// LineRepair records a line fixed while an order was being reconciled.
type LineRepair struct {
	LineID    uint
	ServiceID uint
	Previous  *int
	Corrected int
}
