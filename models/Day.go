package models

import "time"

// Day statuses shown on the public calendar. The ledger speaks the same
// Spanish the admin UI does.
const (
	DayAvailable = "disponible"
	DayInquiry   = "consulta"
	DayReserved  = "reservado"
)

// Day is one cell of the availability ledger, keyed by ISO date (YYYY-MM-DD).
// Rows are created lazily on the first status change and never deleted; the
// table is a cached projection of the reservation set plus manual admin
// toggles.
type Day struct {
	Date      string    `json:"date" gorm:"primaryKey;size:10"`
	Status    string    `json:"status" gorm:"not null;default:'disponible';index"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ValidDayStatus(status string) bool {
	switch status {
	case DayAvailable, DayInquiry, DayReserved:
		return true
	}
	return false
}
