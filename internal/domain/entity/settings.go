package entity

import "time"

// Modos de redondeo del total de la factura.
const (
	RoundingNone    = "NONE"    // sin redondeo
	RoundingNearest = "NEAREST" // al entero más cercano
	RoundingCustom  = "CUSTOM"  // reservado; aplicarlo es un error explícito
)

// Settings es la configuración de la tienda (fila única).
type Settings struct {
	StoreName       string
	CurrencyCode    string
	RoundingMode    string
	IdleLockMinutes int
	AutoPrint       bool
	LastBackupAt    *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidRoundingMode indica si el modo pertenece al conjunto configurable.
func ValidRoundingMode(mode string) bool {
	switch mode {
	case RoundingNone, RoundingNearest, RoundingCustom:
		return true
	}
	return false
}
