package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypePURCHASE       = "PURCHASE"        // entrada por compra a proveedor
	MovementTypeSALE           = "SALE"            // salida por venta (cantidad negativa)
	MovementTypeSALESRETURN    = "SALES_RETURN"    // entrada por devolución de venta
	MovementTypeADJUSTMENT     = "ADJUSTMENT"      // corrección manual (signo libre)
	MovementTypeOPENINGBALANCE = "OPENING_BALANCE" // saldo inicial al crear el producto
)

// Tipo del documento que originó un movimiento.
const (
	ReferenceTypeINVOICE     = "INVOICE"
	ReferenceTypePURCHASE    = "PURCHASE"
	ReferenceTypeSALESRETURN = "SALES_RETURN"
	ReferenceTypeADJUSTMENT  = "ADJUSTMENT"
)

// StockMovement es un registro inmutable del ledger de stock: cambio de
// cantidad con signo y el saldo del producto resultante de aplicarlo.
// Append-only; nunca se edita ni se borra.
type StockMovement struct {
	ID            string
	Datetime      time.Time
	Type          string
	ProductID     string
	QtyChange     decimal.Decimal // negativo en SALE, positivo en PURCHASE/SALES_RETURN
	NewBalance    decimal.Decimal
	ReferenceType string // vacío = sin documento de referencia
	ReferenceID   string // vacío = sin documento (ej. ADJUSTMENT manual)
	UserID        string
	Notes         string
	CreatedAt     time.Time
}

// ValidMovementType indica si el tipo pertenece al conjunto soportado.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypePURCHASE, MovementTypeSALE, MovementTypeSALESRETURN,
		MovementTypeADJUSTMENT, MovementTypeOPENINGBALANCE:
		return true
	}
	return false
}
