package dto

import "github.com/shopspring/decimal"

// CreateProductRequest alta de producto en catálogo. InitialStock distinto de
// cero genera un movimiento OPENING_BALANCE en el ledger.
type CreateProductRequest struct {
	Name          string           `json:"name"`
	Barcode       string           `json:"barcode,omitempty"`
	CategoryID    string           `json:"category_id,omitempty"`
	Unit          string           `json:"unit,omitempty"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	CostPrice     *decimal.Decimal `json:"cost_price,omitempty"`
	InitialStock  *decimal.Decimal `json:"initial_stock,omitempty"`
	MinStockAlert *decimal.Decimal `json:"min_stock_alert,omitempty"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

// UpdateProductRequest edición parcial de producto. El stock no se edita por
// aquí: solo cambia vía movimientos del ledger.
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Barcode       *string          `json:"barcode,omitempty"`
	CategoryID    *string          `json:"category_id,omitempty"`
	Unit          *string          `json:"unit,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	CostPrice     *decimal.Decimal `json:"cost_price,omitempty"`
	MinStockAlert *decimal.Decimal `json:"min_stock_alert,omitempty"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	Unit          string          `json:"unit,omitempty"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	StockQty      decimal.Decimal `json:"stock_qty"`
	MinStockAlert decimal.Decimal `json:"min_stock_alert"`
	MaxDiscount   decimal.Decimal `json:"max_discount"`
	IsActive      bool            `json:"is_active"`
}

// SettingsRequest configuración de la tienda.
type SettingsRequest struct {
	StoreName       string `json:"store_name"`
	CurrencyCode    string `json:"currency_code"`
	RoundingMode    string `json:"rounding_mode"`
	IdleLockMinutes int    `json:"idle_lock_minutes"`
	AutoPrint       *bool  `json:"auto_print,omitempty"`
}

// SettingsResponse configuración vigente.
type SettingsResponse struct {
	StoreName       string `json:"store_name"`
	CurrencyCode    string `json:"currency_code"`
	RoundingMode    string `json:"rounding_mode"`
	IdleLockMinutes int    `json:"idle_lock_minutes"`
	AutoPrint       bool   `json:"auto_print"`
	LastBackupAt    string `json:"last_backup_at,omitempty"`
}
