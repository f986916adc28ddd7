package repository

import "context"

// Atomic agrupa los repositorios atados a una misma transacción. Es el
// unit-of-work que reciben los casos de uso: todo lo escrito a través de
// estos repos se confirma o revierte junto.
type Atomic struct {
	Products  ProductRepository
	Movements StockMovementRepository
	Invoices  InvoiceRepository
	Purchases PurchaseRepository
	Returns   SalesReturnRepository
	Sequences SequenceRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil,
// Rollback completo en caso contrario. Ningún paso intermedio queda visible
// fuera de la transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx *Atomic) error) error
}
