package repository

// Prefijos de numeración de documentos.
const (
	SequenceInvoice  = "INV"
	SequencePurchase = "PUR"
	SequenceReturn   = "RET"
)

// SequenceRepository genera consecutivos por prefijo de documento.
// Next debe ser monotónico y ejecutarse dentro de la transacción del caller
// para que un rollback no deje huecos visibles a medias.
type SequenceRepository interface {
	Next(prefix string) (int64, error)
}
