package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

// AdjustmentInput entrada para una corrección manual de stock
// (daño, pérdida, conteo de inventario).
type AdjustmentInput struct {
	UserID    string
	ProductID string
	QtyChange decimal.Decimal // signo libre; cero se rechaza
	Reason    string
}

// AdjustStock registra un único movimiento ADJUSTMENT en su propia
// transacción. El ajuste puede dejar el saldo negativo: documenta una
// realidad física (faltante), no una venta.
func (e *Engine) AdjustStock(ctx context.Context, input AdjustmentInput) error {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return domain.Validationf("el motivo del ajuste es obligatorio")
	}
	if input.QtyChange.IsZero() {
		return domain.Validationf("el cambio de cantidad no puede ser cero")
	}

	return e.txRunner.Run(ctx, func(tx *repository.Atomic) error {
		_, err := e.ApplyBatch(tx, []MovementRequest{{
			Type:          entity.MovementTypeADJUSTMENT,
			ProductID:     input.ProductID,
			QtyChange:     input.QtyChange,
			ReferenceType: entity.ReferenceTypeADJUSTMENT,
			UserID:        input.UserID,
			Notes:         reason,
		}}, time.Now().UTC())
		return err
	})
}
