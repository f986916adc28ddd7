package repository

import "github.com/jhoicas/pos-ledger-api/internal/domain/entity"

// SettingsRepository define el puerto para la configuración de la tienda (fila única).
type SettingsRepository interface {
	// Get devuelve nil si la tienda aún no fue configurada.
	Get() (*entity.Settings, error)
	Save(settings *entity.Settings) error
}
