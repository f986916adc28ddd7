package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo configuración de la tienda: tabla de fila única (id fijo 1).
type SettingsRepo struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

// Get devuelve la configuración o nil si la tienda aún no fue configurada.
func (r *SettingsRepo) Get() (*entity.Settings, error) {
	query := `
		SELECT store_name, currency_code, rounding_mode, idle_lock_minutes, auto_print, last_backup_at, created_at, updated_at
		FROM settings WHERE id = 1`
	var s entity.Settings
	err := r.pool.QueryRow(context.Background(), query).Scan(
		&s.StoreName, &s.CurrencyCode, &s.RoundingMode, &s.IdleLockMinutes,
		&s.AutoPrint, &s.LastBackupAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &s, nil
}

// Save crea o actualiza la fila única de configuración.
func (r *SettingsRepo) Save(settings *entity.Settings) error {
	query := `
		INSERT INTO settings (id, store_name, currency_code, rounding_mode, idle_lock_minutes, auto_print, last_backup_at, created_at, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id)
		DO UPDATE SET store_name = EXCLUDED.store_name, currency_code = EXCLUDED.currency_code,
			rounding_mode = EXCLUDED.rounding_mode, idle_lock_minutes = EXCLUDED.idle_lock_minutes,
			auto_print = EXCLUDED.auto_print, last_backup_at = EXCLUDED.last_backup_at,
			updated_at = EXCLUDED.updated_at`
	_, err := r.pool.Exec(context.Background(), query,
		settings.StoreName, settings.CurrencyCode, settings.RoundingMode,
		settings.IdleLockMinutes, settings.AutoPrint, settings.LastBackupAt,
		settings.CreatedAt, settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
