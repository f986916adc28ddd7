// Package settings gestiona la configuración de la tienda (fila única):
// nombre, moneda, modo de redondeo, bloqueo por inactividad y auto-impresión.
package settings

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

// UseCase lee y guarda la configuración de la tienda.
type UseCase struct {
	repo repository.SettingsRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.SettingsRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Get devuelve la configuración vigente o NotFound si aún no existe.
func (uc *UseCase) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	s, err := uc.repo.Get()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFoundf("configuración de la tienda")
	}
	return toResponse(s), nil
}

// Save crea o actualiza la configuración. El modo CUSTOM se puede guardar
// (queda reservado) pero aplicarlo en una venta falla explícitamente.
func (uc *UseCase) Save(ctx context.Context, in dto.SettingsRequest) (*dto.SettingsResponse, error) {
	if strings.TrimSpace(in.StoreName) == "" {
		return nil, domain.Validationf("el nombre de la tienda es obligatorio")
	}
	if strings.TrimSpace(in.CurrencyCode) == "" {
		return nil, domain.Validationf("el código de moneda es obligatorio")
	}
	if !entity.ValidRoundingMode(in.RoundingMode) {
		return nil, domain.Validationf("modo de redondeo desconocido: %s", in.RoundingMode)
	}
	if in.IdleLockMinutes <= 0 {
		return nil, domain.Validationf("los minutos de bloqueo deben ser positivos")
	}

	now := time.Now().UTC()
	existing, err := uc.repo.Get()
	if err != nil {
		return nil, err
	}

	s := existing
	if s == nil {
		s = &entity.Settings{CreatedAt: now}
	}
	s.StoreName = strings.TrimSpace(in.StoreName)
	s.CurrencyCode = strings.TrimSpace(in.CurrencyCode)
	s.RoundingMode = in.RoundingMode
	s.IdleLockMinutes = in.IdleLockMinutes
	if in.AutoPrint != nil {
		s.AutoPrint = *in.AutoPrint
	}
	s.UpdatedAt = now

	if err := uc.repo.Save(s); err != nil {
		return nil, err
	}
	return toResponse(s), nil
}

func toResponse(s *entity.Settings) *dto.SettingsResponse {
	resp := &dto.SettingsResponse{
		StoreName:       s.StoreName,
		CurrencyCode:    s.CurrencyCode,
		RoundingMode:    s.RoundingMode,
		IdleLockMinutes: s.IdleLockMinutes,
		AutoPrint:       s.AutoPrint,
	}
	if s.LastBackupAt != nil {
		resp.LastBackupAt = s.LastBackupAt.UTC().Format(time.RFC3339)
	}
	return resp
}
