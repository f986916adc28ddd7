package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	"github.com/jhoicas/pos-ledger-api/internal/application/settings"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/infrastructure/memory"
)

func newSettingsUC() *settings.UseCase {
	return settings.NewUseCase(memory.NewStore().Settings())
}

func TestGet_SinConfiguracion_RetornaNotFound(t *testing.T) {
	uc := newSettingsUC()
	_, err := uc.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSave_CreaYActualiza(t *testing.T) {
	uc := newSettingsUC()

	created, err := uc.Save(context.Background(), dto.SettingsRequest{
		StoreName:       "Bodega Central",
		CurrencyCode:    "PEN",
		RoundingMode:    entity.RoundingNearest,
		IdleLockMinutes: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bodega Central", created.StoreName)
	assert.Equal(t, entity.RoundingNearest, created.RoundingMode)
	assert.False(t, created.AutoPrint)

	autoPrint := true
	updated, err := uc.Save(context.Background(), dto.SettingsRequest{
		StoreName:       "Bodega Central S.A.C.",
		CurrencyCode:    "PEN",
		RoundingMode:    entity.RoundingNone,
		IdleLockMinutes: 10,
		AutoPrint:       &autoPrint,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bodega Central S.A.C.", updated.StoreName)
	assert.Equal(t, entity.RoundingNone, updated.RoundingMode)
	assert.True(t, updated.AutoPrint)

	got, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bodega Central S.A.C.", got.StoreName)
}

// CUSTOM se puede guardar (queda reservado) aunque aplicarlo en venta falle.
func TestSave_ModoCustom_SePermiteGuardar(t *testing.T) {
	uc := newSettingsUC()

	saved, err := uc.Save(context.Background(), dto.SettingsRequest{
		StoreName:       "Bodega",
		CurrencyCode:    "PEN",
		RoundingMode:    entity.RoundingCustom,
		IdleLockMinutes: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoundingCustom, saved.RoundingMode)
}

func TestSave_Invalido_RetornaValidation(t *testing.T) {
	uc := newSettingsUC()

	cases := []struct {
		name string
		in   dto.SettingsRequest
	}{
		{"sin nombre", dto.SettingsRequest{CurrencyCode: "PEN", RoundingMode: entity.RoundingNone, IdleLockMinutes: 15}},
		{"sin moneda", dto.SettingsRequest{StoreName: "Bodega", RoundingMode: entity.RoundingNone, IdleLockMinutes: 15}},
		{"redondeo desconocido", dto.SettingsRequest{StoreName: "Bodega", CurrencyCode: "PEN", RoundingMode: "FLOOR", IdleLockMinutes: 15}},
		{"bloqueo no positivo", dto.SettingsRequest{StoreName: "Bodega", CurrencyCode: "PEN", RoundingMode: entity.RoundingNone, IdleLockMinutes: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Save(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
