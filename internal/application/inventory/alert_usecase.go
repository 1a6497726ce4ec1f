package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// AlertUseCase administra el umbral de stock bajo de cada ítem.
// El libro de stock activa Notified al cruzar el umbral; aquí solo lo cambia un operador.
type AlertUseCase struct {
	alertRepo repository.StockAlertRepository
	stockRepo repository.StockItemRepository
	log       zerolog.Logger
	now       func() time.Time
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(alertRepo repository.StockAlertRepository, stockRepo repository.StockItemRepository, log zerolog.Logger) *AlertUseCase {
	return &AlertUseCase{
		alertRepo: alertRepo,
		stockRepo: stockRepo,
		log:       log.With().Str("component", "stock_alerts").Logger(),
		now:       time.Now,
	}
}

// Create crea la alerta del ítem. Si la cantidad actual ya está en o bajo el umbral,
// la alerta nace notificada aunque el cliente envíe notified=false.
func (uc *AlertUseCase) Create(ctx context.Context, stockItemID string, threshold int64, notified *bool) (*entity.StockAlert, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: threshold debe ser no negativo", domain.ErrInvalidInput)
	}
	item, err := uc.stockRepo.GetByID(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: stock item %s", domain.ErrNotFound, stockItemID)
	}
	existing, err := uc.alertRepo.Get(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: alerta para %s", domain.ErrAlreadyExists, stockItemID)
	}

	now := uc.now()
	alert := &entity.StockAlert{
		StockItemID: stockItemID,
		Threshold:   threshold,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if notified != nil {
		alert.Notified = *notified
	}
	if alert.Crossed(item.Quantity) {
		alert.Notified = true
	}
	if err := uc.alertRepo.Create(ctx, alert); err != nil {
		return nil, err
	}
	if alert.Notified {
		uc.log.Warn().
			Str("stock_item_id", stockItemID).
			Int64("quantity", item.Quantity).
			Int64("threshold", threshold).
			Msg("alerta creada con el stock ya bajo el umbral")
	}
	return alert, nil
}

// Get obtiene la alerta del ítem (ErrNotFound si no existe).
func (uc *AlertUseCase) Get(ctx context.Context, stockItemID string) (*entity.StockAlert, error) {
	alert, err := uc.alertRepo.Get(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, fmt.Errorf("%w: alerta para %s", domain.ErrNotFound, stockItemID)
	}
	return alert, nil
}

// Update cambia umbral y/o bandera. No reevalúa el cruce: el siguiente movimiento lo hará.
func (uc *AlertUseCase) Update(ctx context.Context, stockItemID string, threshold *int64, notified *bool) (*entity.StockAlert, error) {
	if threshold != nil && *threshold < 0 {
		return nil, fmt.Errorf("%w: threshold debe ser no negativo", domain.ErrInvalidInput)
	}
	alert, err := uc.Get(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	if threshold != nil {
		alert.Threshold = *threshold
	}
	if notified != nil {
		alert.Notified = *notified
	}
	alert.UpdatedAt = uc.now()
	if err := uc.alertRepo.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// Delete elimina la alerta (ErrNotFound si no existía).
func (uc *AlertUseCase) Delete(ctx context.Context, stockItemID string) error {
	ok, err := uc.alertRepo.Delete(ctx, stockItemID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: alerta para %s", domain.ErrNotFound, stockItemID)
	}
	return nil
}

// ListTriggered lista las alertas con notified=true, para el notificador externo.
func (uc *AlertUseCase) ListTriggered(ctx context.Context, limit, offset int) ([]*entity.StockAlert, error) {
	return uc.alertRepo.ListNotified(ctx, limit, offset)
}
