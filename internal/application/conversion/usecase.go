// Package conversion convierte una cotización aprobada en prefactura y pedido.
// La operación es idempotente por cotización: llamadas repetidas devuelven el mismo par.
package conversion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
	"github.com/Stiven2023/vio-app-sub001/internal/application/orders"
	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/ordering"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

const permissionApprovePrefactura = "APROBAR_PREFACTURA"

// UseCase pipeline cotización -> prefactura -> pedido.
type UseCase struct {
	txRunner  repository.TxRunner
	sequencer *orders.Sequencer
	ledger    *orders.Ledger
	recalc    orders.Recalculator
	notifier  orders.Notifier
	log       zerolog.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso de conversión.
func NewUseCase(txRunner repository.TxRunner, notifier orders.Notifier, log zerolog.Logger) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		sequencer: orders.NewSequencer(log),
		ledger:    orders.NewLedger(nil),
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

// Convert crea (o reutiliza) la prefactura y el pedido de quotationID.
// Si ya existe el par solo aplica el renombre opcional; los códigos nunca se vuelven a asignar.
func (uc *UseCase) Convert(ctx context.Context, actor entity.Actor, quotationID string, in dto.ConvertQuotationRequest) (*dto.ConversionResponse, error) {
	name := strings.TrimSpace(in.OrderName)
	var out *dto.ConversionResponse
	var box orders.Outbox

	err := uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		q, err := tx.Quotations().GetByID(ctx, quotationID)
		if err != nil {
			return fmt.Errorf("leer cotización: %w", err)
		}
		if q == nil {
			return domain.NotFound("cotizacion", quotationID)
		}

		pre, err := tx.Prefacturas().GetByQuotationID(ctx, q.ID)
		if err != nil {
			return fmt.Errorf("leer prefactura: %w", err)
		}
		var order *entity.Order
		reused := false
		if pre != nil && pre.OrderID != nil {
			order, err = tx.Orders().GetByID(ctx, *pre.OrderID)
			if err != nil {
				return fmt.Errorf("leer pedido: %w", err)
			}
		}

		switch {
		case order != nil:
			reused = true
			if name != "" && name != order.Name {
				order.Name = name
				order.UpdatedAt = uc.now().UTC()
				if err := tx.Orders().Update(ctx, order); err != nil {
					return fmt.Errorf("renombrar pedido: %w", err)
				}
			}
		default:
			if err := validateQuotation(q); err != nil {
				return err
			}
			if pre == nil {
				if pre, err = uc.createPrefactura(ctx, tx, actor, q); err != nil {
					return err
				}
			}
			if name == "" {
				name = q.QuotationCode
			}
			if order, err = uc.createOrder(ctx, tx, actor, q, name); err != nil {
				return err
			}
			if err := tx.Prefacturas().LinkOrder(ctx, pre.ID, &order.ID); err != nil {
				return fmt.Errorf("vincular prefactura: %w", err)
			}
			pre.OrderID = &order.ID
			box.Add(entity.Notification{
				Event:      entity.EventQuotationConverted,
				Permission: permissionApprovePrefactura,
				Title:      "Prefactura pendiente",
				Message:    fmt.Sprintf("La cotización %s generó la prefactura %s y el pedido %s", q.QuotationCode, pre.PrefacturaCode, order.OrderCode),
				Href:       "/prefacturas/" + pre.ID,
				Meta: map[string]string{
					"quotation_code":  q.QuotationCode,
					"prefactura_code": pre.PrefacturaCode,
					"order_code":      order.OrderCode,
				},
			})
		}

		if err := tx.Quotations().MarkReopened(ctx, q.ID); err != nil {
			return fmt.Errorf("reabrir cotización: %w", err)
		}
		view, err := orders.LoadOrderView(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		out = &dto.ConversionResponse{Prefactura: toPrefacturaResponse(pre), Order: *view, Reused: reused}
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.Flush(ctx, uc.notifier, uc.log)
	uc.log.Info().
		Str("quotation_id", quotationID).
		Str("prefactura_code", out.Prefactura.PrefacturaCode).
		Str("order_code", out.Order.OrderCode).
		Bool("reused", out.Reused).
		Msg("cotización convertida")
	return out, nil
}

func validateQuotation(q *entity.Quotation) error {
	for i, it := range q.Items {
		field := fmt.Sprintf("quotation.items[%d]", i)
		if it.Quantity <= 0 {
			return domain.Validation(field+".quantity", "la cantidad debe ser un entero positivo").With("quotation_code", q.QuotationCode)
		}
		if it.UnitPrice.IsNegative() {
			return domain.Validation(field+".unit_price", "el precio unitario no puede ser negativo").With("quotation_code", q.QuotationCode)
		}
		if err := ordering.ValidateDiscount(field+".discount", it.Discount); err != nil {
			return err
		}
	}
	return nil
}

func (uc *UseCase) createPrefactura(ctx context.Context, tx repository.Store, actor entity.Actor, q *entity.Quotation) (*entity.Prefactura, error) {
	now := uc.now().UTC()
	pre := &entity.Prefactura{
		ID:            uuid.New().String(),
		QuotationID:   q.ID,
		Status:        entity.PrefacturaStatusPendienteContabilidad,
		TotalProducts: q.TotalProducts,
		Subtotal:      q.Subtotal,
		Total:         q.Total,
		ApprovedAt:    &now,
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	_, err := uc.sequencer.Insert(ctx, tx, ordering.FamilyPrefactura, tx.Prefacturas().ListCodesByPrefix, func(code string) error {
		pre.PrefacturaCode = code
		return tx.Prefacturas().Create(ctx, pre)
	})
	if err != nil {
		if _, ok := domain.AsRejection(err); !ok && errors.Is(err, domain.ErrConflict) {
			return nil, domain.Conflict("la cotización ya tiene una prefactura").With("quotation_code", q.QuotationCode)
		}
		return nil, err
	}
	return pre, nil
}

func (uc *UseCase) createOrder(ctx context.Context, tx repository.Store, actor entity.Actor, q *entity.Quotation, name string) (*entity.Order, error) {
	now := uc.now().UTC()
	currency := q.Currency
	if currency == "" {
		currency = entity.CurrencyCOP
	}
	order := &entity.Order{
		ID:          uuid.New().String(),
		Name:        name,
		Kind:        entity.OrderKindNuevo,
		ClientID:    q.ClientID,
		Type:        ordering.OrderTypeForCurrency(currency),
		Status:      entity.OrderStatusPendiente,
		Discount:    decimal.Zero,
		ShippingFee: q.ShippingFee,
		Currency:    currency,
		IvaEnabled:  q.IvaEnabled,
		Total:       decimal.Zero,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := uc.sequencer.Insert(ctx, tx, ordering.OrderFamily(order.Type), tx.Orders().ListCodesByPrefix, func(code string) error {
		order.OrderCode = code
		return tx.Orders().Create(ctx, order)
	}); err != nil {
		return nil, err
	}
	if err := uc.ledger.RecordOrder(ctx, tx, order.ID, order.Status, actor); err != nil {
		return nil, fmt.Errorf("historial de pedido: %w", err)
	}

	for _, qi := range q.Items {
		line := ordering.DiscountedLineTotal(qi.UnitPrice, qi.Quantity, qi.Discount)
		d := &orders.ItemDraft{Item: &entity.OrderItem{
			ProductID:    qi.ProductID,
			Name:         qi.Name,
			Quantity:     qi.Quantity,
			UnitPrice:    qi.UnitPrice,
			TotalPrice:   &line,
			Status:       entity.ItemStatusPendiente,
			IsActive:     true,
			Fabric:       qi.Fabric,
			Color:        qi.Color,
			Process:      qi.Process,
			ImageURL:     qi.ImageURL,
			Observations: qi.Notes,
			Evidence:     additionNames(qi.Additions),
		}}
		if err := orders.WriteItem(ctx, tx, uc.ledger, actor, order.ID, d); err != nil {
			return nil, err
		}
		if err := uc.writeAdditions(ctx, tx, actor, order, d.Item, qi.Additions); err != nil {
			return nil, err
		}
	}
	if err := uc.recalc.Recalculate(ctx, tx, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

// writeAdditions guarda las adiciones como filas hijas de la línea. Si la tabla no existe
// las registra como líneas hermanas marcadas IsAddition con precio cero.
func (uc *UseCase) writeAdditions(ctx context.Context, tx repository.Store, actor entity.Actor, order *entity.Order, parent *entity.OrderItem, additions []entity.QuotationItemAddition) error {
	if len(additions) == 0 {
		return nil
	}
	err := tx.Savepoint(ctx, func() error {
		for _, a := range additions {
			row := &entity.OrderItemAddition{
				ID:          uuid.New().String(),
				OrderItemID: parent.ID,
				Name:        a.Name,
				Quantity:    additionQuantity(a, parent),
			}
			if err := tx.Items().CreateAddition(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrSchemaMissing) {
		return fmt.Errorf("crear adiciones: %w", err)
	}

	uc.log.Warn().Str("order_code", order.OrderCode).Msg("tabla de adiciones inexistente, se registran como líneas")
	zero := decimal.Zero
	for _, a := range additions {
		d := &orders.ItemDraft{Item: &entity.OrderItem{
			Name:       a.Name,
			Quantity:   additionQuantity(a, parent),
			UnitPrice:  decimal.Zero,
			TotalPrice: &zero,
			Status:     entity.ItemStatusPendiente,
			IsActive:   true,
			IsAddition: true,
			Evidence:   parent.Name,
		}}
		if err := orders.WriteItem(ctx, tx, uc.ledger, actor, order.ID, d); err != nil {
			return err
		}
	}
	return nil
}

func additionQuantity(a entity.QuotationItemAddition, parent *entity.OrderItem) int {
	if a.Quantity > 0 {
		return a.Quantity
	}
	return parent.Quantity
}

func additionNames(additions []entity.QuotationItemAddition) string {
	names := make([]string, 0, len(additions))
	for _, a := range additions {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func toPrefacturaResponse(p *entity.Prefactura) dto.PrefacturaResponse {
	return dto.PrefacturaResponse{
		ID:             p.ID,
		PrefacturaCode: p.PrefacturaCode,
		QuotationID:    p.QuotationID,
		OrderID:        p.OrderID,
		Status:         p.Status,
		TotalProducts:  p.TotalProducts,
		Subtotal:       p.Subtotal,
		Total:          p.Total,
		ApprovedAt:     p.ApprovedAt,
	}
}
