package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/ordering"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

// Permisos usados como destinatarios de las notificaciones.
const (
	permissionViewOrders   = "VER_PEDIDOS"
	permissionDesignStatus = "CAMBIAR_ESTADO_DISENO"
)

// OrderUseCase casos de uso de pedidos y líneas de diseño.
type OrderUseCase struct {
	txRunner  repository.TxRunner
	sequencer *Sequencer
	ledger    *Ledger
	recalc    Recalculator
	machine   *StateMachine
	cloner    *Cloner
	notifier  Notifier
	log       zerolog.Logger
	now       func() time.Time
}

// NewOrderUseCase construye el caso de uso. itemPolicy y orderPolicy deciden las transiciones
// de líneas y pedidos respectivamente.
func NewOrderUseCase(txRunner repository.TxRunner, itemPolicy, orderPolicy StatusPolicy, notifier Notifier, log zerolog.Logger) *OrderUseCase {
	ledger := NewLedger(nil)
	return &OrderUseCase{
		txRunner:  txRunner,
		sequencer: NewSequencer(log),
		ledger:    ledger,
		machine:   NewStateMachine(itemPolicy, orderPolicy, ledger),
		cloner:    NewCloner(ledger),
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

type createPlan struct {
	kind     string
	currency string
	typ      string
	items    []*ItemDraft
}

func validateCreate(in dto.CreateOrderRequest) (*createPlan, error) {
	p := &createPlan{kind: in.Kind, currency: in.Currency, typ: in.Type}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.Validation("name", "el nombre es requerido")
	}
	if p.kind == "" {
		p.kind = entity.OrderKindNuevo
	}
	if !ordering.IsKind(p.kind) {
		return nil, domain.Validation("kind", "tipo de pedido desconocido").With("kind", p.kind)
	}
	source := strings.TrimSpace(in.SourceOrderCode)
	if ordering.IsDerivedKind(p.kind) && source == "" {
		return nil, domain.Validation("source_order_code", "el pedido de origen es requerido").With("kind", p.kind)
	}
	if !ordering.IsDerivedKind(p.kind) && source != "" {
		return nil, domain.Validation("source_order_code", "solo los pedidos COMPLETACION o REFERENTE tienen pedido de origen")
	}
	if p.kind == entity.OrderKindCompletacion && len(in.Items) > 0 {
		return nil, domain.Validation("items", "un pedido de completación solo copia las líneas de su origen").
			With("kind", p.kind).
			With("items", len(in.Items))
	}
	if strings.TrimSpace(in.ClientID) == "" {
		return nil, domain.Validation("client_id", "el cliente es requerido")
	}
	if err := ordering.ValidateDiscount("discount", in.Discount); err != nil {
		return nil, err
	}
	if in.ShippingFee.LessThan(decimal.Zero) {
		return nil, domain.Validation("shipping_fee", "el flete no puede ser negativo")
	}
	if p.currency == "" {
		p.currency = entity.CurrencyCOP
	}
	if p.currency != entity.CurrencyCOP && p.currency != entity.CurrencyUSD {
		return nil, domain.Validation("currency", "moneda no soportada").With("currency", p.currency)
	}
	if p.typ == "" {
		p.typ = ordering.OrderTypeForCurrency(p.currency)
	}
	if p.typ != entity.OrderTypeNacional && p.typ != entity.OrderTypeInternacional {
		return nil, domain.Validation("type", "tipo monetario desconocido").With("type", p.typ)
	}
	for i, it := range in.Items {
		d, err := draftFromInput(ordering.ItemPath(i), it)
		if err != nil {
			return nil, err
		}
		p.items = append(p.items, d)
	}
	return p, nil
}

// Create crea el pedido con código secuencial, su fila inicial de historial y sus líneas.
// Para COMPLETACION y REFERENTE clona primero las líneas del pedido de origen.
func (uc *OrderUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	plan, err := validateCreate(in)
	if err != nil {
		return nil, err
	}

	var out *dto.OrderResponse
	var box Outbox
	err = uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		client, err := tx.Clients().GetByID(ctx, in.ClientID)
		if err != nil {
			return fmt.Errorf("leer cliente: %w", err)
		}
		if client == nil {
			return domain.NotFound("cliente", in.ClientID)
		}

		now := uc.now().UTC()
		order := &entity.Order{
			ID:          uuid.New().String(),
			Name:        strings.TrimSpace(in.Name),
			Kind:        plan.kind,
			ClientID:    in.ClientID,
			Type:        plan.typ,
			Status:      entity.OrderStatusPendiente,
			Discount:    in.Discount,
			ShippingFee: in.ShippingFee,
			Currency:    plan.currency,
			IvaEnabled:  in.IvaEnabled,
			Total:       decimal.Zero,
			CreatedBy:   actor.UserID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		var source *entity.Order
		if ordering.IsDerivedKind(plan.kind) {
			code := strings.TrimSpace(in.SourceOrderCode)
			source, err = tx.Orders().GetByCode(ctx, code)
			if err != nil {
				return fmt.Errorf("leer pedido de origen: %w", err)
			}
			if source == nil {
				return domain.NotFound("pedido_origen", code)
			}
			order.SourceOrderID = &source.ID
		}

		if _, err := uc.sequencer.Insert(ctx, tx, ordering.OrderFamily(order.Type), tx.Orders().ListCodesByPrefix, func(code string) error {
			order.OrderCode = code
			return tx.Orders().Create(ctx, order)
		}); err != nil {
			return err
		}
		if err := uc.ledger.RecordOrder(ctx, tx, order.ID, order.Status, actor); err != nil {
			return fmt.Errorf("historial de pedido: %w", err)
		}

		if source != nil {
			n, err := uc.cloner.Clone(ctx, tx, actor, source.ID, order)
			if err != nil {
				return err
			}
			uc.log.Debug().Str("order_code", order.OrderCode).Str("source", source.OrderCode).Int("items", n).Msg("líneas clonadas")
		}
		for _, d := range plan.items {
			if err := WriteItem(ctx, tx, uc.ledger, actor, order.ID, d); err != nil {
				return err
			}
		}
		if err := uc.recalc.Recalculate(ctx, tx, order.ID); err != nil {
			return err
		}

		out, err = LoadOrderView(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		box.Add(entity.Notification{
			Event:      entity.EventOrderCreated,
			Permission: permissionViewOrders,
			Title:      "Pedido creado",
			Message:    fmt.Sprintf("Se creó el pedido %s", order.OrderCode),
			Href:       "/orders/" + order.ID,
			Meta:       map[string]string{"order_code": order.OrderCode, "kind": order.Kind},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.Flush(ctx, uc.notifier, uc.log)
	uc.log.Info().Str("order_code", out.OrderCode).Str("kind", out.Kind).Str("user_id", actor.UserID).Msg("pedido creado")
	return out, nil
}

// Get devuelve el pedido con sus líneas.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	var out *dto.OrderResponse
	err := uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		var err error
		out, err = LoadOrderView(ctx, tx, id)
		return err
	})
	return out, err
}

// List lista pedidos sin líneas, más recientes primero. Page.Total cuenta todos los pedidos.
func (uc *OrderUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	out := &dto.OrderListResponse{Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	err := uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		list, err := tx.Orders().List(ctx, page.Limit, page.Offset)
		if err != nil {
			return fmt.Errorf("listar pedidos: %w", err)
		}
		out.Items = make([]dto.OrderResponse, 0, len(list))
		for _, o := range list {
			out.Items = append(out.Items, *ToOrderResponse(o))
		}
		out.Page.Total, err = tx.Orders().Count(ctx)
		if err != nil {
			return fmt.Errorf("contar pedidos: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update modifica la cabecera. Un cambio de descuento recalcula el total; el código nunca cambia.
func (uc *OrderUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Validation("name", "el nombre no puede quedar vacío")
	}
	if in.Discount != nil {
		if err := ordering.ValidateDiscount("discount", *in.Discount); err != nil {
			return nil, err
		}
	}
	if in.ShippingFee != nil && in.ShippingFee.LessThan(decimal.Zero) {
		return nil, domain.Validation("shipping_fee", "el flete no puede ser negativo")
	}
	if in.Currency != nil && *in.Currency != entity.CurrencyCOP && *in.Currency != entity.CurrencyUSD {
		return nil, domain.Validation("currency", "moneda no soportada").With("currency", *in.Currency)
	}

	var out *dto.OrderResponse
	err := uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("leer pedido: %w", err)
		}
		if order == nil {
			return domain.NotFound("pedido", id)
		}
		if in.Name != nil {
			order.Name = strings.TrimSpace(*in.Name)
		}
		if in.ClientID != nil && *in.ClientID != order.ClientID {
			client, err := tx.Clients().GetByID(ctx, *in.ClientID)
			if err != nil {
				return fmt.Errorf("leer cliente: %w", err)
			}
			if client == nil {
				return domain.NotFound("cliente", *in.ClientID)
			}
			order.ClientID = *in.ClientID
		}
		if in.Discount != nil {
			order.Discount = *in.Discount
		}
		if in.ShippingFee != nil {
			order.ShippingFee = *in.ShippingFee
		}
		if in.Currency != nil {
			order.Currency = *in.Currency
		}
		if in.IvaEnabled != nil {
			order.IvaEnabled = *in.IvaEnabled
		}
		order.UpdatedAt = uc.now().UTC()
		if err := tx.Orders().Update(ctx, order); err != nil {
			return fmt.Errorf("actualizar pedido: %w", err)
		}
		if err := uc.recalc.Recalculate(ctx, tx, order.ID); err != nil {
			return err
		}
		out, err = LoadOrderView(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_code", out.OrderCode).Str("user_id", actor.UserID).Msg("pedido actualizado")
	return out, nil
}

// ChangeStatus cambia el estado del pedido según la tabla de transiciones de pedidos.
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, actor entity.Actor, id, next string) (*dto.OrderResponse, error) {
	var out *dto.OrderResponse
	var box Outbox
	err := uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("leer pedido: %w", err)
		}
		if order == nil {
			return domain.NotFound("pedido", id)
		}
		from := order.Status
		changed, err := uc.machine.ChangeOrderStatus(ctx, tx, actor, order, next)
		if err != nil {
			return err
		}
		if changed {
			box.Add(entity.Notification{
				Event:      entity.EventOrderStatusChanged,
				Permission: permissionViewOrders,
				Title:      "Estado de pedido",
				Message:    fmt.Sprintf("El pedido %s pasó de %s a %s", order.OrderCode, from, next),
				Href:       "/orders/" + order.ID,
				Meta:       map[string]string{"order_code": order.OrderCode, "from": from, "to": next},
			})
		}
		out, err = LoadOrderView(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	box.Flush(ctx, uc.notifier, uc.log)
	return out, nil
}

// Delete borra el pedido con sus líneas, sub-registros e historial.
func (uc *OrderUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	var code string
	err := uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("leer pedido: %w", err)
		}
		if order == nil {
			return domain.NotFound("pedido", id)
		}
		code = order.OrderCode
		return deleteOrderCascade(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("order_code", code).Str("user_id", actor.UserID).Msg("pedido eliminado")
	return nil
}

// History historial de estados del pedido en orden cronológico.
func (uc *OrderUseCase) History(ctx context.Context, id string) ([]dto.StatusHistoryResponse, error) {
	var out []dto.StatusHistoryResponse
	err := uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("leer pedido: %w", err)
		}
		if order == nil {
			return domain.NotFound("pedido", id)
		}
		rows, err := tx.History().ListByOrder(ctx, id)
		if err != nil {
			return fmt.Errorf("leer historial: %w", err)
		}
		out = toHistoryResponse(rows)
		return nil
	})
	return out, err
}
