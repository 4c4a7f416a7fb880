package tool

import (
	"context"
	"time"

	"github.com/sawtai/sawt/internal/catalog"
	"github.com/sawtai/sawt/internal/domain"
	"github.com/sawtai/sawt/internal/hours"
	"github.com/sawtai/sawt/internal/store"
	"github.com/sawtai/sawt/internal/textutil"
)

// CalculateTotalArgs is the argument shape for calculate_total.
type CalculateTotalArgs struct {
	PromoCode string `json:"promo_code,omitempty" jsonschema:"description=كود الخصم إن وجد"`
}

// CalculateTotal computes subtotal, delivery fee, discount, and total
// without writing to the database; a promo code that validates is recorded
// on the session as AppliedPromoCode. Grounded on original_source's
// calculate_order_total and PromoRepository.validate_promo (spec.md
// §4.4, §8.6, §8.8).
type CalculateTotal struct {
	Promo              *catalog.PromoRepository
	DeliveryFeeHalalas int64
}

func (t *CalculateTotal) Name() string          { return "calculate_total" }
func (t *CalculateTotal) Description() string   { return "يحسب المجموع النهائي للطلب متضمناً رسوم التوصيل وأي خصم" }
func (t *CalculateTotal) Schema() map[string]any { return schemaFor[CalculateTotalArgs]() }

func (t *CalculateTotal) Execute(ctx context.Context, session *domain.Session, raw map[string]any) (Result, error) {
	args, err := decodeArgs[CalculateTotalArgs](raw)
	if err != nil {
		return Result{}, err
	}

	subtotal := session.Cart.Subtotal()
	var deliveryFee int64
	if session.OrderType == domain.OrderTypeDelivery {
		deliveryFee = t.DeliveryFeeHalalas
	}

	var discount int64
	promoCode := args.PromoCode
	if promoCode == "" {
		promoCode = session.AppliedPromoCode
	}
	if promoCode != "" {
		validation, err := t.Promo.ValidatePromo(ctx, promoCode, subtotal, time.Now())
		if err != nil {
			return Result{}, err
		}
		if validation.Reason != catalog.PromoOK {
			return Result{OK: false, Message: promoRejectionMessage(validation.Reason), Data: map[string]any{
				"subtotal_halalas": subtotal, "delivery_fee_halalas": deliveryFee,
			}}, nil
		}
		discount = validation.DiscountHalalas
		session.AppliedPromoCode = promoCode
	}

	total := subtotal + deliveryFee - discount
	if total < 0 {
		total = 0
	}

	return Result{OK: true, Data: map[string]any{
		"subtotal_halalas":     subtotal,
		"delivery_fee_halalas": deliveryFee,
		"discount_halalas":     discount,
		"total_halalas":        total,
	}}, nil
}

func promoRejectionMessage(reason catalog.PromoReason) string {
	switch reason {
	case catalog.PromoNotFound:
		return "كود الخصم غير صحيح"
	case catalog.PromoInactive:
		return "كود الخصم غير فعال حالياً"
	case catalog.PromoExpired:
		return "انتهت صلاحية كود الخصم"
	case catalog.PromoNotYetValid:
		return "كود الخصم غير فعال بعد"
	case catalog.PromoUsageExhausted:
		return "تم استنفاد عدد مرات استخدام كود الخصم"
	case catalog.PromoBelowMinOrder:
		return "قيمة الطلب أقل من الحد الأدنى المطلوب لاستخدام هذا الكود"
	default:
		return "تعذر تطبيق كود الخصم"
	}
}

// ConfirmOrderArgs is the argument shape for confirm_order.
type ConfirmOrderArgs struct {
	CustomerName  string `json:"customer_name" jsonschema:"required,description=اسم العميل"`
	CustomerPhone string `json:"customer_phone" jsonschema:"required,description=رقم جوال العميل"`
}

// ConfirmOrder validates the final preconditions (open hours, non-empty
// cart, valid contact details, complete address if delivery) and writes
// the order atomically via internal/store.OrderStore (spec.md §4.4, §4.9,
// §8.5, §8.9).
type ConfirmOrder struct {
	Orders             *store.OrderStore
	Promo              *catalog.PromoRepository
	Hours              hours.Gate
	DeliveryFeeHalalas int64
}

func (t *ConfirmOrder) Name() string          { return "confirm_order" }
func (t *ConfirmOrder) Description() string   { return "يؤكد الطلب ويحفظه بشكل نهائي" }
func (t *ConfirmOrder) Schema() map[string]any { return schemaFor[ConfirmOrderArgs]() }

func (t *ConfirmOrder) Execute(ctx context.Context, session *domain.Session, raw map[string]any) (Result, error) {
	args, err := decodeArgs[ConfirmOrderArgs](raw)
	if err != nil {
		return Result{}, err
	}

	now := time.Now()
	if !t.Hours.IsOpen(now) {
		return Result{OK: false, Message: "عذراً، المطعم مغلق حالياً. سيفتح " + t.Hours.NextOpeningDescriptionAr()}, nil
	}
	if len(session.Cart) == 0 {
		return Result{OK: false, Message: "السلة فارغة، الرجاء إضافة صنف واحد على الأقل"}, nil
	}

	name, nameErr := textutil.ValidateCustomerName(args.CustomerName)
	if nameErr != "" {
		return Result{OK: false, Message: nameErr}, nil
	}
	phone, phoneErr := textutil.ValidateSaudiPhone(args.CustomerPhone)
	if phoneErr != "" {
		return Result{OK: false, Message: phoneErr}, nil
	}

	if session.OrderType == domain.OrderTypeDelivery && !session.Location.Complete() {
		return Result{OK: false, Message: "يرجى إكمال بيانات عنوان التوصيل أولاً"}, nil
	}
	if session.OrderType == "" {
		return Result{OK: false, Message: "يرجى تحديد نوع الطلب (توصيل أو استلام) أولاً"}, nil
	}

	subtotal := session.Cart.Subtotal()
	var deliveryFee int64
	if session.OrderType == domain.OrderTypeDelivery {
		deliveryFee = t.DeliveryFeeHalalas
	}

	var discount int64
	var promoCodeID *int64
	if session.AppliedPromoCode != "" {
		validation, err := t.Promo.ValidatePromo(ctx, session.AppliedPromoCode, subtotal, now)
		if err != nil {
			return Result{}, err
		}
		if validation.Reason == catalog.PromoOK {
			discount = validation.DiscountHalalas
			id := validation.Promo.ID
			promoCodeID = &id
		}
	}

	total := subtotal + deliveryFee - discount
	if total < 0 {
		total = 0
	}

	order, err := t.Orders.CreateOrder(ctx, store.CreateOrderParams{
		SessionID:     session.ID,
		CustomerName:  name,
		CustomerPhone: phone,
		OrderType:     session.OrderType,
		DeliveryArea:  session.Location.AreaID,
		Subtotal:      subtotal,
		DeliveryFee:   deliveryFee,
		Discount:      discount,
		Total:         total,
		PromoCodeID:   promoCodeID,
		Items:         session.Cart,
	})
	if err != nil {
		return Result{}, err
	}

	session.CustomerName = name
	session.CustomerPhone = phone

	return Result{OK: true, Message: "تم تأكيد طلبك بنجاح", Data: map[string]any{
		"order_number":  order.OrderNumber(),
		"total_halalas": order.Total,
	}}, nil
}
