package tool

import (
	"context"

	"github.com/sawtai/sawt/internal/catalog"
	"github.com/sawtai/sawt/internal/domain"
	"github.com/sawtai/sawt/internal/textutil"
)

// AddToOrderArgs is the argument shape for add_to_order.
type AddToOrderArgs struct {
	ItemID      int64   `json:"item_id" jsonschema:"required,description=معرف الصنف"`
	Quantity    int     `json:"quantity,omitempty" jsonschema:"description=الكمية,default=1"`
	ModifierIDs []int64 `json:"modifier_ids,omitempty" jsonschema:"description=معرفات الإضافات المختارة"`
	Notes       string  `json:"notes,omitempty" jsonschema:"description=ملاحظات خاصة بالصنف"`
}

// AddToOrder validates modifiers and quantity, then appends or merges a
// cart line, grounded on original_source's add_to_order tool handler and
// CartItem.Recompute's snapshot-at-insertion invariant.
type AddToOrder struct {
	Catalog *catalog.Catalog
}

func (t *AddToOrder) Name() string          { return "add_to_order" }
func (t *AddToOrder) Description() string   { return "يضيف صنفاً إلى السلة مع الإضافات والكمية المطلوبة" }
func (t *AddToOrder) Schema() map[string]any { return schemaFor[AddToOrderArgs]() }

func (t *AddToOrder) Execute(ctx context.Context, session *domain.Session, raw map[string]any) (Result, error) {
	args, err := decodeArgs[AddToOrderArgs](raw)
	if err != nil {
		return Result{}, err
	}
	quantity := args.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if msg := textutil.ValidateQuantity(quantity); msg != "" {
		return Result{OK: false, Message: msg}, nil
	}

	item, groups, err := t.Catalog.GetWithModifiers(args.ItemID)
	if err != nil {
		return Result{OK: false, Message: "الصنف غير موجود"}, nil
	}
	if !item.IsAvailable {
		return Result{OK: false, Message: "الصنف غير متوفر حالياً"}, nil
	}

	if ok, errs := t.Catalog.ValidateModifiers(args.ItemID, args.ModifierIDs); !ok {
		return Result{OK: false, Message: joinArabic(errs)}, nil
	}

	modifiers := make([]domain.CartItemModifier, 0, len(args.ModifierIDs))
	for _, mid := range args.ModifierIDs {
		for _, g := range groups {
			for _, m := range g.Modifiers {
				if m.ID == mid {
					modifiers = append(modifiers, domain.CartItemModifier{ModifierID: m.ID, Name: m.NameAr, PriceDelta: m.PriceDelta})
				}
			}
		}
	}

	notes := textutil.CleanArabicText(args.Notes)
	idx := session.Cart.IndexOf(item.ID, notes)
	merge := idx >= 0 && len(session.Cart[idx].Modifiers) == len(modifiers)
	for i := 0; merge && i < len(modifiers); i++ {
		merge = session.Cart[idx].Modifiers[i].ModifierID == modifiers[i].ModifierID
	}
	if merge {
		session.Cart[idx].Quantity += quantity
		session.Cart[idx].Recompute()
	} else {
		line := domain.CartItem{
			MenuItemID: item.ID,
			Name:       item.NameAr,
			Quantity:   quantity,
			UnitPrice:  item.PriceHalalas,
			Modifiers:  modifiers,
			Notes:      notes,
		}
		line.Recompute()
		session.Cart = append(session.Cart, line)
	}

	return Result{OK: true, Message: "تمت إضافة الصنف إلى السلة", Data: cartSnapshot(session.Cart)}, nil
}

// GetCurrentOrderArgs takes no parameters.
type GetCurrentOrderArgs struct{}

// GetCurrentOrder reports the cart's current contents and subtotal.
type GetCurrentOrder struct{}

func (t *GetCurrentOrder) Name() string          { return "get_current_order" }
func (t *GetCurrentOrder) Description() string   { return "يعرض محتويات السلة الحالية والمجموع الفرعي" }
func (t *GetCurrentOrder) Schema() map[string]any { return schemaFor[GetCurrentOrderArgs]() }

func (t *GetCurrentOrder) Execute(ctx context.Context, session *domain.Session, raw map[string]any) (Result, error) {
	return Result{OK: true, Data: cartSnapshot(session.Cart)}, nil
}

// UpdateOrderItemArgs is the argument shape for update_order_item.
type UpdateOrderItemArgs struct {
	LineIndex int `json:"line_index" jsonschema:"required,description=ترتيب الصنف في السلة بدءاً من صفر"`
	Quantity  int `json:"quantity" jsonschema:"required,description=الكمية الجديدة"`
}

// UpdateOrderItem changes a cart line's quantity.
type UpdateOrderItem struct{}

func (t *UpdateOrderItem) Name() string          { return "update_order_item" }
func (t *UpdateOrderItem) Description() string   { return "يعدل كمية صنف موجود في السلة" }
func (t *UpdateOrderItem) Schema() map[string]any { return schemaFor[UpdateOrderItemArgs]() }

func (t *UpdateOrderItem) Execute(ctx context.Context, session *domain.Session, raw map[string]any) (Result, error) {
	args, err := decodeArgs[UpdateOrderItemArgs](raw)
	if err != nil {
		return Result{}, err
	}
	if args.LineIndex < 0 || args.LineIndex >= len(session.Cart) {
		return Result{OK: false, Message: "الصنف غير موجود في السلة"}, nil
	}

	if args.Quantity == 0 {
		session.Cart = append(session.Cart[:args.LineIndex], session.Cart[args.LineIndex+1:]...)
		return Result{OK: true, Message: "تم حذف الصنف من السلة", Data: cartSnapshot(session.Cart)}, nil
	}

	if msg := textutil.ValidateQuantity(args.Quantity); msg != "" {
		return Result{OK: false, Message: msg}, nil
	}

	session.Cart[args.LineIndex].Quantity = args.Quantity
	session.Cart[args.LineIndex].Recompute()
	return Result{OK: true, Message: "تم تحديث الكمية", Data: cartSnapshot(session.Cart)}, nil
}

// RemoveFromOrderArgs is the argument shape for remove_from_order.
type RemoveFromOrderArgs struct {
	LineIndex int `json:"line_index" jsonschema:"required,description=ترتيب الصنف في السلة بدءاً من صفر"`
}

// RemoveFromOrder deletes a cart line by index.
type RemoveFromOrder struct{}

func (t *RemoveFromOrder) Name() string          { return "remove_from_order" }
func (t *RemoveFromOrder) Description() string   { return "يحذف صنفاً من السلة" }
func (t *RemoveFromOrder) Schema() map[string]any { return schemaFor[RemoveFromOrderArgs]() }

func (t *RemoveFromOrder) Execute(ctx context.Context, session *domain.Session, raw map[string]any) (Result, error) {
	args, err := decodeArgs[RemoveFromOrderArgs](raw)
	if err != nil {
		return Result{}, err
	}
	if args.LineIndex < 0 || args.LineIndex >= len(session.Cart) {
		return Result{OK: false, Message: "الصنف غير موجود في السلة"}, nil
	}

	session.Cart = append(session.Cart[:args.LineIndex], session.Cart[args.LineIndex+1:]...)
	return Result{OK: true, Message: "تم حذف الصنف من السلة", Data: cartSnapshot(session.Cart)}, nil
}

func cartSnapshot(cart domain.Cart) map[string]any {
	lines := make([]map[string]any, 0, len(cart))
	for i, item := range cart {
		lines = append(lines, map[string]any{
			"line_index":          i,
			"item_id":             item.MenuItemID,
			"name_ar":             item.Name,
			"quantity":            item.Quantity,
			"unit_price_halalas":  item.UnitPrice,
			"line_total_halalas":  item.LineTotal,
			"notes":               item.Notes,
		})
	}
	return map[string]any{"items": lines, "subtotal_halalas": cart.Subtotal()}
}

func joinArabic(errs []string) string {
	msg := ""
	for i, e := range errs {
		if i > 0 {
			msg += "، "
		}
		msg += e
	}
	if msg == "" {
		return "طلب غير صالح"
	}
	return msg
}
