package tool

import (
	"context"

	"github.com/sawtai/sawt/internal/catalog"
	"github.com/sawtai/sawt/internal/domain"
	"github.com/sawtai/sawt/internal/textutil"
)

// CheckDeliveryDistrictArgs is the argument shape for check_delivery_district.
type CheckDeliveryDistrictArgs struct {
	District string `json:"district" jsonschema:"required,description=اسم الحي أو المنطقة المطلوب التحقق من تغطيتها"`
}

// CheckDeliveryDistrict wraps catalog.Catalog.CheckCoverage as an LLM tool
// (spec.md §4.3/§4.4, §8.7).
type CheckDeliveryDistrict struct {
	Catalog *catalog.Catalog
}

func (t *CheckDeliveryDistrict) Name() string        { return "check_delivery_district" }
func (t *CheckDeliveryDistrict) Description() string {
	return "يتحقق مما إذا كان حي أو منطقة معينة ضمن نطاق التوصيل"
}
func (t *CheckDeliveryDistrict) Schema() map[string]any { return schemaFor[CheckDeliveryDistrictArgs]() }

func (t *CheckDeliveryDistrict) Execute(ctx context.Context, session *domain.Session, raw map[string]any) (Result, error) {
	args, err := decodeArgs[CheckDeliveryDistrictArgs](raw)
	if err != nil {
		return Result{}, err
	}

	covered, area, suggestions := t.Catalog.CheckCoverage(args.District)
	if covered {
		return Result{
			OK:      true,
			Message: "المنطقة ضمن نطاق التوصيل",
			Data: map[string]any{
				"covered":   true,
				"area_id":   area.ID,
				"area_name": area.NameAr,
			},
		}, nil
	}

	data := map[string]any{"covered": false}
	if len(suggestions) > 0 {
		names := make([]string, len(suggestions))
		for i, s := range suggestions {
			names[i] = s.NameAr
		}
		data["suggestions"] = names
	}
	return Result{OK: true, Message: "عذراً، هذه المنطقة خارج نطاق التوصيل حالياً", Data: data}, nil
}

// SetOrderTypeArgs is the argument shape for set_order_type.
type SetOrderTypeArgs struct {
	OrderType string `json:"order_type" jsonschema:"required,enum=delivery,enum=pickup,description=نوع الطلب"`
	Area      string `json:"area,omitempty" jsonschema:"description=الحي أو المنطقة (للتوصيل فقط)"`
	Street    string `json:"street,omitempty" jsonschema:"description=اسم الشارع (للتوصيل فقط)"`
	Building  string `json:"building,omitempty" jsonschema:"description=رقم المبنى أو الفيلا (للتوصيل فقط)"`
}

// SetOrderType records the chosen order type and, for delivery, the
// validated address, grounded on original_source's set_order_type tool
// handler and the LOCATION state's address-completion gate.
type SetOrderType struct {
	Catalog *catalog.Catalog
}

func (t *SetOrderType) Name() string          { return "set_order_type" }
func (t *SetOrderType) Description() string   { return "يضبط نوع الطلب (توصيل أو استلام) وعنوان التوصيل إن وجد" }
func (t *SetOrderType) Schema() map[string]any { return schemaFor[SetOrderTypeArgs]() }

func (t *SetOrderType) Execute(ctx context.Context, session *domain.Session, raw map[string]any) (Result, error) {
	args, err := decodeArgs[SetOrderTypeArgs](raw)
	if err != nil {
		return Result{}, err
	}

	switch domain.OrderType(args.OrderType) {
	case domain.OrderTypePickup:
		session.OrderType = domain.OrderTypePickup
		session.Location = domain.Location{}
		return Result{OK: true, Message: "تم تسجيل الطلب كاستلام من الفرع", Data: map[string]any{"order_type": "pickup"}}, nil

	case domain.OrderTypeDelivery:
		covered, area, suggestions := t.Catalog.CheckCoverage(args.Area)
		if !covered {
			data := map[string]any{"covered": false}
			if len(suggestions) > 0 {
				names := make([]string, len(suggestions))
				for i, s := range suggestions {
					names[i] = s.NameAr
				}
				data["suggestions"] = names
			}
			return Result{OK: false, Message: "عذراً، هذه المنطقة خارج نطاق التوصيل", Data: data}, nil
		}

		addr, complete, missing := textutil.ValidateAddress(args.Area, args.Street, args.Building)
		areaID := area.ID
		session.OrderType = domain.OrderTypeDelivery
		session.Location = domain.Location{
			AreaID:   &areaID,
			AreaName: area.NameAr,
			Street:   addr.Street,
			Building: addr.Building,
		}
		if !complete {
			return Result{OK: true, Message: "المنطقة مغطاة، يرجى إكمال بيانات العنوان", Data: map[string]any{
				"order_type": "delivery", "area_id": area.ID, "area_name": area.NameAr,
				"complete": false, "missing_fields": missing,
			}}, nil
		}
		return Result{OK: true, Message: "تم تسجيل عنوان التوصيل بنجاح", Data: map[string]any{
			"order_type": "delivery", "area_id": area.ID, "area_name": area.NameAr, "complete": true,
		}}, nil

	default:
		return Result{OK: false, Message: "نوع الطلب غير معروف، يجب أن يكون توصيل أو استلام"}, nil
	}
}
