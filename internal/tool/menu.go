package tool

import (
	"context"

	"github.com/sawtai/sawt/internal/catalog"
	"github.com/sawtai/sawt/internal/domain"
	"github.com/sawtai/sawt/internal/search"
)

// SearchMenuArgs is the argument shape for search_menu.
type SearchMenuArgs struct {
	Query string `json:"query" jsonschema:"required,description=وصف الصنف المطلوب البحث عنه"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=أقصى عدد نتائج,default=5,minimum=1,maximum=20"`
}

// SearchMenu wraps internal/search.Engine.SearchMenu (spec.md §4.3/§4.4).
type SearchMenu struct {
	Engine  *search.Engine
	Catalog *catalog.Catalog
}

func (t *SearchMenu) Name() string          { return "search_menu" }
func (t *SearchMenu) Description() string   { return "يبحث في قائمة الطعام عن أصناف تطابق الوصف المطلوب" }
func (t *SearchMenu) Schema() map[string]any { return schemaFor[SearchMenuArgs]() }

func (t *SearchMenu) Execute(ctx context.Context, session *domain.Session, raw map[string]any) (Result, error) {
	args, err := decodeArgs[SearchMenuArgs](raw)
	if err != nil {
		return Result{}, err
	}
	limit := args.Limit
	if limit <= 0 {
		limit = 5
	}

	results, err := t.Engine.SearchMenu(ctx, args.Query, limit)
	if err != nil {
		return Result{}, err
	}

	items := make([]map[string]any, 0, len(results))
	for _, r := range results {
		item := r.Item
		if item.NameAr == "" {
			// vector hits only carry an id; hydrate from the catalog cache.
			hydrated, hydrateErr := t.Catalog.Get(item.ID)
			if hydrateErr != nil {
				continue
			}
			item = hydrated
		}
		items = append(items, map[string]any{
			"id":            item.ID,
			"name_ar":       item.NameAr,
			"price_halalas": item.PriceHalalas,
			"category_ar":   item.CategoryAr,
			"is_available":  item.IsAvailable,
			"score":         r.Score,
		})
	}

	if len(items) == 0 {
		return Result{OK: true, Message: "لم يتم العثور على أصناف مطابقة", Data: map[string]any{"items": items}}, nil
	}
	return Result{OK: true, Data: map[string]any{"items": items}}, nil
}

// GetItemDetailsArgs is the argument shape for get_item_details.
type GetItemDetailsArgs struct {
	ItemID int64 `json:"item_id" jsonschema:"required,description=معرف الصنف"`
}

// GetItemDetails returns an item with its modifier groups.
type GetItemDetails struct {
	Catalog *catalog.Catalog
}

func (t *GetItemDetails) Name() string          { return "get_item_details" }
func (t *GetItemDetails) Description() string   { return "يعرض تفاصيل صنف معين بما في ذلك الإضافات المتاحة" }
func (t *GetItemDetails) Schema() map[string]any { return schemaFor[GetItemDetailsArgs]() }

func (t *GetItemDetails) Execute(ctx context.Context, session *domain.Session, raw map[string]any) (Result, error) {
	args, err := decodeArgs[GetItemDetailsArgs](raw)
	if err != nil {
		return Result{}, err
	}

	item, groups, err := t.Catalog.GetWithModifiers(args.ItemID)
	if err != nil {
		return Result{OK: false, Message: "الصنف غير موجود"}, nil
	}

	groupsData := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		mods := make([]map[string]any, 0, len(g.Modifiers))
		for _, m := range g.Modifiers {
			mods = append(mods, map[string]any{
				"id":                  m.ID,
				"name_ar":             m.NameAr,
				"price_delta_halalas": m.PriceDelta,
				"is_available":        m.IsAvailable,
			})
		}
		groupsData = append(groupsData, map[string]any{
			"id":       g.ID,
			"name_ar":  g.NameAr,
			"required": g.Required,
			"min":      g.Min,
			"max":      g.Max,
			"options":  mods,
		})
	}

	return Result{OK: true, Data: map[string]any{
		"id":               item.ID,
		"name_ar":          item.NameAr,
		"description_ar":   item.DescriptionAr,
		"price_halalas":    item.PriceHalalas,
		"is_available":     item.IsAvailable,
		"modifier_groups":  groupsData,
	}}, nil
}
