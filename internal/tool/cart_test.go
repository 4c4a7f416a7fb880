package tool

import (
	"context"
	"testing"

	"github.com/sawtai/sawt/internal/catalog"
	"github.com/sawtai/sawt/internal/domain"
)

func testCatalogForCart() *catalog.Catalog {
	items := map[int64]domain.MenuItem{
		100: {ID: 100, NameAr: "برجر لحم", CategoryAr: "برجر", PriceHalalas: 2500, IsAvailable: true},
		101: {ID: 101, NameAr: "بيبسي", CategoryAr: "مشروبات", PriceHalalas: 500, IsAvailable: false},
	}
	groups := map[int64]domain.ModifierGroup{
		1: {
			ID: 1, NameAr: "الحجم", SelectionType: domain.SelectionSingle, Min: 1, Max: 1, Required: true,
			Modifiers: []domain.Modifier{
				{ID: 10, GroupID: 1, NameAr: "صغير", IsAvailable: true},
				{ID: 11, GroupID: 1, NameAr: "كبير", PriceDelta: 500, IsAvailable: true},
			},
		},
	}
	return catalog.NewFromCache(items, groups, map[int64][]int64{100: {1}}, nil)
}

func TestAddToOrderNewLine(t *testing.T) {
	tool := &AddToOrder{Catalog: testCatalogForCart()}
	session := &domain.Session{}

	result, err := tool.Execute(context.Background(), session, map[string]any{
		"item_id":      100,
		"quantity":     2,
		"modifier_ids": []any{11},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected OK result, got %+v", result)
	}
	if len(session.Cart) != 1 {
		t.Fatalf("expected 1 cart line, got %d", len(session.Cart))
	}
	if session.Cart[0].LineTotal != 6000 {
		t.Errorf("LineTotal = %d, want 6000 ((2500+500)*2)", session.Cart[0].LineTotal)
	}
}

func TestAddToOrderMergesMatchingLine(t *testing.T) {
	tool := &AddToOrder{Catalog: testCatalogForCart()}
	session := &domain.Session{}

	for i := 0; i < 2; i++ {
		if _, err := tool.Execute(context.Background(), session, map[string]any{"item_id": 100, "quantity": 1, "modifier_ids": []any{10}}); err != nil {
			t.Fatalf("Execute #%d: %v", i, err)
		}
	}

	if len(session.Cart) != 1 {
		t.Fatalf("expected merge into 1 cart line, got %d", len(session.Cart))
	}
	if session.Cart[0].Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", session.Cart[0].Quantity)
	}
}

func TestAddToOrderRejectsUnavailableItem(t *testing.T) {
	tool := &AddToOrder{Catalog: testCatalogForCart()}
	session := &domain.Session{}

	result, err := tool.Execute(context.Background(), session, map[string]any{"item_id": 101, "quantity": 1})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.OK {
		t.Error("expected failure for unavailable item")
	}
}

func TestAddToOrderRejectsInvalidQuantity(t *testing.T) {
	tool := &AddToOrder{Catalog: testCatalogForCart()}
	session := &domain.Session{}

	result, err := tool.Execute(context.Background(), session, map[string]any{"item_id": 100, "quantity": 0, "modifier_ids": []any{10}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	// quantity 0 defaults to 1, which is valid.
	if !result.OK {
		t.Fatalf("expected default quantity of 1 to succeed, got %+v", result)
	}

	result, err = tool.Execute(context.Background(), session, map[string]any{"item_id": 100, "quantity": 100, "modifier_ids": []any{10}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.OK {
		t.Error("expected failure for quantity over 99")
	}
}

func TestGetCurrentOrder(t *testing.T) {
	session := &domain.Session{Cart: domain.Cart{{MenuItemID: 1, LineTotal: 1000, Quantity: 1}}}
	tool := &GetCurrentOrder{}

	result, err := tool.Execute(context.Background(), session, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Data["subtotal_halalas"] != int64(1000) {
		t.Errorf("subtotal = %v, want 1000", result.Data["subtotal_halalas"])
	}
}

func TestUpdateOrderItem(t *testing.T) {
	session := &domain.Session{Cart: domain.Cart{{MenuItemID: 1, UnitPrice: 1000, Quantity: 1, LineTotal: 1000}}}
	tool := &UpdateOrderItem{}

	result, err := tool.Execute(context.Background(), session, map[string]any{"line_index": 0, "quantity": 3})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected OK, got %+v", result)
	}
	if session.Cart[0].LineTotal != 3000 {
		t.Errorf("LineTotal = %d, want 3000", session.Cart[0].LineTotal)
	}
}

func TestUpdateOrderItemZeroQuantityRemovesLine(t *testing.T) {
	session := &domain.Session{Cart: domain.Cart{
		{MenuItemID: 1, UnitPrice: 1000, Quantity: 1, LineTotal: 1000},
		{MenuItemID: 2, UnitPrice: 500, Quantity: 1, LineTotal: 500},
	}}
	tool := &UpdateOrderItem{}

	result, err := tool.Execute(context.Background(), session, map[string]any{"line_index": 0, "quantity": 0})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected OK, got %+v", result)
	}
	if len(session.Cart) != 1 || session.Cart[0].MenuItemID != 2 {
		t.Errorf("expected line 0 removed, leaving only item 2, got %+v", session.Cart)
	}
}

func TestUpdateOrderItemOutOfRange(t *testing.T) {
	session := &domain.Session{Cart: domain.Cart{}}
	tool := &UpdateOrderItem{}

	result, err := tool.Execute(context.Background(), session, map[string]any{"line_index": 5, "quantity": 1})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.OK {
		t.Error("expected failure for out-of-range line index")
	}
}

func TestRemoveFromOrder(t *testing.T) {
	session := &domain.Session{Cart: domain.Cart{
		{MenuItemID: 1},
		{MenuItemID: 2},
	}}
	tool := &RemoveFromOrder{}

	result, err := tool.Execute(context.Background(), session, map[string]any{"line_index": 0})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected OK, got %+v", result)
	}
	if len(session.Cart) != 1 || session.Cart[0].MenuItemID != 2 {
		t.Errorf("unexpected cart after removal: %+v", session.Cart)
	}
}
