package catalog

import (
	"testing"

	"github.com/sawtai/sawt/internal/domain"
)

func testCatalog() *Catalog {
	groups := map[int64]domain.ModifierGroup{
		1: {
			ID: 1, NameAr: "الحجم", SelectionType: domain.SelectionSingle,
			Min: 1, Max: 1, Required: true,
			Modifiers: []domain.Modifier{
				{ID: 10, GroupID: 1, NameAr: "صغير", IsAvailable: true},
				{ID: 11, GroupID: 1, NameAr: "كبير", PriceDelta: 500, IsAvailable: true},
				{ID: 12, GroupID: 1, NameAr: "عائلي", IsAvailable: false},
			},
		},
	}
	items := map[int64]domain.MenuItem{
		100: {ID: 100, NameAr: "برجر لحم", NameEn: "Beef Burger", CategoryAr: "برجر", PriceHalalas: 2500, IsAvailable: true},
		101: {ID: 101, NameAr: "بيبسي", CategoryAr: "مشروبات", PriceHalalas: 500, IsAvailable: false},
	}
	areas := []domain.CoveredArea{
		{ID: 1, NameAr: "حي النرجس", Aliases: []string{"النرجس الشمالي"}, IsActive: true},
		{ID: 2, NameAr: "حي الملقا", IsActive: true},
	}
	return NewFromCache(items, groups, map[int64][]int64{100: {1}}, areas)
}

func TestCatalogGet(t *testing.T) {
	c := testCatalog()
	item, err := c.Get(100)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if item.NameAr != "برجر لحم" {
		t.Errorf("unexpected item: %+v", item)
	}

	if _, err := c.Get(999); err != ErrItemNotFound {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestCatalogLexicalSearchSkipsUnavailable(t *testing.T) {
	c := testCatalog()
	results := c.LexicalSearch("burger", 5)
	if len(results) != 1 || results[0].Item.ID != 100 {
		t.Fatalf("unexpected results: %+v", results)
	}

	none := c.LexicalSearch("بيبسي", 5)
	if len(none) != 0 {
		t.Errorf("expected unavailable item excluded, got %+v", none)
	}
}

func TestCatalogValidateModifiers(t *testing.T) {
	c := testCatalog()

	ok, errs := c.ValidateModifiers(100, []int64{10})
	if !ok {
		t.Errorf("expected valid selection, got errors: %v", errs)
	}

	ok, errs = c.ValidateModifiers(100, nil)
	if ok {
		t.Error("expected required group to fail when nothing is selected")
	}
	if len(errs) == 0 {
		t.Error("expected at least one error for missing required group")
	}

	ok, _ = c.ValidateModifiers(100, []int64{12})
	if ok {
		t.Error("expected selecting an unavailable modifier to fail")
	}

	ok, _ = c.ValidateModifiers(100, []int64{999})
	if ok {
		t.Error("expected selecting a modifier from another item to fail")
	}
}

func TestCatalogCheckCoverageExactAndAlias(t *testing.T) {
	c := testCatalog()

	covered, area, _ := c.CheckCoverage("حي النرجس")
	if !covered || area.ID != 1 {
		t.Fatalf("expected exact match for حي النرجس, got covered=%v area=%+v", covered, area)
	}

	covered, area, _ = c.CheckCoverage("النرجس الشمالي")
	if !covered || area.ID != 1 {
		t.Fatalf("expected alias match, got covered=%v area=%+v", covered, area)
	}
}

func TestCatalogCheckCoverageBareNounMatchesPrefixedForm(t *testing.T) {
	c := testCatalog()

	coveredPrefixed, _, _ := c.CheckCoverage("حي النرجس")
	coveredArticle, _, _ := c.CheckCoverage("النرجس")
	coveredBare, _, _ := c.CheckCoverage("نرجس")

	if !coveredPrefixed || !coveredArticle || !coveredBare {
		t.Fatalf("expected all three forms covered, got حي النرجس=%v النرجس=%v نرجس=%v",
			coveredPrefixed, coveredArticle, coveredBare)
	}
}

func TestCatalogCheckCoverageSuggestsOnMiss(t *testing.T) {
	c := testCatalog()
	covered, _, suggestions := c.CheckCoverage("نرج")
	if covered {
		t.Error("unexpected exact coverage for partial name")
	}
	if len(suggestions) == 0 {
		t.Error("expected at least one suggestion for partial match")
	}
}

func TestCatalogCheckCoverageEmpty(t *testing.T) {
	c := testCatalog()
	covered, _, suggestions := c.CheckCoverage("   ")
	if covered || suggestions != nil {
		t.Error("expected no match for blank input")
	}
}
