// Package catalog provides read-only access to menu items, modifiers, and
// district coverage (spec.md §2 "Menu Catalog", §4.3), plus a small
// read-through in-process cache populated at startup — the concrete
// mechanism for the "explicit MenuCatalog handle" design note in spec.md
// §9, replacing the teacher-style global map with an injected struct.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sawtai/sawt/internal/domain"
	"github.com/sawtai/sawt/internal/store"
	"github.com/sawtai/sawt/internal/textutil"
)

// ErrItemNotFound is returned by Get when no menu item has the given id.
var ErrItemNotFound = errors.New("menu item not found")

// Catalog is the read-only menu/modifier/coverage repository, backed by a
// refreshable in-process cache.
type Catalog struct {
	db *store.DB

	mu         sync.RWMutex
	items      map[int64]domain.MenuItem
	groups     map[int64]domain.ModifierGroup          // groups including their modifiers
	itemGroups map[int64][]int64                       // menu_item_id -> modifier group ids
	areas      []domain.CoveredArea
}

// New builds a Catalog over db and performs the initial cache load.
func New(ctx context.Context, db *store.DB) (*Catalog, error) {
	c := &Catalog{db: db}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromCache builds a Catalog directly from pre-loaded cache contents,
// bypassing the database — a test-friendly constructor in the teacher's
// pkg/tools/test_constructors.go style, letting internal/tool tests
// exercise menu/modifier/coverage logic without a live database.
func NewFromCache(items map[int64]domain.MenuItem, groups map[int64]domain.ModifierGroup, itemGroups map[int64][]int64, areas []domain.CoveredArea) *Catalog {
	return &Catalog{items: items, groups: groups, itemGroups: itemGroups, areas: areas}
}

// Refresh reloads the entire cache from the database. Safe to call
// periodically from a background ticker (spec.md §5 "background reindex").
func (c *Catalog) Refresh(ctx context.Context) error {
	items, err := c.loadItems(ctx)
	if err != nil {
		return err
	}
	groups, itemGroups, err := c.loadModifierGroups(ctx)
	if err != nil {
		return err
	}
	areas, err := c.loadAreas(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.items = items
	c.groups = groups
	c.itemGroups = itemGroups
	c.areas = areas
	c.mu.Unlock()
	return nil
}

func (c *Catalog) loadItems(ctx context.Context) (map[int64]domain.MenuItem, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, name_ar, name_en, description_ar, category_ar, price_halalas, is_combo, is_available FROM menu_items`)
	if err != nil {
		return nil, fmt.Errorf("query menu_items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64]domain.MenuItem)
	for rows.Next() {
		var (
			item   domain.MenuItem
			nameEn, descAr sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.NameAr, &nameEn, &descAr, &item.CategoryAr, &item.PriceHalalas, &item.IsCombo, &item.IsAvailable); err != nil {
			return nil, fmt.Errorf("scan menu_item: %w", err)
		}
		item.NameEn = nameEn.String
		item.DescriptionAr = descAr.String
		items[item.ID] = item
	}
	return items, rows.Err()
}

func (c *Catalog) loadModifierGroups(ctx context.Context) (map[int64]domain.ModifierGroup, map[int64][]int64, error) {
	groups := make(map[int64]domain.ModifierGroup)

	groupRows, err := c.db.QueryContext(ctx, `SELECT id, name_ar, selection_type, min_selections, max_selections, is_required FROM modifier_groups`)
	if err != nil {
		return nil, nil, fmt.Errorf("query modifier_groups: %w", err)
	}
	defer groupRows.Close()
	for groupRows.Next() {
		var g domain.ModifierGroup
		var selType string
		if err := groupRows.Scan(&g.ID, &g.NameAr, &selType, &g.Min, &g.Max, &g.Required); err != nil {
			return nil, nil, fmt.Errorf("scan modifier_group: %w", err)
		}
		g.SelectionType = domain.SelectionType(selType)
		groups[g.ID] = g
	}
	if err := groupRows.Err(); err != nil {
		return nil, nil, err
	}

	modRows, err := c.db.QueryContext(ctx, `SELECT id, group_id, name_ar, price_delta_halalas, is_available FROM modifiers`)
	if err != nil {
		return nil, nil, fmt.Errorf("query modifiers: %w", err)
	}
	defer modRows.Close()
	for modRows.Next() {
		var m domain.Modifier
		if err := modRows.Scan(&m.ID, &m.GroupID, &m.NameAr, &m.PriceDelta, &m.IsAvailable); err != nil {
			return nil, nil, fmt.Errorf("scan modifier: %w", err)
		}
		g := groups[m.GroupID]
		g.Modifiers = append(g.Modifiers, m)
		groups[m.GroupID] = g
	}
	if err := modRows.Err(); err != nil {
		return nil, nil, err
	}

	itemGroups := make(map[int64][]int64)
	linkRows, err := c.db.QueryContext(ctx, `SELECT menu_item_id, modifier_group_id FROM item_modifier_groups`)
	if err != nil {
		return nil, nil, fmt.Errorf("query item_modifier_groups: %w", err)
	}
	defer linkRows.Close()
	for linkRows.Next() {
		var itemID, groupID int64
		if err := linkRows.Scan(&itemID, &groupID); err != nil {
			return nil, nil, fmt.Errorf("scan item_modifier_groups: %w", err)
		}
		itemGroups[itemID] = append(itemGroups[itemID], groupID)
	}
	return groups, itemGroups, linkRows.Err()
}

func (c *Catalog) loadAreas(ctx context.Context) ([]domain.CoveredArea, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, name_ar, name_en, aliases, is_active FROM covered_areas WHERE is_active = true`)
	if err != nil {
		return nil, fmt.Errorf("query covered_areas: %w", err)
	}
	defer rows.Close()

	var areas []domain.CoveredArea
	for rows.Next() {
		var (
			a              domain.CoveredArea
			nameEn, aliasesRaw sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.NameAr, &nameEn, &aliasesRaw, &a.IsActive); err != nil {
			return nil, fmt.Errorf("scan covered_area: %w", err)
		}
		a.NameEn = nameEn.String
		if aliasesRaw.String != "" {
			a.Aliases = strings.Split(aliasesRaw.String, "|")
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

// Get returns a menu item by id.
func (c *Catalog) Get(id int64) (domain.MenuItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	if !ok {
		return domain.MenuItem{}, ErrItemNotFound
	}
	return item, nil
}

// GetWithModifiers returns an item and its applicable modifier groups.
func (c *Catalog) GetWithModifiers(id int64) (domain.MenuItem, []domain.ModifierGroup, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		return domain.MenuItem{}, nil, ErrItemNotFound
	}

	var groups []domain.ModifierGroup
	for _, groupID := range c.itemGroups[id] {
		groups = append(groups, c.groups[groupID])
	}
	return item, groups, nil
}

// Categories returns the distinct category names across all items.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool)
	var cats []string
	for _, item := range c.items {
		if !seen[item.CategoryAr] {
			seen[item.CategoryAr] = true
			cats = append(cats, item.CategoryAr)
		}
	}
	return cats
}

// ItemsByCategory returns every item in the given category.
func (c *Catalog) ItemsByCategory(category string) []domain.MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []domain.MenuItem
	for _, item := range c.items {
		if item.CategoryAr == category {
			out = append(out, item)
		}
	}
	return out
}

// LexicalSearch performs the case-insensitive substring fallback of
// spec.md §4.3 over name_ar/name_en/description_ar.
func (c *Catalog) LexicalSearch(query string, k int) []domain.SearchResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	var results []domain.SearchResult
	for _, item := range c.items {
		if !item.IsAvailable {
			continue
		}
		haystacks := []string{item.NameAr, item.NameEn, item.DescriptionAr}
		matched := false
		for _, h := range haystacks {
			if h != "" && strings.Contains(strings.ToLower(h), needle) {
				matched = true
				break
			}
		}
		if matched {
			results = append(results, domain.SearchResult{Item: item, Score: 1.0})
		}
	}

	if len(results) > k {
		results = results[:k]
	}
	return results
}

// ValidateModifiers enforces the group-membership, availability, and
// min/max/required contract of spec.md §3/§4.3.
func (c *Catalog) ValidateModifiers(itemID int64, modifierIDs []int64) (bool, []string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	groupIDs := c.itemGroups[itemID]
	allowed := make(map[int64]bool)
	perGroup := make(map[int64][]int64) // group id -> selected modifier ids in that group
	modToGroup := make(map[int64]int64)

	for _, gid := range groupIDs {
		for _, m := range c.groups[gid].Modifiers {
			allowed[m.ID] = true
			modToGroup[m.ID] = gid
		}
	}

	var errs []string
	for _, mid := range modifierIDs {
		if !allowed[mid] {
			errs = append(errs, fmt.Sprintf("المعدل %d لا ينتمي لهذا الصنف", mid))
			continue
		}
		gid := modToGroup[mid]
		perGroup[gid] = append(perGroup[gid], mid)

		modifier := findModifier(c.groups[gid].Modifiers, mid)
		if modifier != nil && !modifier.IsAvailable {
			errs = append(errs, fmt.Sprintf("الخيار %s غير متوفر حالياً", modifier.NameAr))
		}
	}

	for _, gid := range groupIDs {
		group := c.groups[gid]
		count := len(perGroup[gid])
		if group.Required && count < group.Min {
			errs = append(errs, fmt.Sprintf("الرجاء اختيار %s", group.NameAr))
		}
		if count > 0 && (count < group.Min || count > group.Max) {
			errs = append(errs, fmt.Sprintf("عدد الاختيارات لـ %s يجب أن يكون بين %d و %d", group.NameAr, group.Min, group.Max))
		}
	}

	return len(errs) == 0, errs
}

func findModifier(mods []domain.Modifier, id int64) *domain.Modifier {
	for i := range mods {
		if mods[i].ID == id {
			return &mods[i]
		}
	}
	return nil
}

// CheckCoverage normalizes the input district name and attempts exact,
// alias, and prefix/substring matches, per spec.md §4.3/§8.7.
func (c *Catalog) CheckCoverage(name string) (covered bool, area domain.CoveredArea, suggestions []domain.CoveredArea) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := textutil.NormalizeAreaName(name)
	if key == "" {
		return false, domain.CoveredArea{}, nil
	}

	for _, a := range c.areas {
		if textutil.NormalizeAreaName(a.NameAr) == key || (a.NameEn != "" && strings.EqualFold(a.NameEn, key)) {
			return true, a, nil
		}
	}

	for _, a := range c.areas {
		for _, alias := range a.Aliases {
			if textutil.NormalizeAreaName(alias) == key {
				return true, a, nil
			}
		}
	}

	for _, a := range c.areas {
		normalized := textutil.NormalizeAreaName(a.NameAr)
		if strings.Contains(normalized, key) || strings.HasPrefix(normalized, key) {
			suggestions = append(suggestions, a)
			if len(suggestions) == 3 {
				break
			}
		}
	}
	return false, domain.CoveredArea{}, suggestions
}
