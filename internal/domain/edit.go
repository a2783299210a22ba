package domain

// Edit operations.
//
// Every function here is pure: it clones its input, applies the change to the
// clone and returns it. None of them touches storage; callers persist with an
// explicit save once they are done, which lets a surface batch several edits.
//
// Lookups match on Name. A lookup that matches nothing is not an error: the
// result is an unchanged (but distinct) configuration.

const (
	// DefaultCategoryName and DefaultCategoryIcon are what the settings editor
	// creates when the user adds a category.
	DefaultCategoryName = "New Category"
	DefaultCategoryIcon = "\U0001F4C1" // 📁

	// DefaultItemName is what the settings editor creates for a new item.
	DefaultItemName = "New Item"
)

// NewCategory returns the editor's default category.
func NewCategory() Category {
	return Category{Name: DefaultCategoryName, Icon: DefaultCategoryIcon, Items: []Item{}}
}

// NewItem returns the editor's default item.
func NewItem() Item {
	return Item{Name: DefaultItemName, Type: TypeExe, Path: "", Icon: IconAuto}
}

// AddCategory appends a category with no items. Duplicate names are allowed.
func AddCategory(cfg Configuration, name, icon string) Configuration {
	next := cfg.Clone()
	next.Categories = append(next.Categories, Category{Name: name, Icon: icon, Items: []Item{}})
	return next
}

// AddItem appends item to the first category named categoryName.
func AddItem(cfg Configuration, categoryName string, item Item) Configuration {
	next := cfg.Clone()
	if i := indexOfCategory(next.Categories, categoryName); i >= 0 {
		next.Categories[i].Items = append(next.Categories[i].Items, item)
	}
	return next
}

// RemoveItem removes every item named itemName from every category named
// categoryName. All matches go, not just the first one.
func RemoveItem(cfg Configuration, categoryName, itemName string) Configuration {
	next := cfg.Clone()
	for i := range next.Categories {
		if next.Categories[i].Name != categoryName {
			continue
		}
		next.Categories[i].Items = filterItems(next.Categories[i].Items, func(it Item) bool {
			return it.Name != itemName
		})
	}
	return next
}

// RemoveCategory removes every category named categoryName.
func RemoveCategory(cfg Configuration, categoryName string) Configuration {
	next := cfg.Clone()
	if next.Categories == nil {
		return next
	}
	kept := make([]Category, 0, len(next.Categories))
	for _, cat := range next.Categories {
		if cat.Name != categoryName {
			kept = append(kept, cat)
		}
	}
	next.Categories = kept
	return next
}

// RenameCategory renames every category named oldName.
func RenameCategory(cfg Configuration, oldName, newName string) Configuration {
	next := cfg.Clone()
	for i := range next.Categories {
		if next.Categories[i].Name == oldName {
			next.Categories[i].Name = newName
		}
	}
	return next
}

// SetCategoryIcon changes the icon of every category named name.
func SetCategoryIcon(cfg Configuration, name, icon string) Configuration {
	next := cfg.Clone()
	for i := range next.Categories {
		if next.Categories[i].Name == name {
			next.Categories[i].Icon = icon
		}
	}
	return next
}

// CategoryPatch lists the category fields to overwrite. Nil fields are left alone.
type CategoryPatch struct {
	Name *string `json:"name,omitempty"`
	Icon *string `json:"icon,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p CategoryPatch) Empty() bool {
	return p.Name == nil && p.Icon == nil
}

// UpdateCategory patches every category named name in a single pass, so a
// rename never touches another category that already had the new name.
func UpdateCategory(cfg Configuration, name string, patch CategoryPatch) Configuration {
	next := cfg.Clone()
	for i := range next.Categories {
		if next.Categories[i].Name != name {
			continue
		}
		if patch.Name != nil {
			next.Categories[i].Name = *patch.Name
		}
		if patch.Icon != nil {
			next.Categories[i].Icon = *patch.Icon
		}
	}
	return next
}

// ItemPatch lists the item fields to overwrite. Nil fields are left alone.
type ItemPatch struct {
	Name *string   `json:"name,omitempty"`
	Type *ItemType `json:"type,omitempty"`
	Path *string   `json:"path,omitempty"`
	Icon *string   `json:"icon,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Type == nil && p.Path == nil && p.Icon == nil
}

func (p ItemPatch) apply(it Item) Item {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Type != nil {
		it.Type = *p.Type
	}
	if p.Path != nil {
		it.Path = *p.Path
	}
	if p.Icon != nil {
		it.Icon = *p.Icon
	}
	return it
}

// UpdateItem applies patch to every item named itemName in every category
// named categoryName, mirroring RemoveItem's matching rules.
func UpdateItem(cfg Configuration, categoryName, itemName string, patch ItemPatch) Configuration {
	next := cfg.Clone()
	for i := range next.Categories {
		if next.Categories[i].Name != categoryName {
			continue
		}
		for j := range next.Categories[i].Items {
			if next.Categories[i].Items[j].Name == itemName {
				next.Categories[i].Items[j] = patch.apply(next.Categories[i].Items[j])
			}
		}
	}
	return next
}

// SetPosition records the last dock placement.
func SetPosition(cfg Configuration, x, y int) Configuration {
	next := cfg.Clone()
	next.Position = Position{X: x, Y: y}
	return next
}

// SetDockIcon changes the dock glyph.
func SetDockIcon(cfg Configuration, icon string) Configuration {
	next := cfg.Clone()
	next.DockIcon = icon
	return next
}

// AssignIDs fills every empty category and item ID using gen.
// Existing IDs are kept.
func AssignIDs(cfg Configuration, gen func() string) Configuration {
	next := cfg.Clone()
	for i := range next.Categories {
		if next.Categories[i].ID == "" {
			next.Categories[i].ID = gen()
		}
		for j := range next.Categories[i].Items {
			if next.Categories[i].Items[j].ID == "" {
				next.Categories[i].Items[j].ID = gen()
			}
		}
	}
	return next
}

// FindCategory returns the first category named name.
func FindCategory(cfg Configuration, name string) (Category, bool) {
	if i := indexOfCategory(cfg.Categories, name); i >= 0 {
		return cfg.Categories[i].Clone(), true
	}
	return Category{}, false
}

// FindItem returns the first item named itemName in the first category named
// categoryName.
func FindItem(cfg Configuration, categoryName, itemName string) (Item, bool) {
	i := indexOfCategory(cfg.Categories, categoryName)
	if i < 0 {
		return Item{}, false
	}
	if j := indexOfItem(cfg.Categories[i].Items, itemName); j >= 0 {
		return cfg.Categories[i].Items[j], true
	}
	return Item{}, false
}

func indexOfCategory(cats []Category, name string) int {
	for i := range cats {
		if cats[i].Name == name {
			return i
		}
	}
	return -1
}

func indexOfItem(items []Item, name string) int {
	for i := range items {
		if items[i].Name == name {
			return i
		}
	}
	return -1
}

func filterItems(items []Item, keep func(Item) bool) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
