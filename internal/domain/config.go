package domain

const (
	// DefaultDockIcon is the glyph shown when no configuration exists yet.
	DefaultDockIcon = "assets/dock-icon.png"

	// IconAuto asks the surface to resolve the item icon dynamically.
	IconAuto = "auto"
)

// DefaultPosition is the last known placement used before the dock was ever moved.
var DefaultPosition = Position{X: 100, Y: 300}

// Position is a screen coordinate in pixels.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Configuration is the full persisted dock state.
//
// It is a plain value: every edit function in this package takes a
// Configuration and returns a fresh one, sharing no slices with its input.
// Holders of an older snapshot never observe later edits.
type Configuration struct {
	// DockIcon identifies the default dock glyph.
	DockIcon string `json:"dockIcon" yaml:"dockIcon"`

	// Position is the last known dock placement.
	Position Position `json:"position" yaml:"position"`

	// Categories are shown in this order.
	Categories []Category `json:"categories" yaml:"categories"`
}

// Category is a named, iconed group of items rendered as one collapsible row.
type Category struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is an optional stable key. Lookups never use it; Name stays the
	// identifier for every edit operation.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Name is the de facto identifier. Uniqueness is assumed, not enforced.
	Name string `json:"name" yaml:"name"`

	// ─────────────────────────────
	// Presentation
	// ─────────────────────────────

	// Icon is a short glyph for the category button.
	Icon string `json:"icon" yaml:"icon"`

	// Items are shown in this order.
	Items []Item `json:"items" yaml:"items"`
}

// Item is a single launchable shortcut.
type Item struct {
	// ID is an optional stable key, see Category.ID.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Name is the display string and the identifier within its category.
	Name string `json:"name" yaml:"name"`

	// Type selects how Path is interpreted.
	Type ItemType `json:"type" yaml:"type"`

	// Path is a filesystem path, a URL or a command line depending on Type.
	Path string `json:"path" yaml:"path"`

	// Icon is an explicit path or data URI, or IconAuto.
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Default returns the configuration used when nothing usable is stored.
func Default() Configuration {
	return Configuration{
		DockIcon:   DefaultDockIcon,
		Position:   DefaultPosition,
		Categories: []Category{},
	}
}

// Clone returns a deep copy. Nil slices stay nil and empty slices stay empty,
// so a clone is always structurally equal to its source.
func (c Configuration) Clone() Configuration {
	out := c
	if c.Categories != nil {
		out.Categories = make([]Category, len(c.Categories))
		for i, cat := range c.Categories {
			out.Categories[i] = cat.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the category.
func (c Category) Clone() Category {
	out := c
	if c.Items != nil {
		out.Items = make([]Item, len(c.Items))
		copy(out.Items, c.Items)
	}
	return out
}

// Normalize replaces nil sequences by empty ones so that the persisted form
// always carries [] rather than null.
func Normalize(cfg Configuration) Configuration {
	out := cfg.Clone()
	if out.Categories == nil {
		out.Categories = []Category{}
	}
	for i := range out.Categories {
		if out.Categories[i].Items == nil {
			out.Categories[i].Items = []Item{}
		}
	}
	return out
}

// UsesAutoIcon reports whether the item icon must be resolved dynamically.
func (i Item) UsesAutoIcon() bool {
	return i.Icon == "" || i.Icon == IconAuto
}

// WantsExtraction reports whether an icon should be pulled from the target
// binary. Only executables and shortcuts carry an embedded icon.
func (i Item) WantsExtraction() bool {
	return i.UsesAutoIcon() && (i.Type == TypeExe || i.Type == TypeLnk)
}
