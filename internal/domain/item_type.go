package domain

// ItemType is the closed set of shortcut kinds.
type ItemType string

const (
	TypeExe    ItemType = "exe"
	TypeLnk    ItemType = "lnk"
	TypeFolder ItemType = "folder"
	TypeURL    ItemType = "url"
	TypeShell  ItemType = "shell"
)

// ItemTypes lists every type in the order the settings editor offers them.
func ItemTypes() []ItemType {
	return []ItemType{TypeExe, TypeLnk, TypeShell, TypeURL, TypeFolder}
}

// Valid reports whether t is one of the known types.
func (t ItemType) Valid() bool {
	switch t {
	case TypeExe, TypeLnk, TypeFolder, TypeURL, TypeShell:
		return true
	default:
		return false
	}
}

// fallbackGlyphs are shown by the dock when an item has no usable icon.
var fallbackGlyphs = map[ItemType]string{
	TypeExe:    "⚙",
	TypeURL:    "🌐",
	TypeFolder: "📁",
	TypeShell:  "⬛",
	TypeLnk:    "🔗",
}

const defaultFallbackGlyph = "📄"

// FallbackGlyph returns the glyph shown for an item of type t without an icon.
func FallbackGlyph(t ItemType) string {
	if g, ok := fallbackGlyphs[t]; ok {
		return g
	}
	return defaultFallbackGlyph
}

// ShortLabel is a short ASCII label for t, used where glyphs cannot be drawn.
func ShortLabel(t ItemType) string {
	switch t {
	case TypeExe:
		return "EXE"
	case TypeLnk:
		return "LNK"
	case TypeFolder:
		return "DIR"
	case TypeURL:
		return "WWW"
	case TypeShell:
		return ">_"
	default:
		return "?"
	}
}
