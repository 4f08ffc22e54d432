package models

// Default colors applied by the public page when a theme leaves them unset.
const (
	DefaultPrimaryColor   = "#3b82f6"
	DefaultSecondaryColor = "#8b5cf6"
	DefaultAccentColor    = "#10b981"
)

// ThemeField names one editable field of a Theme.
type ThemeField string

const (
	ThemePrimary   ThemeField = "primary"
	ThemeSecondary ThemeField = "secondary"
	ThemeAccent    ThemeField = "accent"
	ThemeLogo      ThemeField = "logo"
	ThemeBanner    ThemeField = "banner"
	ThemeVideo     ThemeField = "video"
)

// Theme is the set of brand colors and media URLs of a careers page.
// Every field is optional.
type Theme struct {
	Primary   string `json:"primary,omitempty" validate:"max=64"`
	Secondary string `json:"secondary,omitempty" validate:"max=64"`
	Accent    string `json:"accent,omitempty" validate:"max=64"`
	Logo      string `json:"logo,omitempty" validate:"omitempty,url"`
	Banner    string `json:"banner,omitempty" validate:"omitempty,url"`
	Video     string `json:"video,omitempty" validate:"omitempty,url"`
}

// With returns a copy of t with field set to value. ok is false for an
// unknown field.
func (t Theme) With(field ThemeField, value string) (Theme, bool) {
	switch field {
	case ThemePrimary:
		t.Primary = value
	case ThemeSecondary:
		t.Secondary = value
	case ThemeAccent:
		t.Accent = value
	case ThemeLogo:
		t.Logo = value
	case ThemeBanner:
		t.Banner = value
	case ThemeVideo:
		t.Video = value
	default:
		return t, false
	}
	return t, true
}

// PrimaryOrDefault returns the primary color or its fallback.
func (t Theme) PrimaryOrDefault() string {
	return orDefault(t.Primary, DefaultPrimaryColor)
}

// SecondaryOrDefault returns the secondary color or its fallback.
func (t Theme) SecondaryOrDefault() string {
	return orDefault(t.Secondary, DefaultSecondaryColor)
}

// AccentOrDefault returns the accent color or its fallback.
func (t Theme) AccentOrDefault() string {
	return orDefault(t.Accent, DefaultAccentColor)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
