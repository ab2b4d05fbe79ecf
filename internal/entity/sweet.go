package entity

import "strings"

const (
	UnitPiece = "piece"
	UnitKg    = "kg"
)

// ImageMarker is the prefix every inline-encoded catalog image must carry.
// Image payloads are stored verbatim and never parsed beyond this check.
const ImageMarker = "data:image/"

type Sweet struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Rate        float64 `json:"rate"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Unit        string  `json:"unit"`
}

// ValidUnit reports whether raw names a supported unit, ignoring casing and
// surrounding whitespace.
func ValidUnit(raw string) bool {
	unit := strings.ToLower(strings.TrimSpace(raw))
	return unit == UnitPiece || unit == UnitKg
}

// NormalizeUnit coerces arbitrary input to one of the two supported units.
// Anything unrecognized falls back to kg.
func NormalizeUnit(raw string) string {
	unit := strings.ToLower(strings.TrimSpace(raw))
	if unit != UnitPiece && unit != UnitKg {
		return UnitKg
	}
	return unit
}

// NormalizeSweet backfills the fields older catalog records may be missing.
// legacyImage carries the value of the legacy image_url column and is used
// only when the image field itself is empty.
func NormalizeSweet(s Sweet, legacyImage string) Sweet {
	if strings.TrimSpace(s.Category) == "" {
		s.Category = "Uncategorized"
	}
	if s.Unit == "" {
		s.Unit = UnitKg
	}
	if s.Image == "" {
		s.Image = legacyImage
	}
	return s
}
