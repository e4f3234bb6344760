package core

import (
	"strings"
	"unicode"
)

const (
	// DefaultColor is the neutral gray used for synthesized categories.
	DefaultColor = "#9ca3af"
	// DefaultIcon marks a synthesized category.
	DefaultIcon = "tag"
)

// ResolutionKind tells callers how a category reference was resolved, so
// exact matches can be distinguished from fallbacks.
type ResolutionKind int

const (
	// ResolvedByID means the reference matched a category id exactly.
	ResolvedByID ResolutionKind = iota
	// ResolvedByName means the reference matched a category by normalized
	// display name (legacy references that stored names instead of ids).
	ResolvedByName
	// ResolvedDefault means no category matched and a placeholder was
	// synthesized from the raw reference.
	ResolvedDefault
)

// Resolution is the result of resolving a transaction's category reference.
type Resolution struct {
	Kind     ResolutionKind
	Category Category
}

// ResolveCategory resolves ref against known categories: by id first, then by
// normalized display name, finally synthesizing a default. Orphaned and
// legacy references are expected data, not errors, so this never fails.
func ResolveCategory(categories []Category, ref string) Resolution {
	for _, c := range categories {
		if c.ID != "" && c.ID == ref {
			return Resolution{Kind: ResolvedByID, Category: c}
		}
	}

	normalized := NormalizeName(ref)
	for _, c := range categories {
		if strings.EqualFold(c.Name, normalized) {
			return Resolution{Kind: ResolvedByName, Category: c}
		}
	}

	return Resolution{
		Kind: ResolvedDefault,
		Category: Category{
			Name:  normalized,
			Color: DefaultColor,
			Icon:  DefaultIcon,
		},
	}
}

// NormalizeName turns a raw category reference into a display name: hyphens
// become spaces and each word is title-cased ("xyz-123" -> "Xyz 123").
func NormalizeName(ref string) string {
	ref = strings.TrimSpace(strings.ReplaceAll(ref, "-", " "))
	if ref == "" {
		return ""
	}
	words := strings.Fields(ref)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
