package model

import (
	"strings"
	"sync"
)

// Building-material categories known out of the box.
const (
	CategorySemen     = "Semen"
	CategoryBesi      = "Besi"
	CategoryPasir     = "Pasir"
	CategoryBatu      = "Batu"
	CategoryKayu      = "Kayu"
	CategoryKeramik   = "Keramik"
	CategoryPlesteran = "Plesteran"
	CategoryLantai    = "Lantai"
	CategoryDinding   = "Dinding"
	CategoryAtap      = "Atap"
	CategoryLainnya   = "Lainnya"
)

// DefaultCategories keeps the display order used by the admin select box.
var DefaultCategories = []string{
	CategorySemen,
	CategoryBesi,
	CategoryPasir,
	CategoryBatu,
	CategoryKayu,
	CategoryKeramik,
	CategoryPlesteran,
	CategoryLantai,
	CategoryDinding,
	CategoryAtap,
	CategoryLainnya,
}

var categoryColors = map[string]string{
	CategorySemen: "danger",
	CategoryBesi:  "warning",
	CategoryPasir: "info",
	CategoryBatu:  "success",
	CategoryKayu:  "primary",
}

var (
	categoryMu sync.RWMutex
	categories = newCategorySet(DefaultCategories)
	extraOrder []string
)

func newCategorySet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// RegisterCategory adds a category to the accepted set. Blank names are ignored.
func RegisterCategory(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	categoryMu.Lock()
	defer categoryMu.Unlock()
	if _, ok := categories[name]; ok {
		return
	}
	categories[name] = struct{}{}
	extraOrder = append(extraOrder, name)
}

// IsValidCategory reports whether name is a registered category.
func IsValidCategory(name string) bool {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	_, ok := categories[name]
	return ok
}

// Categories returns the registered categories, defaults first.
func Categories() []string {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	out := make([]string, 0, len(DefaultCategories)+len(extraOrder))
	out = append(out, DefaultCategories...)
	return append(out, extraOrder...)
}

// CategoryColor maps a category to its badge colour.
func CategoryColor(name string) string {
	if c, ok := categoryColors[name]; ok {
		return c
	}
	return "gray"
}
