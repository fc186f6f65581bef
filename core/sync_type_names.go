package core

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var defaultSyncTypeNames = map[SyncType]string{
	SyncTypeBodyMass:       "Weight",
	SyncTypeBodyFat:        "Body Fat",
	SyncTypeSleepAnalysis:  "Sleep",
	SyncTypeBloodGlucose:   "Blood Glucose",
	SyncTypeBloodKetones:   "Blood Ketones",
	SyncTypeBloodPressure:  "Blood Pressure",
	SyncTypeHeartRate:      "Heart Rate",
	SyncTypeRestingHR:      "Resting Heart Rate",
	SyncTypeSteps:          "Steps",
	SyncTypeWorkout:        "Workouts",
	SyncTypeActiveCalories: "Active Calories",
	SyncTypeNutrition:      "Nutrition",
}

// CatalogSyncTypeNamer resolves display names from an x/text message catalog.
// Lookups fall back to English, then to a title-cased form of the id.
type CatalogSyncTypeNamer struct {
	mu      sync.RWMutex
	builder *catalog.Builder
}

func NewCatalogSyncTypeNamer() *CatalogSyncTypeNamer {
	namer := &CatalogSyncTypeNamer{
		builder: catalog.NewBuilder(catalog.Fallback(language.English)),
	}
	for syncType, name := range defaultSyncTypeNames {
		_ = namer.builder.SetString(language.English, syncTypeMessageKey(syncType), name)
	}
	return namer
}

func (n *CatalogSyncTypeNamer) SetDisplayName(tag language.Tag, syncType SyncType, name string) error {
	if n == nil {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.builder.SetString(tag, syncTypeMessageKey(syncType), name)
}

func (n *CatalogSyncTypeNamer) DisplayName(tag language.Tag, syncType SyncType) string {
	if syncType == "" {
		return ""
	}
	if n == nil || n.builder == nil {
		return humanizeSyncType(syncType)
	}
	key := syncTypeMessageKey(syncType)

	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, candidate := range []language.Tag{tag, language.English} {
		printer := message.NewPrinter(candidate, message.Catalog(n.builder))
		if name := printer.Sprintf(key); name != key {
			return name
		}
	}
	return humanizeSyncType(syncType)
}

func syncTypeMessageKey(syncType SyncType) string {
	return "wearables.sync_type." + string(syncType)
}

// humanizeSyncType turns "bloodGlucose" into "Blood Glucose".
func humanizeSyncType(syncType SyncType) string {
	raw := strings.TrimSpace(string(syncType))
	var b strings.Builder
	for i, r := range raw {
		if r == '_' || r == '-' {
			b.WriteRune(' ')
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return cases.Title(language.English).String(strings.Join(strings.Fields(b.String()), " "))
}

var _ SyncTypeNamer = (*CatalogSyncTypeNamer)(nil)
