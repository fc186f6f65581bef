package core

import (
	"testing"

	"golang.org/x/text/language"
)

func TestCatalogSyncTypeNamer_Defaults(t *testing.T) {
	namer := NewCatalogSyncTypeNamer()
	if got := namer.DisplayName(language.English, SyncTypeBloodGlucose); got != "Blood Glucose" {
		t.Fatalf("expected Blood Glucose, got %q", got)
	}
	if got := namer.DisplayName(language.French, SyncTypeSteps); got != "Steps" {
		t.Fatalf("expected english fallback, got %q", got)
	}
}

func TestCatalogSyncTypeNamer_Localized(t *testing.T) {
	namer := NewCatalogSyncTypeNamer()
	if err := namer.SetDisplayName(language.Spanish, SyncTypeSteps, "Pasos"); err != nil {
		t.Fatalf("set display name: %v", err)
	}
	if got := namer.DisplayName(language.Spanish, SyncTypeSteps); got != "Pasos" {
		t.Fatalf("expected Pasos, got %q", got)
	}
	if got := namer.DisplayName(language.English, SyncTypeSteps); got != "Steps" {
		t.Fatalf("expected english name to be unchanged, got %q", got)
	}
}

func TestCatalogSyncTypeNamer_UnknownTypeIsHumanized(t *testing.T) {
	namer := NewCatalogSyncTypeNamer()
	if got := namer.DisplayName(language.English, SyncType("oxygenSaturation")); got != "Oxygen Saturation" {
		t.Fatalf("expected humanized name, got %q", got)
	}
	if got := humanizeSyncType("vo2_max"); got != "Vo2 Max" {
		t.Fatalf("unexpected humanized name %q", got)
	}
	if got := namer.DisplayName(language.English, ""); got != "" {
		t.Fatalf("expected empty name for empty type, got %q", got)
	}
}
