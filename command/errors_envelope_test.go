package command

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-wearables/core"
)

func TestToggleIntegrationMessage_ValidateReturnsRichError(t *testing.T) {
	err := (ToggleIntegrationMessage{}).Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation category, got %q", rich.Category)
	}
	if rich.TextCode != core.EngineErrorBadInput {
		t.Fatalf("expected %q text code, got %q", core.EngineErrorBadInput, rich.TextCode)
	}
}

func TestToggleBackgroundSyncMessage_RejectsUnsupportedProvider(t *testing.T) {
	err := (ToggleBackgroundSyncMessage{Integration: core.WearableIntegration{ProviderID: "garmin"}}).Validate()
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Category != goerrors.CategoryBadInput {
		t.Fatalf("expected bad input error, got %v", err)
	}
}

func TestToggleIntegrationCommand_NilServiceReturnsRichError(t *testing.T) {
	var cmd *ToggleIntegrationCommand
	err := cmd.Execute(context.Background(), ToggleIntegrationMessage{})
	if err == nil {
		t.Fatalf("expected command dependency error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
}
