package model

import (
	"errors"
	"testing"
)

func TestNewProjectDraft(t *testing.T) {
	tests := []struct {
		name     string
		category ProjectCategory
		wantErr  error
	}{
		{name: "logo", category: CategoryLogo},
		{name: "web ui", category: CategoryWebUI},
		{name: "poster", category: CategoryPoster},
		{name: "filter value is not a category", category: CategoryAll, wantErr: ErrInvalidCategory},
		{name: "unknown", category: "Video", wantErr: ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := NewProjectDraft("", tt.category, "", "", nil, "")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err == nil && draft.Tools == nil {
				t.Fatalf("tools must be non-nil")
			}
		})
	}
}

func TestNewOrderDraft(t *testing.T) {
	if _, err := NewOrderDraft("Test", "Growth Plan", OrderStatusPending, 24999, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewOrderDraft("Test", "Growth Plan", "Shipped", 1, ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if _, err := NewOrderDraft("Test", "Growth Plan", OrderStatusPending, -1, ""); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("err = %v, want ErrNegativeAmount", err)
	}
}
