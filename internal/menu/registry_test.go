package menu

import (
	"strings"
	"testing"
)

func TestBuiltinRegistriesValidate(t *testing.T) {
	if err := Validate(PlatformMenu()); err != nil {
		t.Fatalf("platform menu invalid: %v", err)
	}
	if err := Validate(TenantMenu()); err != nil {
		t.Fatalf("tenant menu invalid: %v", err)
	}
}

func TestValidateRejectsLeafWithoutPath(t *testing.T) {
	err := Validate([]Node{{ID: "ghost", Label: "Ghost"}})
	if err == nil || !strings.Contains(err.Error(), "no path") {
		t.Fatalf("expected leaf-without-path error, got %v", err)
	}
}

func TestValidateRejectsMalformedSlug(t *testing.T) {
	err := Validate([]Node{{ID: "bad", Path: "/bad", RequiredPermissions: []string{"a..b"}}})
	if err == nil || !strings.Contains(err.Error(), "malformed permission") {
		t.Fatalf("expected malformed slug error, got %v", err)
	}
}

func TestValidateRejectsDuplicateIDs(t *testing.T) {
	err := Validate([]Node{
		{ID: "dup", Path: "/a"},
		{ID: "dup", Path: "/b"},
	})
	if err == nil || !strings.Contains(err.Error(), "duplicate node id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	err := Validate([]Node{
		{ID: "", Path: ""},
		{ID: "bad", Path: "/bad", RequiredPermissions: []string{"x.*"}},
	})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "missing id") || !strings.Contains(msg, "malformed permission") {
		t.Fatalf("expected joined errors, got %v", err)
	}
}
