package torchext

import (
	"strings"
	"testing"
)

func TestCheckRequiredTools(t *testing.T) {
	missing := "definitely-not-a-real-tool-9f2a"

	testCases := []struct {
		name         string
		requirements []ToolRequirement
		wantErr      bool
	}{
		{
			name:         "no requirements",
			requirements: nil,
			wantErr:      false,
		},
		{
			name: "missing required tool",
			requirements: []ToolRequirement{
				{Name: missing, Purpose: "testing"},
			},
			wantErr: true,
		},
		{
			name: "missing optional tool",
			requirements: []ToolRequirement{
				{Name: missing, Optional: true},
			},
			wantErr: false,
		},
		{
			name: "alternative satisfies requirement",
			requirements: []ToolRequirement{
				{Name: missing, Alternatives: []string{"sh"}},
			},
			wantErr: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckRequiredTools(tc.requirements)
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("expected nil, got %v", err)
			}
		})
	}
}

func TestCheckRequiredToolsReportsAllMissing(t *testing.T) {
	err := CheckRequiredTools([]ToolRequirement{
		{Name: "missing-tool-one-8c1d", Purpose: "first"},
		{Name: "missing-tool-two-8c1d", Purpose: "second"},
	})
	if err == nil {
		t.Fatal("expected error for missing tools")
	}
	if !strings.Contains(err.Error(), "missing-tool-one-8c1d") ||
		!strings.Contains(err.Error(), "missing-tool-two-8c1d") {
		t.Errorf("expected both tools in error, got: %v", err)
	}
}

func TestMatchesExtension(t *testing.T) {
	testCases := []struct {
		filename   string
		extensions []string
		expected   bool
	}{
		{"_torchrl.so", []string{".so"}, true},
		{"_torchrl.PYD", []string{".pyd"}, true},
		{"_torchrl.dylib", []string{".so", ".dylib"}, true},
		{"build.log", []string{".so", ".dylib", ".pyd", ".dll"}, false},
		{"noext", []string{".so"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.filename, func(t *testing.T) {
			result := MatchesExtension(tc.filename, tc.extensions...)
			if result != tc.expected {
				t.Errorf("MatchesExtension(%s, %v) = %v, expected %v",
					tc.filename, tc.extensions, result, tc.expected)
			}
		})
	}
}
