package common

import (
	"strings"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}

	tests := []struct {
		name      string
		format    string
		supported []string
		wantErr   bool
	}{
		{"supported format", "json", supported, false},
		{"another supported format", "markdown", supported, false},
		{"unsupported format", "yaml", supported, true},
		{"empty format", "", supported, true},
		{"no restriction configured", "anything", nil, false},
		{"empty restriction list", "anything", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.wantErr && err == nil {
				t.Errorf("Expected error for format %q", tt.format)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error for format %q: %v", tt.format, err)
			}
		})
	}
}

func TestValidateOutputFormatErrorListsSupported(t *testing.T) {
	err := ValidateOutputFormat("yaml", []string{"json", "text"})
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !strings.Contains(err.Error(), "json, text") {
		t.Errorf("Expected supported formats in error, got: %v", err)
	}
}
