package database

import (
	"recommendationService/pkg/config"
	"testing"
)

func TestDialectorFor(t *testing.T) {
	tests := []struct {
		driver   string
		wantName string
		wantErr  bool
	}{
		{config.DriverPostgres, "postgres", false},
		{config.DriverMySQL, "mysql", false},
		{config.DriverMemory, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := dialectorFor(config.DatabaseConfig{Driver: tt.driver, URI: "postgres://localhost/x"})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", d.Name(), tt.wantName)
			}
		})
	}
}

func TestClose_Nil(t *testing.T) {
	if err := Close(nil); err != nil {
		t.Fatalf("Close(nil) = %v", err)
	}
}
