package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "Priya Sharma", false},
		{"Empty", "", true},
		{"Whitespace only", "   ", true},
		{"Exactly max length", strings.Repeat("a", 100), false},
		{"Too long", strings.Repeat("a", 101), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Name(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMobileNumber(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "9876543210", false},
		{"Leading zero", "0123456789", false},
		{"Too short", "123456789", true},
		{"Too long", "12345678901", true},
		{"Letters", "987654321a", true},
		{"Country code", "+919876543210", true},
		{"Spaces", "98765 43210", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MobileNumber(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "user@example.com", false},
		{"Subdomain", "user@mail.example.co.in", false},
		{"Plus tag", "user+tag@example.com", false},
		{"Missing at", "userexample.com", true},
		{"Missing domain dot", "user@example", true},
		{"Whitespace", "us er@example.com", true},
		{"Missing local part", "@example.com", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Email(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
