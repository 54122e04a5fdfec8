package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenSessionRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		identity string
		wantErr  bool
	}{
		{name: "Success_Plain", identity: "alice", wantErr: false},
		{name: "Success_Email", identity: "alice@clinic.example", wantErr: false},
		{name: "Error_Empty", identity: "", wantErr: true},
		{name: "Error_Blank", identity: "   ", wantErr: true},
		{name: "Error_SurroundingWhitespace", identity: " alice ", wantErr: true},
		{name: "Error_TooLong", identity: strings.Repeat("a", 256), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := OpenSessionRequest{Identity: tt.identity}
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNavigateRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "Success_Absolute", path: "/cashier/payment", wantErr: false},
		{name: "Success_Root", path: "/", wantErr: false},
		{name: "Error_Empty", path: "", wantErr: true},
		{name: "Error_Relative", path: "cashier/payment", wantErr: true},
		{name: "Error_Whitespace", path: "/cashier payment", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NavigateRequest{Path: tt.path}
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			chrome := ChromeRequest{Path: tt.path}
			assert.Equal(t, err != nil, chrome.Validate() != nil)
		})
	}
}
