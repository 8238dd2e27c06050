package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid email", "colette@exemple.fr", false},
		{"Valid email with subdomain", "victor.hugo@mail.exemple.fr", false},
		{"Missing at sign", "colette.exemple.fr", true},
		{"Missing domain dot", "colette@exemple", true},
		{"Empty", "", true},
		{"Double at sign", "a@b@c.fr", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid username", "george_sand", false},
		{"Minimum length", "abc", false},
		{"Too short", "ab", true},
		{"Too long", strings.Repeat("a", 51), true},
		{"Maximum length", strings.Repeat("a", 50), false},
		{"Leading space", " colette", true},
		{"Trailing space", "colette ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Short password accepted", "abc", false},
		{"Empty rejected", "", true},
		{"Too long rejected", strings.Repeat("x", 129), true},
		{"Boundary length accepted", strings.Repeat("x", 128), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRating(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name    string
		rating  *int
		wantErr bool
	}{
		{"Nil rating is optional", nil, false},
		{"Minimum", intPtr(1), false},
		{"Maximum", intPtr(5), false},
		{"Zero rejected", intPtr(0), true},
		{"Above maximum rejected", intPtr(6), true},
		{"Negative rejected", intPtr(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRating(tt.rating)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
