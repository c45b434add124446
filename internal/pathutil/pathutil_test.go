package pathutil

import (
	"reflect"
	"testing"
)

func TestExtractParams(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     map[string]bool
	}{
		{
			name:     "two parameters",
			template: "/pets/{petId}/owners/{ownerId}",
			want:     map[string]bool{"petId": true, "ownerId": true},
		},
		{
			name:     "no parameters",
			template: "/pets",
			want:     map[string]bool{},
		},
		{
			name:     "parameter mid-segment",
			template: "/files/{name}.json",
			want:     map[string]bool{"name": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractParams(tt.template); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractParams(%q) = %v, want %v", tt.template, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		collides bool
	}{
		{name: "different names collide", a: "/users/{id}", b: "/users/{name}", collides: true},
		{name: "identical collide", a: "/users/{id}", b: "/users/{id}", collides: true},
		{name: "different structure", a: "/users/{id}", b: "/users/{id}/pets", collides: false},
		{name: "literal vs template", a: "/users/me", b: "/users/{id}", collides: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.a) == Normalize(tt.b)
			if got != tt.collides {
				t.Errorf("Normalize(%q) == Normalize(%q) = %v, want %v", tt.a, tt.b, got, tt.collides)
			}
		})
	}
}

func TestCheckTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		wantErr  bool
	}{
		{name: "plain path", template: "/pets", wantErr: false},
		{name: "single parameter", template: "/pets/{petId}", wantErr: false},
		{name: "empty braces", template: "/pets/{}", wantErr: true},
		{name: "unclosed brace", template: "/pets/{petId", wantErr: true},
		{name: "unopened brace", template: "/pets/petId}", wantErr: true},
		{name: "nested braces", template: "/pets/{{petId}}", wantErr: true},
		{name: "consecutive slashes", template: "/pets//toys", wantErr: true},
		{name: "fragment character", template: "/pets#all", wantErr: true},
		{name: "query character", template: "/pets?all", wantErr: true},
		{name: "duplicate parameter", template: "/pets/{id}/toys/{id}", wantErr: true},
		{name: "whitespace-only name", template: "/pets/{ }", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTemplate(tt.template)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckTemplate(%q) error = %v, wantErr %v", tt.template, err, tt.wantErr)
			}
		})
	}
}
