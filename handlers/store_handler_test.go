package handlers

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Nike", "nike"},
		{"Foot Locker", "foot-locker"},
		{"Tony's Pizza", "tony-s-pizza"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.name); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
