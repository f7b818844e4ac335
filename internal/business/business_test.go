package business

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Cafe Martinez", "cafe-martinez"},
		{"  La Esquina 24  ", "la-esquina-24"},
		{"Pizzeria Don Jose!", "pizzeria-don-jose"},
		{"Sushi -- Bar", "sushi-bar"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.name); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
