package symtab

import (
	"slices"
	"testing"
)

func TestStrings_Intern(t *testing.T) {
	tab := NewStrings("a", "b")
	tests := []struct {
		sym  string
		want uint32
	}{
		{"a", 0},
		{"b", 1},
		{"c", 2},
		{"a", 0},
		{"d", 3},
		{"c", 2},
	}
	for _, tt := range tests {
		if got := tab.Intern(tt.sym); got != tt.want {
			t.Errorf("Intern(%q) = %d, want %d", tt.sym, got, tt.want)
		}
	}
	if !slices.Equal(tab.List(), []string{"a", "b", "c", "d"}) {
		t.Errorf("List() = %v", tab.List())
	}
	if _, ok := tab.Lookup("zz"); ok {
		t.Error("Lookup should not intern")
	}
	if tab.Len() != 4 {
		t.Errorf("Len() = %d", tab.Len())
	}
}

func TestSealed(t *testing.T) {
	tab := NewSealed([]string{"cell", "free", "cell"})
	if i, ok := tab.Lookup("free"); !ok || i != 1 {
		t.Errorf("Lookup(free) = %d, %v", i, ok)
	}
	if i, _ := tab.Lookup("cell"); i != 0 {
		t.Errorf("Lookup(cell) = %d, want first occurrence", i)
	}
	if _, ok := tab.Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
	if len(tab.List()) != 3 {
		t.Errorf("List() = %v", tab.List())
	}
}

func TestConsts_Intern(t *testing.T) {
	pool := NewConsts()
	tests := []struct {
		name string
		v    any
		want uint32
	}{
		{"first int", int64(42), 0},
		{"repeat int", int64(42), 0},
		{"string", "x", 1},
		{"repeat string", "x", 1},
		{"true is not one", true, 2},
		{"one", int64(1), 3},
		{"float one", 1.0, 4},
		{"bytes", []byte("x"), 5},
		{"repeat bytes", []byte("x"), 5},
		{"none", nil, 6},
		{"repeat none", nil, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pool.Intern(tt.v); got != tt.want {
				t.Errorf("Intern(%#v) = %d, want %d", tt.v, got, tt.want)
			}
		})
	}
	if pool.Len() != 7 {
		t.Errorf("Len() = %d, want 7", pool.Len())
	}
}

func TestConsts_Seed(t *testing.T) {
	pool := NewConsts("doc")
	if got := pool.Intern("doc"); got != 0 {
		t.Errorf("seeded constant index = %d, want 0", got)
	}
	if got := pool.Intern(int64(7)); got != 1 {
		t.Errorf("Intern(7) = %d, want 1", got)
	}
}
