package ptr_test

import (
	"testing"

	"github.com/myrjola/cyclefit/internal/ptr"
)

func TestRef(t *testing.T) {
	level := 3
	p := ptr.Ref(level)
	if p == nil || *p != 3 {
		t.Fatalf("Ref(3) = %v", p)
	}
	level = 5
	if *p != 3 {
		t.Error("Ref must copy the value")
	}
}

func TestValueOr(t *testing.T) {
	tests := []struct {
		name string
		p    *string
		want string
	}{
		{name: "nil", p: nil, want: "General Fitness"},
		{name: "set", p: ptr.Ref("Toning"), want: "Toning"},
		{name: "empty", p: ptr.Ref(""), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ptr.ValueOr(tt.p, "General Fitness"); got != tt.want {
				t.Errorf("ValueOr() = %q, want %q", got, tt.want)
			}
		})
	}
}
