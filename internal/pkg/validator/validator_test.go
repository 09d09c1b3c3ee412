package validator

import (
	"errors"
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", "2024-02-29"}
	invalid := []string{"2023-13-01", "2023-02-30", "01-01-2023", "", "2023/01/01"}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{"2024-01-15T10:30:00Z", "2024-01-15T10:30:00+07:00", "2024-01-15T10:30:00.123Z"}
	invalid := []string{"2024-01-15", "10:30", ""}
	for _, s := range valid {
		if _, ok := IsValidDateTime(s); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDateTime(s); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", s)
		}
	}
}

type pingPayload struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	Method    string  `json:"method" validate:"required,oneof=code fingerprint face session"`
}

func TestStruct(t *testing.T) {
	if err := Struct(pingPayload{Latitude: -6.2, Longitude: 106.8, Method: "code"}); err != nil {
		t.Fatalf("Struct(valid) = %v, want nil", err)
	}

	err := Struct(pingPayload{Latitude: 120, Longitude: 106.8, Method: "pigeon"})
	var ve ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("Struct(invalid) = %T, want ValidationErrors", err)
	}
	got := ve.ToMap()
	if _, ok := got["latitude"]; !ok {
		t.Errorf("expected latitude error, got %v", got)
	}
	if _, ok := got["method"]; !ok {
		t.Errorf("expected method error, got %v", got)
	}
	if _, ok := got["longitude"]; ok {
		t.Errorf("unexpected longitude error in %v", got)
	}
}

func TestMerge(t *testing.T) {
	a := ValidationErrors{{Field: "a", Message: "x"}}
	b := ValidationErrors{{Field: "b", Message: "y"}}

	if err := Merge(nil, nil); err != nil {
		t.Errorf("Merge(nil, nil) = %v, want nil", err)
	}

	var ve ValidationErrors
	if err := Merge(a, nil, b); !errors.As(err, &ve) || len(ve) != 2 {
		t.Errorf("Merge(a, b) = %v, want two field errors", err)
	}

	boom := errors.New("boom")
	if err := Merge(a, boom); err != boom {
		t.Errorf("Merge(a, boom) = %v, want boom", err)
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"annual", "sick"}
	if !IsInSlice("sick", slice) {
		t.Error("IsInSlice(sick) = false, want true")
	}
	if IsInSlice("unpaid", slice) {
		t.Error("IsInSlice(unpaid) = true, want false")
	}
}
