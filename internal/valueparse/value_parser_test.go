package valueparse

import (
	"reflect"
	"testing"
)

func TestParseFloats(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []float64
		wantErr bool
	}{
		{"comma", "120,60", []float64{120, 60}, false},
		{"spaces", "1 0.5 0 1", []float64{1, 0.5, 0, 1}, false},
		{"brackets", "[0.2 0.4 0.6]", []float64{0.2, 0.4, 0.6}, false},
		{"mixed", " .5, -3 ", []float64{0.5, -3}, false},
		{"empty", "", []float64{}, false},
		{"garbage", "1,x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFloats(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFloats(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFloats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFloatsN(t *testing.T) {
	if _, err := ParseFloatsN("1,2", 3); err == nil {
		t.Error("expected arity error")
	}
	got, err := ParseFloatsN("1,2,3", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []float64{1, 2, 3}) {
		t.Errorf("got %v", got)
	}
}

func TestParseIndexList(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{"2,0", []int{2, 0}, false},
		{"0, 1, 3", []int{0, 1, 3}, false},
		{"1,1", []int{1, 1}, false},
		{"", []int{}, false},
		{"-1", nil, true},
		{"a", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIndexList(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIndexList(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseIndexList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
