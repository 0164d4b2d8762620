package main

import "testing"

func TestParseColorArgs(t *testing.T) {
	tests := []struct {
		args    []string
		want    *[3]uint8
		wantErr bool
	}{
		{args: nil},
		{args: []string{"#ff8000"}, want: &[3]uint8{255, 128, 0}},
		{args: []string{"00FF7f"}, want: &[3]uint8{0, 255, 127}},
		{args: []string{"1", "2", "3"}, want: &[3]uint8{1, 2, 3}},
		{args: []string{"#ff80"}, wantErr: true},
		{args: []string{"#gg0000"}, wantErr: true},
		{args: []string{"1", "2", "256"}, wantErr: true},
		{args: []string{"1", "-2", "3"}, wantErr: true},
		{args: []string{"1", "2"}, wantErr: true},
	}

	for _, tt := range tests {
		req, err := parseColorArgs(tt.args)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
			continue
		}
		if err != nil {
			t.Errorf("%v: %v", tt.args, err)
			continue
		}
		if tt.want == nil {
			if req.R != nil || req.G != nil || req.B != nil {
				t.Errorf("%v: expected no channels", tt.args)
			}
			continue
		}
		got := [3]uint8{*req.R, *req.G, *req.B}
		if got != *tt.want {
			t.Errorf("%v: got %v, want %v", tt.args, got, *tt.want)
		}
		if req.A != nil {
			t.Errorf("%v: brightness set unexpectedly", tt.args)
		}
	}
}

func TestParseEffect(t *testing.T) {
	tests := []struct {
		arg     string
		want    uint8
		wantErr bool
	}{
		{arg: "crossfade_red", want: 0x89},
		{arg: "Blink-White", want: 0x9A},
		{arg: "0x87", want: 0x87},
		{arg: "140", want: 140},
		{arg: "300", wantErr: true},
		{arg: "rainbow", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseEffect(tt.arg)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.arg)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q: got %#x, %v; want %#x", tt.arg, got, err, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	if got, err := parseMode("bpmsync"); err != nil || got != "BpmSync" {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := parseMode("Disco"); err == nil {
		t.Fatal("expected unknown mode to fail")
	}
}

func TestRenderSnapshotWithoutDevice(t *testing.T) {
	requireContains(t, renderSnapshot(nil, false), "not initialized")
}
