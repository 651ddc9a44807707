package bytesize

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ByteSize
		wantErr bool
	}{
		{"plain bytes", "1024", 1024, false},
		{"binary mebibytes", "100Mi", 100 * MiB, false},
		{"binary gibibytes", "1GiB", 1 * GiB, false},
		{"decimal megabytes", "100MB", 100 * MB, false},
		{"case insensitive", "1gi", 1 * GiB, false},
		{"space between", "1 Gi", 1 * GiB, false},
		{"fractional", "1.5Mi", ByteSize(1.5 * float64(MiB)), false},
		{"empty", "", 0, true},
		{"whitespace only", "   ", 0, true},
		{"unknown unit", "1Xi", 0, true},
		{"no number", "Gi", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestByteSizeUnmarshalText(t *testing.T) {
	var b ByteSize
	if err := b.UnmarshalText([]byte("512Mi")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if b != 512*MiB {
		t.Fatalf("got %d, want %d", b, 512*MiB)
	}
	if err := new(ByteSize).UnmarshalText([]byte("garbage")); err == nil {
		t.Fatal("expected error for garbage input")
	}
}

func TestByteSizeString(t *testing.T) {
	tests := []struct {
		input ByteSize
		want  string
	}{
		{512, "512B"},
		{2 * KiB, "2.00KiB"},
		{100 * MiB, "100.00MiB"},
		{1 * GiB, "1.00GiB"},
	}
	for _, tt := range tests {
		if got := tt.input.String(); got != tt.want {
			t.Errorf("ByteSize(%d).String() = %q, want %q", tt.input, got, tt.want)
		}
	}
}
