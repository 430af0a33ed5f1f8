package pagination

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       Params
		fallback int
		want     Params
	}{
		{name: "defaults", in: Params{}, want: Params{Page: 1, Limit: DefaultLimit}},
		{name: "fallback", in: Params{Page: 3}, fallback: 20, want: Params{Page: 3, Limit: 20}},
		{name: "clamps", in: Params{Page: -2, Limit: 500}, want: Params{Page: 1, Limit: MaxLimit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(tt.fallback); got != tt.want {
				t.Fatalf("expected %+v got %+v", tt.want, got)
			}
		})
	}
}

func TestOffsetAndTotalPages(t *testing.T) {
	if got := (Params{Page: 3, Limit: 10}).Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
	if got := (Params{}).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
	if got := TotalPages(21, 10); got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}
	if got := TotalPages(0, 10); got != 0 {
		t.Fatalf("expected 0 pages, got %d", got)
	}
	meta := NewMeta(5, Params{Page: 1, Limit: 2})
	if meta.TotalPages != 3 || meta.CurrentPage != 1 || meta.Total != 5 {
		t.Fatalf("unexpected meta %+v", meta)
	}
}
