package pagination

import "testing"

func TestNew_Clamps(t *testing.T) {
	tests := []struct {
		name          string
		limit, offset int
		want          Params
	}{
		{"valid", 10, 5, Params{Limit: 10, Offset: 5}},
		{"negative limit", -1, 0, Params{Limit: 0, Offset: 0}},
		{"over max", 500, 0, Params{Limit: MaxLimit, Offset: 0}},
		{"negative offset", 10, -3, Params{Limit: 10, Offset: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.limit, tt.offset); got != tt.want {
				t.Errorf("New(%d, %d) = %+v, want %+v", tt.limit, tt.offset, got, tt.want)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	got, total := Slice(items, Params{Limit: 2, Offset: 1})
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("unexpected window %v", got)
	}

	got, _ = Slice(items, All())
	if len(got) != 5 {
		t.Errorf("expected all 5 items, got %v", got)
	}

	got, _ = Slice(items, Params{Limit: 10, Offset: 3})
	if len(got) != 2 {
		t.Errorf("expected tail of 2, got %v", got)
	}

	got, total = Slice(items, Params{Limit: 2, Offset: 9})
	if len(got) != 0 || total != 5 {
		t.Errorf("expected empty window past end, got %v (total %d)", got, total)
	}
}

func TestSlice_ReturnsCopy(t *testing.T) {
	items := []int{1, 2, 3}
	got, _ := Slice(items, All())
	got[0] = 99
	if items[0] != 1 {
		t.Error("Slice must not alias the input")
	}
}

func TestParams_HasNext(t *testing.T) {
	tests := []struct {
		name  string
		p     Params
		total int
		want  bool
	}{
		{"more results", Params{Limit: 10, Offset: 0}, 25, true},
		{"last page", Params{Limit: 10, Offset: 20}, 25, false},
		{"exact boundary", Params{Limit: 10, Offset: 10}, 20, false},
		{"unbounded", Params{}, 25, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.HasNext(tt.total); got != tt.want {
				t.Errorf("HasNext(%d) = %v, want %v", tt.total, got, tt.want)
			}
		})
	}
}

func TestParams_NextOffset(t *testing.T) {
	if got := (Params{Limit: 10, Offset: 30}).NextOffset(); got != 40 {
		t.Errorf("expected 40, got %d", got)
	}
}

func TestNewPage(t *testing.T) {
	p := Params{Limit: 2}
	items, total := Slice([]string{"a", "b", "c"}, p)
	page := NewPage(items, total, p)
	if !page.HasMore || page.Total != 3 || len(page.Items) != 2 {
		t.Errorf("unexpected page %+v", page)
	}
}
