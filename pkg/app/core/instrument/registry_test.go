package instrument

import (
	"sync"
	"testing"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry("vale3", "PETR4", " petr4 ")

	if got := r.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
	if !r.Exists("Vale3") {
		t.Error("Exists(Vale3) = false, want true")
	}
	if r.Exists("ITUB4") {
		t.Error("Exists(ITUB4) = true, want false")
	}

	if err := r.Register("ITUB4"); err != nil {
		t.Fatalf("Register(ITUB4): %v", err)
	}
	if err := r.Register("itub4"); err == nil {
		t.Error("duplicate Register succeeded")
	}
	if err := r.Register("  "); err == nil {
		t.Error("empty Register succeeded")
	}

	want := []string{"ITUB4", "PETR4", "VALE3"}
	got := r.List()
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDefaults(t *testing.T) {
	r := NewRegistry(Defaults...)
	if r.Count() != len(Defaults) {
		t.Errorf("Count() = %d, want %d", r.Count(), len(Defaults))
	}
}

func TestRegistryConcurrent(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for _, s := range Defaults {
		wg.Add(2)
		go func(s string) {
			defer wg.Done()
			_ = r.Register(s)
		}(s)
		go func(s string) {
			defer wg.Done()
			_ = r.Exists(s)
			_ = r.List()
		}(s)
	}
	wg.Wait()
	if r.Count() != len(Defaults) {
		t.Errorf("Count() = %d, want %d", r.Count(), len(Defaults))
	}
}
