package config

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRegistry_GetOrCreate(t *testing.T) {
	registry := NewRegistry()

	if registry.Get() != nil {
		t.Fatal("expected empty registry before first GetOrCreate")
	}

	first, err := registry.GetOrCreate(validBase(t), WithoutEnv())
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := registry.GetOrCreate(nil)
	if err != nil {
		t.Fatalf("GetOrCreate (second): %v", err)
	}
	if first != second {
		t.Error("expected the same instance on repeated calls")
	}
	if registry.Get() != first {
		t.Error("expected Get to return the shared instance")
	}
}

func TestRegistry_ConstructionFailureLeavesRegistryEmpty(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.GetOrCreate(map[string]string{}, WithoutEnv())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T (%v)", err, err)
	}
	if registry.Get() != nil {
		t.Error("expected no instance to be retained after a failed construction")
	}

	// A later valid construction succeeds.
	if _, err := registry.GetOrCreate(validBase(t), WithoutEnv()); err != nil {
		t.Fatalf("GetOrCreate after failure: %v", err)
	}
}

func TestRegistry_PatchOnExisting(t *testing.T) {
	registry := NewRegistry()

	m, err := registry.GetOrCreate(validBase(t), WithoutEnv())
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if m.BrowserType() != DefaultBrowserType {
		t.Fatalf("expected default browser type, got %q", m.BrowserType())
	}

	patched, err := registry.GetOrCreate(map[string]string{KeyBrowserType: "webkit"})
	if err != nil {
		t.Fatalf("GetOrCreate (patch): %v", err)
	}
	if patched != m {
		t.Fatal("expected patch to target the existing instance")
	}
	if m.BrowserType() != "webkit" {
		t.Errorf("expected patched browser type %q, got %q", "webkit", m.BrowserType())
	}
}

func TestRegistry_PatchSkipsValidation(t *testing.T) {
	registry := NewRegistry()

	if _, err := registry.GetOrCreate(validBase(t), WithoutEnv()); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	// Clearing the credentials through a patch would fail construction-time
	// validation; a patch applies it without complaint.
	m, err := registry.GetOrCreate(map[string]string{
		KeyLLMModelName:   "",
		KeyLLMModelAPIKey: "",
	})
	if err != nil {
		t.Fatalf("expected patch to skip re-validation, got %v", err)
	}
	if m.LLMModelName() != "" {
		t.Errorf("expected cleared model name, got %q", m.LLMModelName())
	}
}

func TestRegistry_PatchIgnoresOptions(t *testing.T) {
	registry := NewRegistry()

	if _, err := registry.GetOrCreate(validBase(t), WithoutEnv()); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	// Options on later calls are ignored; this lookup would change the
	// browser type if a reconstruction happened.
	m, err := registry.GetOrCreate(nil,
		WithEnvLookup(testLookup(map[string]string{KeyBrowserType: "webkit"})),
	)
	if err != nil {
		t.Fatalf("GetOrCreate (repeat): %v", err)
	}
	if m.BrowserType() != DefaultBrowserType {
		t.Errorf("expected options ignored on repeat call, got browser type %q", m.BrowserType())
	}
}

func TestRegistry_Reset(t *testing.T) {
	registry := NewRegistry()

	first, err := registry.GetOrCreate(validBase(t), WithoutEnv())
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	first.SetTestID("run42")

	registry.Reset()
	if registry.Get() != nil {
		t.Fatal("expected empty registry after Reset")
	}

	second, err := registry.GetOrCreate(validBase(t), WithoutEnv())
	if err != nil {
		t.Fatalf("GetOrCreate after Reset: %v", err)
	}
	if second == first {
		t.Error("expected a fresh instance after Reset")
	}
	if second.TestID() != DefaultTestID {
		t.Errorf("expected fresh instance to inherit nothing, test ID %q", second.TestID())
	}
}

func TestRegistry_ConcurrentGetOrCreate(t *testing.T) {
	registry := NewRegistry()
	base := validBase(t)

	var wg sync.WaitGroup
	managers := make([]*Manager, 8)
	for i := range managers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := registry.GetOrCreate(base, WithoutEnv())
			if err != nil {
				t.Errorf("GetOrCreate: %v", err)
				return
			}
			managers[i] = m
		}(i)
	}
	wg.Wait()

	for i, m := range managers {
		if m != managers[0] {
			t.Fatalf("goroutine %d observed a different instance", i)
		}
	}
}

func TestRegistry_PatchConcurrentWithReaders(t *testing.T) {
	registry := NewRegistry()

	m, err := registry.GetOrCreate(validBase(t), WithoutEnv())
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		browsers := []string{"chromium", "firefox", "webkit"}
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			if _, err := registry.GetOrCreate(map[string]string{
				KeyBrowserType: browsers[i%len(browsers)],
			}); err != nil {
				t.Errorf("GetOrCreate (patch): %v", err)
				return
			}
		}
	}()

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				switch got := m.BrowserType(); got {
				case "chromium", "firefox", "webkit":
				default:
					t.Errorf("unexpected browser type %q", got)
					return
				}
				if snap := m.Snapshot(); snap[KeyMode] != DefaultMode {
					t.Errorf("unexpected mode %q", snap[KeyMode])
					return
				}
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(done)
	wg.Wait()
}

func TestDefault_IsStable(t *testing.T) {
	if Default() != Default() {
		t.Error("expected a single process-wide registry")
	}
}

func TestNewRegistry_Independent(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()

	if _, err := a.GetOrCreate(validBase(t), WithoutEnv()); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if b.Get() != nil {
		t.Error("expected registries to share no state")
	}
}
