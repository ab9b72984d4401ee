package store

import (
	"context"
	"sync"
	"testing"
)

func TestGetJWTSecretPersists(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, err := s.GetJWTSecret(ctx)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	if len(first) != 64 {
		t.Fatalf("expected a 32-byte hex secret, got %d chars", len(first))
	}

	again, err := s.GetJWTSecret(ctx)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	if again != first {
		t.Fatalf("secret changed between calls: %q then %q", first, again)
	}
}

func TestGetJWTSecretConcurrentFirstUse(t *testing.T) {
	s, _ := newTestStore(t)

	const callers = 8
	secrets := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			secrets[i], errs[i] = s.GetJWTSecret(context.Background())
		}()
	}
	wg.Wait()

	for i := range callers {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if secrets[i] != secrets[0] {
			t.Fatalf("caller %d got a different secret", i)
		}
	}
}
