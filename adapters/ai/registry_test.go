package ai

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/elum-utils/safetymonitor/interfaces"
	"github.com/elum-utils/safetymonitor/models"
)

type namedGenerator struct{ key string }

func (n namedGenerator) Name() string { return n.key }
func (n namedGenerator) Generate(context.Context, string) (string, error) {
	return "", nil
}

func TestRegistryEmptyKeyWithoutClient(t *testing.T) {
	r := NewRegistryWithFactory(func(string) (interfaces.Generator, error) {
		t.Fatalf("factory must not be called")
		return nil, nil
	})
	if _, err := r.ClientFor("  "); !errors.Is(err, models.ErrClientNotInitialized) {
		t.Fatalf("expected not initialized, got %v", err)
	}
}

func TestRegistryMemoizesPerKey(t *testing.T) {
	var created atomic.Int64
	r := NewRegistryWithFactory(func(key string) (interfaces.Generator, error) {
		created.Add(1)
		return namedGenerator{key: key}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.ClientFor("k1"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if created.Load() != 1 {
		t.Fatalf("expected one client for k1, got %d", created.Load())
	}

	c2, err := r.ClientFor("k2")
	if err != nil || c2.Name() != "k2" {
		t.Fatalf("unexpected client: %v %v", c2, err)
	}
	last, err := r.ClientFor("")
	if err != nil || last.Name() != "k2" {
		t.Fatalf("empty key must reuse the latest client, got %v %v", last, err)
	}
	if r.Len() != 2 || created.Load() != 2 {
		t.Fatalf("unexpected registry size %d created %d", r.Len(), created.Load())
	}
}

func TestRegistryFactoryErrorNotCached(t *testing.T) {
	var calls atomic.Int64
	r := NewRegistryWithFactory(func(key string) (interfaces.Generator, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("boom")
		}
		return namedGenerator{key: key}, nil
	})
	if _, err := r.ClientFor("k"); err == nil {
		t.Fatalf("expected factory error")
	}
	if _, err := r.ClientFor("k"); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
}

func TestNewRegistryBuildsGemini(t *testing.T) {
	r := NewRegistry(RegistryOptions{Model: "m"})
	c, err := r.ClientFor("key")
	if err != nil {
		t.Fatal(err)
	}
	if c.Name() != "gemini" {
		t.Fatalf("unexpected client: %s", c.Name())
	}
}
