package providers_test

import (
	"reflect"
	"testing"

	"mercator-hq/scribe/internal/providertest"
	"mercator-hq/scribe/pkg/providers"
)

func TestRegistry(t *testing.T) {
	r, err := providers.NewRegistry(
		providertest.NewFakeAdapter("zeta", 0.1, "x"),
		providertest.NewFakeAdapter("alpha", 0.9, "x"),
		providertest.NewFakeAdapter("mid", 0.5, "x").SetConfigured(false),
	)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	if got, want := r.Names(), []string{"alpha", "mid", "zeta"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if got := len(r.Configured()); got != 2 {
		t.Errorf("len(Configured()) = %d, want 2", got)
	}
	if _, err := r.Get("mid"); err != nil {
		t.Errorf("Get(mid) error = %v", err)
	}
	if _, err := r.Get("missing"); err == nil {
		t.Error("Get(missing) should fail")
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	_, err := providers.NewRegistry(
		providertest.NewFakeAdapter("dup", 0.1, "x"),
		providertest.NewFakeAdapter("dup", 0.2, "x"),
	)
	if err == nil {
		t.Fatal("NewRegistry() should reject duplicate names")
	}
}
