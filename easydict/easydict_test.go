package easydict

import (
	"errors"
	"testing"
)

func TestSetAndGet(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		value any
	}{
		{name: "top level", path: "name", value: "resnet"},
		{name: "nested", path: "train.optimizer.lr", value: 0.001},
		{name: "deeply nested", path: "a.b.c.d.e", value: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			if err := d.Set(tt.path, tt.value); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			got, err := d.Get(tt.path)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got != tt.value {
				t.Errorf("Get = %v, want %v", got, tt.value)
			}
		})
	}
}

func TestGetMissingKey(t *testing.T) {
	d := From(map[string]any{"a": map[string]any{"b": 1}})

	for _, path := range []string{"missing", "a.missing", "missing.b"} {
		if _, err := d.Get(path); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) err = %v, want ErrNotFound", path, err)
		}
	}
}

func TestGetThroughNonDict(t *testing.T) {
	d := From(map[string]any{"a": 1})
	if _, err := d.Get("a.b"); err == nil {
		t.Fatal("expected error traversing through a scalar")
	}
}

func TestFromPromotesNestedMaps(t *testing.T) {
	d := From(map[string]any{
		"model": map[string]any{"depth": 50},
		"tags":  []any{map[string]any{"k": "v"}},
	})

	sub, err := d.Sub("model")
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	if got, err := sub.Int("depth"); err != nil || got != 50 {
		t.Errorf("depth = %v (%v), want 50", got, err)
	}

	list, err := d.Get("tags")
	if err != nil {
		t.Fatalf("Get tags failed: %v", err)
	}
	if _, ok := list.([]any)[0].(Dict); !ok {
		t.Error("map inside a slice was not promoted to Dict")
	}
}

func TestTypedAccessors(t *testing.T) {
	d := From(map[string]any{
		"name":    "stutil",
		"epochs":  "100",
		"lr":      0.1,
		"verbose": "true",
	})

	if got, err := d.String("name"); err != nil || got != "stutil" {
		t.Errorf("String = %q (%v)", got, err)
	}
	if got, err := d.Int("epochs"); err != nil || got != 100 {
		t.Errorf("Int = %d (%v)", got, err)
	}
	if got, err := d.Float64("lr"); err != nil || got != 0.1 {
		t.Errorf("Float64 = %v (%v)", got, err)
	}
	if got, err := d.Bool("verbose"); err != nil || !got {
		t.Errorf("Bool = %v (%v)", got, err)
	}
}

func TestDelete(t *testing.T) {
	d := From(map[string]any{"a": map[string]any{"b": 1, "c": 2}})

	d.Delete("a.b")
	if d.Has("a.b") {
		t.Error("a.b still present after Delete")
	}
	if !d.Has("a.c") {
		t.Error("Delete removed a sibling key")
	}

	// Deleting a missing path is a no-op.
	d.Delete("x.y.z")
}

func TestMerge(t *testing.T) {
	d := From(map[string]any{
		"train": map[string]any{"lr": 0.1, "epochs": 10},
		"name":  "base",
	})
	d.Merge(From(map[string]any{
		"train": map[string]any{"lr": 0.01},
		"name":  "override",
	}))

	if got, _ := d.Float64("train.lr"); got != 0.01 {
		t.Errorf("train.lr = %v, want 0.01", got)
	}
	if got, _ := d.Int("train.epochs"); got != 10 {
		t.Errorf("train.epochs = %d, want 10", got)
	}
	if got, _ := d.String("name"); got != "override" {
		t.Errorf("name = %q, want %q", got, "override")
	}
}

func TestDecode(t *testing.T) {
	type optimizer struct {
		LR float64 `mapstructure:"lr"`
	}
	type config struct {
		Name      string    `mapstructure:"name"`
		Epochs    int       `mapstructure:"epochs"`
		Optimizer optimizer `mapstructure:"optimizer"`
	}

	d := From(map[string]any{
		"name":      "resnet",
		"epochs":    "90",
		"optimizer": map[string]any{"lr": 0.1},
	})

	var cfg config
	if err := d.Decode(&cfg); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if cfg.Name != "resnet" || cfg.Epochs != 90 || cfg.Optimizer.LR != 0.1 {
		t.Errorf("decoded config = %+v", cfg)
	}
}

func TestPlain(t *testing.T) {
	d := New()
	if err := d.Set("a.b", 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	plain := d.Plain()
	inner, ok := plain["a"].(map[string]any)
	if !ok {
		t.Fatalf("a = %T, want map[string]any", plain["a"])
	}
	if inner["b"] != 1 {
		t.Errorf("a.b = %v, want 1", inner["b"])
	}
}
