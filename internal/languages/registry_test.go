package languages

import (
	"errors"
	"sort"
	"testing"
)

func TestRegistry_ResolveEveryDisplayName(t *testing.T) {
	t.Parallel()

	reg := Builtin()
	names := reg.DisplayNames()
	if len(names) != len(builtinNames) {
		t.Fatalf("expected %d names, got %d", len(builtinNames), len(names))
	}

	for _, name := range names {
		code, err := reg.Resolve(name)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", name, err)
		}
		if !reg.Valid(code) {
			t.Errorf("Resolve(%q) returned %q which is not a registry code", name, code)
		}
		back, ok := reg.Name(code)
		if !ok || back != name {
			t.Errorf("Name(%q) = %q, %v; expected %q", code, back, ok, name)
		}
	}
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	t.Parallel()

	reg := Builtin()
	for _, name := range []string{"", "english", "Klingon", "EN", "en"} {
		_, err := reg.Resolve(name)
		if !errors.Is(err, ErrUnknownLanguage) {
			t.Errorf("Resolve(%q): expected ErrUnknownLanguage, got %v", name, err)
		}
	}
}

func TestRegistry_DisplayNamesSorted(t *testing.T) {
	t.Parallel()

	names := Builtin().DisplayNames()
	if !sort.StringsAreSorted(names) {
		t.Error("expected display names in lexicographic order")
	}

	names[0] = "mutated"
	if Builtin().DisplayNames()[0] == "mutated" {
		t.Error("expected DisplayNames to return a copy")
	}
}

func TestRegistry_TitleCasing(t *testing.T) {
	t.Parallel()

	reg := Builtin()
	cases := map[string]Code{
		"English":               "en",
		"Chinese (Simplified)":  "zh-cn",
		"Haitian Creole":        "ht",
		"Myanmar (Burmese)":     "my",
		"Kurdish (Kurmanji)":    "ku",
		"Chinese (Traditional)": "zh-tw",
	}
	for name, want := range cases {
		got, err := reg.Resolve(name)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", name, err)
		}
		if got != want {
			t.Errorf("Resolve(%q) = %q, expected %q", name, got, want)
		}
	}
}

func TestRegistry_RecognitionSupported(t *testing.T) {
	t.Parallel()

	reg := Builtin()
	if !reg.RecognitionSupported("en") {
		t.Error("expected en to be supported for recognition")
	}
	if !reg.RecognitionSupported("zh-cn") {
		t.Error("expected zh-cn to be supported for recognition")
	}
	if reg.RecognitionSupported("haw") {
		t.Error("expected haw to have limited recognition support")
	}
	for _, code := range recognitionAllowlist {
		if !reg.Valid(code) {
			t.Errorf("allowlisted code %q missing from registry", code)
		}
	}
}

func TestBCP47(t *testing.T) {
	t.Parallel()

	if got := BCP47("zh-cn"); got != "zh-CN" {
		t.Errorf("expected zh-CN, got %q", got)
	}
	if got := BCP47("es"); got != "es" {
		t.Errorf("expected es, got %q", got)
	}
	if got := BCP47("not a tag"); got != "not a tag" {
		t.Errorf("expected unparseable code unchanged, got %q", got)
	}
}
