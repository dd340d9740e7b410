// Package languages holds the static language registry shared by every session.
package languages

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
)

// Code identifies a language for recognition, translation and synthesis.
type Code string

const (
	// Default is the language every new session starts with.
	Default Code = "en"
	// Auto asks the transcription backend to detect the spoken language.
	Auto Code = ""
)

var ErrUnknownLanguage = errors.New("unknown language")

// Registry maps display names to codes. It is immutable once built.
type Registry struct {
	byName      map[string]Code
	byCode      map[Code]string
	names       []string
	recognition map[Code]struct{}
}

// NewRegistry builds a registry from a code → english name table.
// Names are title-cased for display ("chinese (simplified)" → "Chinese (Simplified)").
func NewRegistry(table map[Code]string, recognition []Code) *Registry {
	title := cases.Title(xlanguage.English)

	r := &Registry{
		byName:      make(map[string]Code, len(table)),
		byCode:      make(map[Code]string, len(table)),
		recognition: make(map[Code]struct{}, len(recognition)),
	}
	for code, name := range table {
		display := title.String(name)
		r.byName[display] = code
		r.byCode[code] = display
	}

	r.names = make([]string, 0, len(r.byName))
	for name := range r.byName {
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)

	for _, code := range recognition {
		r.recognition[code] = struct{}{}
	}
	return r
}

var builtin = sync.OnceValue(func() *Registry {
	return NewRegistry(builtinNames, recognitionAllowlist)
})

// Builtin returns the process-wide registry.
func Builtin() *Registry {
	return builtin()
}

// Resolve returns the code for a display name.
func (r *Registry) Resolve(displayName string) (Code, error) {
	code, ok := r.byName[strings.TrimSpace(displayName)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, displayName)
	}
	return code, nil
}

// DisplayNames returns every display name in lexicographic order.
// The slice is a copy.
func (r *Registry) DisplayNames() []string {
	return append([]string(nil), r.names...)
}

func (r *Registry) Name(code Code) (string, bool) {
	name, ok := r.byCode[code]
	return name, ok
}

func (r *Registry) Valid(code Code) bool {
	_, ok := r.byCode[code]
	return ok
}

// RecognitionSupported reports whether speech recognition is expected to work
// well for code. Other registry languages still work, with varying results.
func (r *Registry) RecognitionSupported(code Code) bool {
	_, ok := r.recognition[code]
	return ok
}

// BCP47 normalizes a code into a locale tag ("zh-cn" → "zh-CN").
// Codes the tag parser rejects are returned unchanged.
func BCP47(code Code) string {
	tag, err := xlanguage.Parse(string(code))
	if err != nil {
		return string(code)
	}
	return tag.String()
}
