package session

import "unicode/utf8"

const (
	// HistoryLimit bounds the activity log; older entries drop off the front.
	HistoryLimit = 10
	// DisplayLength is the number of runes kept in an entry's text.
	DisplayLength = 50
)

type Kind string

const (
	KindRecognized  Kind = "recognized"
	KindSynthesized Kind = "synthesized"
)

// ActivityEntry is one line of the activity log.
type ActivityEntry struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Truncate shortens text to DisplayLength runes, marking the cut with "...".
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= DisplayLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:DisplayLength]) + "..."
}

// History is the bounded, append-only activity log, newest last.
type History struct {
	entries []ActivityEntry
}

func (h *History) Append(kind Kind, text string) ActivityEntry {
	e := ActivityEntry{Kind: kind, Text: Truncate(text)}
	h.entries = append(h.entries, e)
	if over := len(h.entries) - HistoryLimit; over > 0 {
		h.entries = append(h.entries[:0:0], h.entries[over:]...)
	}
	return e
}

func (h *History) Clear() {
	h.entries = nil
}

func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy, oldest first.
func (h *History) Entries() []ActivityEntry {
	out := make([]ActivityEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Recent returns up to n entries, newest first.
func (h *History) Recent(n int) []ActivityEntry {
	if n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]ActivityEntry, 0, n)
	for i := len(h.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, h.entries[i])
	}
	return out
}
