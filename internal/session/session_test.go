package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
	"github.com/Vovarama1992/speakmosaic/internal/speech"
)

func TestNewState_Defaults(t *testing.T) {
	t.Parallel()

	st := NewState("s", time.Now())
	if st.Selected != "en" || st.Previous != "" {
		t.Errorf("expected en/absent, got %q/%q", st.Selected, st.Previous)
	}
	if st.Gender != speech.Female || st.FontSize != DefaultFontSize {
		t.Errorf("unexpected defaults gender=%q font=%d", st.Gender, st.FontSize)
	}
	if st.History.Len() != 0 || st.DarkMode || st.Onboarded {
		t.Error("expected empty history, light mode, onboarding pending")
	}
}

func TestState_SwapInvolution(t *testing.T) {
	t.Parallel()

	st := NewState("s", time.Now())
	if st.Swap() {
		t.Fatal("expected no-op swap without previous language")
	}
	if st.Selected != "en" {
		t.Errorf("swap without previous must not change selection, got %q", st.Selected)
	}

	if _, err := st.SelectLanguage(languages.Builtin(), "French"); err != nil {
		t.Fatalf("SelectLanguage failed: %v", err)
	}
	if st.Selected != "fr" || st.Previous != "en" {
		t.Fatalf("expected fr/en, got %q/%q", st.Selected, st.Previous)
	}

	st.Swap()
	if st.Selected != "en" || st.Previous != "fr" {
		t.Errorf("expected en/fr after swap, got %q/%q", st.Selected, st.Previous)
	}
	st.Swap()
	if st.Selected != "fr" || st.Previous != "en" {
		t.Errorf("expected swap twice to restore, got %q/%q", st.Selected, st.Previous)
	}
}

func TestState_SelectSameLanguageKeepsPrevious(t *testing.T) {
	t.Parallel()

	reg := languages.Builtin()
	st := NewState("s", time.Now())
	st.SelectLanguage(reg, "Spanish")
	st.SelectLanguage(reg, "Spanish")
	if st.Previous != "en" {
		t.Errorf("expected previous en, got %q", st.Previous)
	}

	if _, err := st.SelectLanguage(reg, "Klingon"); !errors.Is(err, languages.ErrUnknownLanguage) {
		t.Errorf("expected ErrUnknownLanguage, got %v", err)
	}
	if st.Selected != "es" {
		t.Errorf("failed selection must not change state, got %q", st.Selected)
	}
}

func TestState_ClearAndTransfer(t *testing.T) {
	t.Parallel()

	st := NewState("s", time.Now())
	st.SetInput("draft")
	st.SetRecognized("  spoken words ")
	st.Clear()
	if st.InputText != "" {
		t.Errorf("expected empty input, got %q", st.InputText)
	}
	if st.RecognizedText != "  spoken words " {
		t.Errorf("clear must not touch recognized text, got %q", st.RecognizedText)
	}

	st.TransferRecognized()
	if st.InputText != "  spoken words " {
		t.Errorf("expected verbatim transfer, got %q", st.InputText)
	}
}

func TestState_FontSizeClamped(t *testing.T) {
	t.Parallel()

	st := NewState("s", time.Now())
	for in, want := range map[int]int{4: 12, 12: 12, 20: 20, 32: 32, 99: 32} {
		if got := st.SetFontSize(in); got != want {
			t.Errorf("SetFontSize(%d): expected %d, got %d", in, want, got)
		}
	}
}

func TestState_OnboardingOneShot(t *testing.T) {
	t.Parallel()

	st := NewState("s", time.Now())
	if !st.DismissOnboarding() {
		t.Error("expected first dismissal to report true")
	}
	if st.DismissOnboarding() {
		t.Error("expected second dismissal to report false")
	}
}

func TestState_Flash(t *testing.T) {
	t.Parallel()

	st := NewState("s", time.Now())
	if _, ok := st.TakeFlash(); ok {
		t.Fatal("expected no pending notice")
	}
	st.Flash(LevelWarning, "careful")
	n, ok := st.TakeFlash()
	if !ok || n.Level != LevelWarning || n.Text != "careful" {
		t.Errorf("unexpected notice %+v", n)
	}
	if _, ok := st.TakeFlash(); ok {
		t.Error("expected notice to be consumed")
	}
}

func TestHistory_Bounded(t *testing.T) {
	t.Parallel()

	var h History
	for i := 0; i < 15; i++ {
		h.Append(KindRecognized, fmt.Sprintf("entry %d", i))
	}
	if h.Len() != HistoryLimit {
		t.Fatalf("expected %d entries, got %d", HistoryLimit, h.Len())
	}
	entries := h.Entries()
	if entries[0].Text != "entry 5" || entries[9].Text != "entry 14" {
		t.Errorf("expected the last ten entries, got %q..%q", entries[0].Text, entries[9].Text)
	}

	recent := h.Recent(3)
	if len(recent) != 3 || recent[0].Text != "entry 14" {
		t.Errorf("expected newest first, got %+v", recent)
	}

	h.Clear()
	if h.Len() != 0 {
		t.Errorf("expected empty history after clear, got %d", h.Len())
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	short := strings.Repeat("a", DisplayLength)
	if Truncate(short) != short {
		t.Error("text at the limit must be kept as is")
	}

	long := strings.Repeat("ж", DisplayLength+7)
	got := Truncate(long)
	if got != strings.Repeat("ж", DisplayLength)+"..." {
		t.Errorf("expected rune-wise truncation, got %q", got)
	}
}

func newTestService(t *testing.T) (*service, *time.Time) {
	t.Helper()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(NewInfra(), zap.NewNop()).(*service)
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestService_StartAcquire(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	h, err := svc.Start(ctx)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	h.State().SetInput("hello")
	id := h.ID()
	h.Release()
	h.Release()

	h2, err := svc.Acquire(ctx, id)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer h2.Release()
	if h2.State().InputText != "hello" {
		t.Errorf("expected same state, got %q", h2.State().InputText)
	}

	if _, err := svc.Acquire(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_AcquireWaitsForHolder(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	h, _ := svc.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := svc.Acquire(ctx, h.ID()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline while locked, got %v", err)
	}
	h.Release()
}

func TestService_SerializesRequests(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	h, _, err := svc.AcquireOrStart(context.Background(), "tg:1")
	if err != nil {
		t.Fatalf("AcquireOrStart failed: %v", err)
	}
	h.Release()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, _, err := svc.AcquireOrStart(context.Background(), "tg:1")
			if err != nil {
				t.Errorf("AcquireOrStart failed: %v", err)
				return
			}
			h.State().History.Append(KindRecognized, "x")
			h.State().SetFontSize(h.State().FontSize + 1)
			h.Release()
		}()
	}
	wg.Wait()

	h, created, _ := svc.AcquireOrStart(context.Background(), "tg:1")
	defer h.Release()
	if created {
		t.Error("expected existing session")
	}
	if h.State().FontSize != MaxFontSize {
		t.Errorf("expected font size to reach max, got %d", h.State().FontSize)
	}
	if svc.Count() != 1 {
		t.Errorf("expected one session, got %d", svc.Count())
	}
}

func TestService_SweepIdle(t *testing.T) {
	t.Parallel()

	svc, now := newTestService(t)
	ctx := context.Background()

	var ended []string
	svc.OnEnd(func(_ context.Context, st *State) {
		ended = append(ended, st.ID)
	})

	idle, _ := svc.Start(ctx)
	idleID := idle.ID()
	idle.Release()

	busy, _ := svc.Start(ctx)

	*now = now.Add(time.Hour)
	fresh, _ := svc.Start(ctx)
	fresh.Release()

	if n := svc.SweepIdle(ctx, 30*time.Minute); n != 1 {
		t.Fatalf("expected one swept session, got %d", n)
	}
	if len(ended) != 1 || ended[0] != idleID {
		t.Errorf("expected hook for %s, got %v", idleID, ended)
	}
	if _, err := svc.Acquire(ctx, idleID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected swept session to be gone, got %v", err)
	}
	if svc.Count() != 2 {
		t.Errorf("expected busy and fresh sessions to survive, got %d", svc.Count())
	}
	busy.Release()
}

func TestService_End(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	called := 0
	svc.OnEnd(func(context.Context, *State) { called++ })

	h, _ := svc.Start(ctx)
	id := h.ID()
	h.Release()

	if err := svc.End(ctx, id); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if called != 1 {
		t.Errorf("expected hook once, got %d", called)
	}
	if err := svc.End(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second End, got %v", err)
	}
}
