package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mvillar/lazylist-cli/internal/list"
	"github.com/mvillar/lazylist-cli/internal/store"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}

type flakyExecutor struct {
	mu   sync.Mutex
	fail map[int]bool
}

func (e *flakyExecutor) FetchItem(_ context.Context, index int) (store.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fail[index] {
		return store.Record{}, fmt.Errorf("backing store unavailable")
	}
	return store.Record{
		Index:  index,
		Title:  fmt.Sprintf("Record %d", index+1),
		Detail: "detail",
	}, nil
}

func (e *flakyExecutor) setFail(index int, fail bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fail[index] = fail
}

func newTestProvider(t *testing.T, batch, margin int, exec list.Executor[store.Record]) *Provider {
	t.Helper()
	if exec == nil {
		exec = &flakyExecutor{fail: map[int]bool{}}
	}
	p, err := list.New[store.Record](list.Config{BatchSize: batch, PrefetchMargin: margin}, exec)
	if err != nil {
		t.Fatalf("list.New returned error: %v", err)
	}
	return p
}

func drain(t *testing.T, p *Provider, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case c := <-p.Completions():
			p.Apply(c)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for completion %d of %d", i+1, n)
		}
	}
}

func TestModelView_ShowsLoadingThenPayload(t *testing.T) {
	p := newTestProvider(t, 5, 1, nil)
	m := NewModel(p)

	view := stripANSI(m.View())
	if !strings.Contains(view, "loading...") {
		t.Fatalf("expected loading rows before completions, got: %s", view)
	}

	drain(t, p, 5)
	view = stripANSI(m.View())
	if !strings.Contains(view, "Record 1") {
		t.Fatalf("expected fetched payload in view, got: %s", view)
	}
	if strings.Contains(view, "loading...") {
		t.Fatalf("expected no loading rows after drain, got: %s", view)
	}
}

func TestModelUpdate_CursorMovementTriggersGrowth(t *testing.T) {
	p := newTestProvider(t, 5, 1, nil)
	drain(t, p, 5)
	m := NewModel(p)

	var model tea.Model = m
	for i := 0; i < 4; i++ {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	}

	final := model.(Model)
	if final.Cursor() != 4 {
		t.Fatalf("expected cursor at 4, got %d", final.Cursor())
	}
	if p.Len() != 10 {
		t.Fatalf("expected growth to 10 items once cursor entered the margin, got %d", p.Len())
	}
}

func TestModelUpdate_JumpToBottomGrows(t *testing.T) {
	p := newTestProvider(t, 5, 1, nil)
	m := NewModel(p)

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})

	final := model.(Model)
	if final.Cursor() != 4 {
		t.Fatalf("expected cursor at last pre-growth row, got %d", final.Cursor())
	}
	if p.Len() != 10 {
		t.Fatalf("expected growth after jumping to bottom, got %d items", p.Len())
	}
}

func TestModelUpdate_ResetKey(t *testing.T) {
	p := newTestProvider(t, 5, 1, nil)
	m := NewModel(p)

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	firstGen := p.Generation()

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	final := model.(Model)

	if p.Generation() == firstGen {
		t.Fatal("expected a new generation after reset")
	}
	if p.Len() != 5 {
		t.Fatalf("expected one fresh batch after reset, got %d items", p.Len())
	}
	if final.Cursor() != 0 {
		t.Fatalf("expected cursor back at 0 after reset, got %d", final.Cursor())
	}
}

func TestModelUpdate_CompletionMessageAppliesFetch(t *testing.T) {
	p := newTestProvider(t, 3, 1, nil)
	m := NewModel(p)

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init must wait for completions")
	}

	msg := cmd()
	model, next := m.Update(msg)
	if next == nil {
		t.Fatal("expected Update to keep waiting for completions")
	}

	fetched := 0
	for _, it := range p.Items() {
		if it.Status() == list.StatusFetched {
			fetched++
		}
	}
	if fetched != 1 {
		t.Fatalf("expected exactly one applied completion, got %d fetched items", fetched)
	}
	if _, ok := model.(Model); !ok {
		t.Fatal("Update must return the tui model")
	}
}

func TestModelUpdate_FailedFetchStatusAndRetryOnVisit(t *testing.T) {
	exec := &flakyExecutor{fail: map[int]bool{2: true}}
	p := newTestProvider(t, 3, 1, exec)
	m := NewModel(p)

	// Feed all three completions through the update loop, as the program
	// would.
	var model tea.Model = m
	for i := 0; i < 3; i++ {
		select {
		case c := <-p.Completions():
			model, _ = model.Update(completionMsg{completion: c})
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for completion")
		}
	}

	final := model.(Model)
	if !strings.Contains(final.status, "failed") {
		t.Fatalf("expected failure status, got %q", final.status)
	}
	if p.Items()[2].Status() != list.StatusUnfetched {
		t.Fatalf("failed row should be unfetched, got %s", p.Items()[2].Status())
	}

	// Revisiting the row re-requests it. Reaching index 2 also enters the
	// prefetch margin, so a new batch of three starts alongside the retry.
	exec.setFail(2, false)
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	drain(t, p, 4)

	if p.Items()[2].Status() != list.StatusFetched {
		t.Fatalf("expected fetched after revisit, got %s", p.Items()[2].Status())
	}
}

func TestModelView_FooterShowsGenerationAndCounts(t *testing.T) {
	p := newTestProvider(t, 4, 1, nil)
	drain(t, p, 4)
	m := NewModel(p)

	view := stripANSI(m.View())
	gen := p.Generation().String()[:8]
	if !strings.Contains(view, "gen "+gen) {
		t.Fatalf("expected generation in footer, got: %s", view)
	}
	if !strings.Contains(view, "Items: 4 | fetched: 4 | loading: 0 | pending: 0") {
		t.Fatalf("expected counts in footer, got: %s", view)
	}
}

func TestModelUpdate_HelpToggle(t *testing.T) {
	p := newTestProvider(t, 3, 1, nil)
	m := NewModel(p)

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	view := stripANSI(model.(Model).View())
	if !strings.Contains(view, "Help (esc to close)") {
		t.Fatalf("expected help view, got: %s", view)
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	view = stripANSI(model.(Model).View())
	if strings.Contains(view, "Help (esc to close)") {
		t.Fatalf("expected help to close, got: %s", view)
	}
}
