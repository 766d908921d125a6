package list

import "testing"

func TestItem_BeginOnlyFromUnfetched(t *testing.T) {
	it := newItem[string](3)
	if it.Status() != StatusUnfetched {
		t.Fatalf("new item should be unfetched, got %s", it.Status())
	}

	if !it.begin() {
		t.Fatal("first begin should start a fetch")
	}
	if it.Status() != StatusFetching {
		t.Fatalf("expected fetching, got %s", it.Status())
	}

	if it.begin() {
		t.Fatal("begin while fetching must be ignored")
	}

	it.complete("value")
	if it.begin() {
		t.Fatal("begin after fetched must be ignored")
	}
}

func TestItem_FetchedIsTerminal(t *testing.T) {
	it := newItem[string](0)
	it.begin()
	it.complete("first")

	it.complete("second")
	if payload, ok := it.Payload(); !ok || payload != "first" {
		t.Fatalf("expected first payload to stick, got %q ok=%v", payload, ok)
	}

	it.fail()
	if it.Status() != StatusFetched {
		t.Fatalf("fail after fetched must be ignored, got %s", it.Status())
	}
}

func TestItem_PayloadPresentOnlyWhenFetched(t *testing.T) {
	it := newItem[string](7)
	if _, ok := it.Payload(); ok {
		t.Fatal("unfetched item must not expose a payload")
	}

	it.begin()
	if _, ok := it.Payload(); ok {
		t.Fatal("fetching item must not expose a payload")
	}

	it.complete("ready")
	payload, ok := it.Payload()
	if !ok || payload != "ready" {
		t.Fatalf("expected payload after completion, got %q ok=%v", payload, ok)
	}
}

func TestItem_FailReturnsToUnfetched(t *testing.T) {
	it := newItem[string](1)
	it.begin()
	it.fail()

	if it.Status() != StatusUnfetched {
		t.Fatalf("expected unfetched after failure, got %s", it.Status())
	}
	if !it.begin() {
		t.Fatal("item should be fetchable again after a failure")
	}
}
