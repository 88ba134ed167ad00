package playlist

import "testing"

func TestQueue_EmptyNavigation(t *testing.T) {
	q := NewQueue()

	if q.Current() != nil {
		t.Error("Current() non-nil on empty queue")
	}
	if q.Next() != nil {
		t.Error("Next() non-nil on empty queue")
	}
	if q.Previous() != nil {
		t.Error("Previous() non-nil on empty queue")
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
}

func TestQueue_NextWrapsAround(t *testing.T) {
	q := NewQueue()
	q.Replace(Entry{Path: "/a"}, Entry{Path: "/b"}, Entry{Path: "/c"})

	if e := q.Next(); e.Path != "/b" {
		t.Errorf("Next() = %q, want /b", e.Path)
	}
	if e := q.Next(); e.Path != "/c" {
		t.Errorf("Next() = %q, want /c", e.Path)
	}
	if e := q.Next(); e.Path != "/a" {
		t.Errorf("Next() at end = %q, want wraparound to /a", e.Path)
	}
}

func TestQueue_PreviousWrapsAround(t *testing.T) {
	q := NewQueue()
	q.Replace(Entry{Path: "/a"}, Entry{Path: "/b"}, Entry{Path: "/c"})

	if e := q.Previous(); e.Path != "/c" {
		t.Errorf("Previous() at start = %q, want wraparound to /c", e.Path)
	}
	if e := q.Previous(); e.Path != "/b" {
		t.Errorf("Previous() = %q, want /b", e.Path)
	}
}

func TestQueue_SingleEntryWrapsToItself(t *testing.T) {
	q := NewQueue()
	q.Replace(Entry{Path: "/only"})

	if e := q.Next(); e.Path != "/only" {
		t.Errorf("Next() = %q, want /only", e.Path)
	}
	if e := q.Previous(); e.Path != "/only" {
		t.Errorf("Previous() = %q, want /only", e.Path)
	}
}

func TestQueue_Replace(t *testing.T) {
	q := NewQueue()
	q.Replace(Entry{Path: "/old"})

	first := q.Replace(Entry{Path: "/a"}, Entry{Path: "/b"})
	if first == nil || first.Path != "/a" {
		t.Fatalf("Replace returned %v, want /a", first)
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
	if q.Replace() != nil {
		t.Error("Replace() with no entries should return nil")
	}
	if !q.IsEmpty() {
		t.Error("queue not empty after Replace()")
	}
}

func TestQueue_JumpTo(t *testing.T) {
	q := NewQueue()
	q.Replace(Entry{Path: "/a"}, Entry{Path: "/b"})

	if e := q.JumpTo(1); e.Path != "/b" {
		t.Errorf("JumpTo(1) = %q, want /b", e.Path)
	}
	if q.JumpTo(5) != nil {
		t.Error("JumpTo(5) should return nil")
	}
	if q.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d after failed jump, want 1", q.CurrentIndex())
	}
}

func TestQueue_RemoveAtAdjustsCursor(t *testing.T) {
	q := NewQueue()
	q.Replace(Entry{Path: "/a"}, Entry{Path: "/b"}, Entry{Path: "/c"})
	q.JumpTo(2)

	if !q.RemoveAt(0) {
		t.Fatal("RemoveAt(0) failed")
	}
	if q.Current().Path != "/c" {
		t.Errorf("Current() = %q after removal before cursor, want /c", q.Current().Path)
	}

	if !q.RemoveAt(1) {
		t.Fatal("RemoveAt(1) failed")
	}
	if q.Current().Path != "/b" {
		t.Errorf("Current() = %q after removing the current tail entry, want /b", q.Current().Path)
	}
}
