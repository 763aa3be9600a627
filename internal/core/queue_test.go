package core

import (
	"sync"
	"testing"
)

func TestQueueFIFO(t *testing.T) {
	var q Queue[string]
	for _, v := range []string{"a", "b", "c"} {
		q.Push(v)
	}
	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}
	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.Pop()
		if !ok || got != want {
			t.Fatalf("Pop = %q, %v; want %q", got, ok, want)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop on empty queue should report false")
	}
}

func TestQueueInterleaved(t *testing.T) {
	var q Queue[int]
	q.Push(1)
	q.Push(2)
	if v, _ := q.Pop(); v != 1 {
		t.Fatalf("got %d want 1", v)
	}
	q.Push(3)
	for _, want := range []int{2, 3} {
		if v, ok := q.Pop(); !ok || v != want {
			t.Fatalf("got %d,%v want %d", v, ok, want)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Len = %d after drain", q.Len())
	}
}

func TestQueueClear(t *testing.T) {
	var q Queue[int]
	q.Push(1)
	q.Push(2)
	q.Clear()
	if q.Len() != 0 {
		t.Errorf("Len = %d after Clear", q.Len())
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop after Clear should report false")
	}
}

func TestQueueConcurrentPush(t *testing.T) {
	var q Queue[int]
	const workers, per = 20, 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				q.Push(i)
			}
		}()
	}
	wg.Wait()

	if q.Len() != workers*per {
		t.Fatalf("Len = %d, want %d", q.Len(), workers*per)
	}
}
