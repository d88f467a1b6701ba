package tools

import (
	"context"
	"testing"
	"time"
)

func TestPanicGroupWaitCompletes(t *testing.T) {
	g := NewPanicGroup()
	done := 0
	g.Go(func() { done++ })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if done != 1 {
		t.Errorf("expected job to run, done=%d", done)
	}
}

func TestPanicGroupWaitRepanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected Wait to re-panic")
		}
	}()

	g := NewPanicGroup()
	g.Go(func() { panic("boom") })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	g.Wait(ctx)
}
