package render

import (
	"sync"
	"testing"
)

func TestRenderers_BorrowAndRelease(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions()

	r1, err := shared.borrow(opts)
	if err != nil || r1 == nil {
		t.Fatalf("borrow failed: %v", err)
	}
	if CacheSize() != 1 {
		t.Errorf("expected pool count 1, got %d", CacheSize())
	}
	shared.release(opts, r1)

	r2, err := shared.borrow(opts)
	if err != nil || r2 == nil {
		t.Fatalf("second borrow failed: %v", err)
	}

	wide := opts.WithWidth(100)
	r3, err := shared.borrow(wide)
	if err != nil || r3 == nil {
		t.Fatalf("borrow with other options failed: %v", err)
	}
	if CacheSize() != 2 {
		t.Errorf("expected pool count 2, got %d", CacheSize())
	}

	shared.release(opts, r2)
	shared.release(wide, r3)
	shared.release(opts, nil)
}

func TestRenderers_Concurrency(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions()
	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Markdown("> Bienaventurados los pacificadores", opts); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render error: %v", err)
	}
	if CacheSize() != 1 {
		t.Errorf("expected pool count 1 after concurrent access, got %d", CacheSize())
	}
}

func TestClearCache(t *testing.T) {
	ClearCache()

	if _, err := Markdown("x", DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	if CacheSize() != 1 {
		t.Errorf("expected pool count 1, got %d", CacheSize())
	}

	ClearCache()
	if CacheSize() != 0 {
		t.Errorf("expected pool count 0 after clear, got %d", CacheSize())
	}
}

func TestNewRenderer_InvalidStyle(t *testing.T) {
	if _, err := newRenderer(DefaultOptions().WithStyle("invalid_style_path")); err == nil {
		t.Error("expected error for invalid style")
	}
}
