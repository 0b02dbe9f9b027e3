package payment

import (
	"strings"
	"sync"
	"testing"
)

func TestReceiptGeneratorUniqueUnderConcurrency(t *testing.T) {
	gen := &ReceiptGenerator{Prefix: "receipt_order"}

	const workers = 16
	const perWorker = 64

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perWorker)
			for j := 0; j < perWorker; j++ {
				local = append(local, gen.Next())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, receipt := range local {
				if _, dup := seen[receipt]; dup {
					t.Errorf("duplicate receipt: %s", receipt)
				}
				seen[receipt] = struct{}{}
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d unique receipts, got %d", workers*perWorker, len(seen))
	}
}

func TestReceiptGeneratorPrefix(t *testing.T) {
	gen := &ReceiptGenerator{}
	if got := gen.Next(); !strings.HasPrefix(got, "receipt_order_") {
		t.Fatalf("unexpected receipt %q", got)
	}
	custom := &ReceiptGenerator{Prefix: "rcpt"}
	if got := custom.Next(); !strings.HasPrefix(got, "rcpt_") {
		t.Fatalf("unexpected receipt %q", got)
	}
}
