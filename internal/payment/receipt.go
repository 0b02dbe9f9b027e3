package payment

import (
	"fmt"
	"sync/atomic"
	"time"
)

// ReceiptGenerator issues correlation tokens unique per intent creation. The
// gateway uses receipts for idempotent-intent lookups, so two calls must
// never share one even when they land on the same clock tick.
type ReceiptGenerator struct {
	Prefix string
	seq    atomic.Uint64
}

// Next returns a fresh receipt token.
func (g *ReceiptGenerator) Next() string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = "receipt_order"
	}
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), g.seq.Add(1))
}
