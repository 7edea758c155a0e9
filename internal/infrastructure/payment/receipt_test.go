package payment_test

import (
	"testing"

	"github.com/guruqool/gurukul/internal/infrastructure/payment"
)

func TestNewReceiptFormat(t *testing.T) {
	receipt, err := payment.NewReceipt()
	if err != nil {
		t.Fatalf("NewReceipt: %v", err)
	}

	if len(receipt) != 20 {
		t.Fatalf("len(receipt) = %d, want 20", len(receipt))
	}
	for _, c := range receipt {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			t.Fatalf("receipt %q contains non-hex character %q", receipt, c)
		}
	}
}

func TestNewReceiptUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)

	for i := 0; i < 1000; i++ {
		receipt, err := payment.NewReceipt()
		if err != nil {
			t.Fatalf("NewReceipt: %v", err)
		}
		if _, dup := seen[receipt]; dup {
			t.Fatalf("duplicate receipt %q after %d draws", receipt, i+1)
		}
		seen[receipt] = struct{}{}
	}
}
