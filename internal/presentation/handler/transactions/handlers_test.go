package transactions_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/guruqool/gurukul/internal/domain"
	"github.com/guruqool/gurukul/internal/infrastructure/logging"
	"github.com/guruqool/gurukul/internal/presentation/handler/transactions"
)

// spyLogger counts Error calls so tests can assert failures were logged.
type spyLogger struct {
	errors    int
	lastMsg   string
	lastCat   logging.Category
	lastSub   logging.SubCategory
	lastExtra map[logging.ExtraKey]any
}

func (*spyLogger) Init() {}
func (*spyLogger) Debug(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (*spyLogger) Debugf(string, ...any)                                                         {}
func (*spyLogger) Info(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any)  {}
func (*spyLogger) Infof(string, ...any)                                                          {}
func (*spyLogger) Warn(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any)  {}
func (*spyLogger) Warnf(string, ...any)                                                          {}

func (s *spyLogger) Error(cat logging.Category, sub logging.SubCategory, msg string, extra map[logging.ExtraKey]any) {
	s.errors++
	s.lastCat = cat
	s.lastSub = sub
	s.lastMsg = msg
	s.lastExtra = extra
}

func (*spyLogger) Errorf(string, ...any)                                                         {}
func (*spyLogger) Fatal(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (*spyLogger) Fatalf(string, ...any)                                                         {}

// fakeRepository serves canned records and captures the requested limit.
type fakeRepository struct {
	records  []domain.TransactionRecord
	err      error
	gotLimit int
}

func (f *fakeRepository) Create(context.Context, *domain.TransactionRecord) error {
	return nil
}

func (f *fakeRepository) GetByReceipt(_ context.Context, receipt string) (*domain.TransactionRecord, error) {
	for i := range f.records {
		if f.records[i].Receipt == receipt {
			return &f.records[i], nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (f *fakeRepository) GetRecent(_ context.Context, limit int) ([]domain.TransactionRecord, error) {
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit > len(f.records) {
		limit = len(f.records)
	}
	return f.records[:limit], nil
}

func TestListTransactions(t *testing.T) {
	repo := &fakeRepository{
		records: []domain.TransactionRecord{
			{
				ID:        "rec-1",
				OrderID:   "order_abc",
				Amount:    49900,
				Currency:  "INR",
				Receipt:   "aabbccddeeff00112233",
				Status:    "created",
				CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
			},
			{
				ID:      "rec-2",
				OrderID: "order_def",
				Amount:  10000,
				Status:  "failed",
			},
		},
	}
	h := transactions.NewHandler(repo, &spyLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/transaction", nil)
	rec := httptest.NewRecorder()

	h.ListTransactionsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if repo.gotLimit != 50 {
		t.Errorf("limit = %d, want default 50", repo.gotLimit)
	}

	var body struct {
		Transactions []struct {
			ID      string `json:"id"`
			OrderID string `json:"orderId"`
			Amount  int64  `json:"amount"`
			Status  string `json:"status"`
		} `json:"transactions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}

	if len(body.Transactions) != 2 {
		t.Fatalf("len(transactions) = %d, want 2", len(body.Transactions))
	}
	if body.Transactions[0].OrderID != "order_abc" {
		t.Errorf("first orderId = %q, want order_abc", body.Transactions[0].OrderID)
	}
}

func TestListTransactionsLimitParam(t *testing.T) {
	repo := &fakeRepository{
		records: make([]domain.TransactionRecord, 10),
	}
	h := transactions.NewHandler(repo, &spyLogger{})

	tests := []struct {
		name      string
		query     string
		wantLimit int
	}{
		{"explicit limit", "?limit=3", 3},
		{"zero falls back", "?limit=0", 50},
		{"negative falls back", "?limit=-5", 50},
		{"garbage falls back", "?limit=abc", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/transaction"+tt.query, nil)
			rec := httptest.NewRecorder()

			h.ListTransactionsHandler(rec, req)

			if repo.gotLimit != tt.wantLimit {
				t.Fatalf("limit = %d, want %d", repo.gotLimit, tt.wantLimit)
			}
		})
	}
}

func TestListTransactionsRepositoryFailure(t *testing.T) {
	repo := &fakeRepository{err: errors.New("mongo: network timeout")}
	spy := &spyLogger{}
	h := transactions.NewHandler(repo, spy)

	req := httptest.NewRequest(http.MethodGet, "/api/transaction", nil)
	rec := httptest.NewRecorder()

	h.ListTransactionsHandler(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if spy.errors != 1 {
		t.Fatalf("logged errors = %d, want 1", spy.errors)
	}
	if spy.lastCat != logging.Mongo {
		t.Errorf("category = %v, want %v", spy.lastCat, logging.Mongo)
	}
	if got := spy.lastExtra[logging.ErrorMessage]; got != "mongo: network timeout" {
		t.Errorf("logged error = %v, want the repository error", got)
	}
	if strings.Contains(rec.Body.String(), "network timeout") {
		t.Error("response body leaks the repository error")
	}
}

func TestListTransactionsEmpty(t *testing.T) {
	h := transactions.NewHandler(&fakeRepository{}, &spyLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/transaction", nil)
	rec := httptest.NewRecorder()

	h.ListTransactionsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Transactions []any `json:"transactions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Transactions == nil {
		t.Fatal("transactions = null, want empty array")
	}
}
