package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/internal/history"
	"github.com/iwvelando/finance-calculators/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// batch returns one request per kind with representative operands.
func batch() []calculator.Request {
	return []calculator.Request{
		{Kind: calculator.PercentOf, Operands: []string{"15", "200"}, Precision: 2},
		{Kind: calculator.CompoundInterest, Operands: []string{"10000", "7", "10"}, Precision: 2},
		{Kind: calculator.LoanPayment, Operands: []string{"200000", "6", "30"}, Precision: 2},
		{Kind: calculator.AnnualizedROI, Operands: []string{"1000", "1500", "3"}, Precision: 2},
		{Kind: calculator.NetRentalYield, Operands: []string{"1500", "250000", "3000"}, Precision: 2},
		{Kind: calculator.GPA, Operands: []string{"3,4,3", "A,B+,A-"}, Precision: 2},
		{Kind: calculator.ProjectPrice, Operands: []string{"40", "75", "10"}, Precision: 2},
	}
}

// TestConcurrentExecute runs many calculations against one family from
// several goroutines and checks the history invariants still hold.
func TestConcurrentExecute(t *testing.T) {
	backend, err := storage.Open("bolt", filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer backend.Close()

	calc := calculator.New(backend, calculator.WithLogger(zap.NewNop()))

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				result := calc.Execute(context.Background(), calculator.Request{
					Kind:      calculator.Markdown,
					Operands:  []string{fmt.Sprint(w*perWorker + i + 1), "10"},
					Precision: 2,
				})
				assert.NoError(t, result.Err)
				assert.NoError(t, result.HistoryErr)
			}
		}(w)
	}
	wg.Wait()

	entries := calc.History(calculator.FamilyPercentage).Entries()
	require.Len(t, entries, 20)
	seen := make(map[int64]bool)
	for i, entry := range entries {
		assert.False(t, seen[entry.Timestamp], "duplicate timestamp %d", entry.Timestamp)
		seen[entry.Timestamp] = true
		if i > 0 {
			assert.Less(t, entry.Timestamp, entries[i-1].Timestamp)
		}
	}

	reloaded := history.New("percentage", backend)
	assert.Equal(t, entries, reloaded.Entries())
}

// TestPerformance logs timing characteristics of a batch run.
func TestPerformance(t *testing.T) {
	calc := calculator.New(storage.NewMemory(), calculator.WithLogger(zap.NewNop()))
	requests := batch()

	start := time.Now()
	const rounds = 200
	for i := 0; i < rounds; i++ {
		for _, result := range calc.ExecuteAll(context.Background(), requests) {
			require.NoError(t, result.Err, result.Kind.String())
		}
	}
	elapsed := time.Since(start)

	t.Logf("Executed %d calculations in %v (%v per calculation)",
		rounds*len(requests), elapsed, elapsed/time.Duration(rounds*len(requests)))

	if elapsed > 10*time.Second {
		t.Errorf("Batch run took too long: %v", elapsed)
	}
}

func BenchmarkExecuteMemory(b *testing.B) {
	calc := calculator.New(storage.NewMemory(), calculator.WithLogger(zap.NewNop()))
	requests := batch()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calc.Execute(context.Background(), requests[i%len(requests)])
	}
}

func BenchmarkExecuteBolt(b *testing.B) {
	backend, err := storage.Open("bolt", filepath.Join(b.TempDir(), "history.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer backend.Close()

	calc := calculator.New(backend, calculator.WithLogger(zap.NewNop()))
	requests := batch()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calc.Execute(context.Background(), requests[i%len(requests)])
	}
}

func BenchmarkHistoryAppend(b *testing.B) {
	store := history.New("percentage", storage.NewMemory())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Append(history.NewEntry("markup", []string{fmt.Sprint(i), "10"}, "1.00"))
	}
}
