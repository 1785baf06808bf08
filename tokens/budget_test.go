package tokens

import (
	"strings"
	"testing"
)

func TestNewBudget(t *testing.T) {
	b := NewBudget(1000)

	if b.Total != 1000 {
		t.Errorf("Total = %d, expected 1000", b.Total)
	}
	if b.Instructions != 100 {
		t.Errorf("Instructions = %d, expected 100", b.Instructions)
	}
	if b.History != 150 {
		t.Errorf("History = %d, expected 150", b.History)
	}
	if b.Page != 400 {
		t.Errorf("Page = %d, expected 400", b.Page)
	}
	if b.Candidates != 250 {
		t.Errorf("Candidates = %d, expected 250", b.Candidates)
	}
	if b.Reserved != 100 {
		t.Errorf("Reserved = %d, expected 100", b.Reserved)
	}
}

func TestNewBudgetWithAllocation(t *testing.T) {
	b := NewBudgetWithAllocation(1000, 1, 1, 1, 1, 1)

	if b.Instructions != 200 || b.History != 200 || b.Page != 200 || b.Candidates != 200 || b.Reserved != 200 {
		t.Errorf("uniform weights should split evenly, got %+v", b)
	}
}

func TestNewBudgetWithAllocation_ZeroWeights(t *testing.T) {
	b := NewBudgetWithAllocation(1000, 0, 0, 0, 0, 0)

	// Zero weights normalize against 100; every section gets nothing.
	if b.Page != 0 {
		t.Errorf("Page = %d, expected 0", b.Page)
	}
	if b.Total != 1000 {
		t.Errorf("Total = %d, expected 1000", b.Total)
	}
}

func TestBudget_Fits(t *testing.T) {
	b := NewBudget(100) // Page = 40 tokens = ~160 chars with the estimator

	if !b.FitsPage("short page") {
		t.Error("short text should fit the page budget")
	}
	if b.FitsPage(strings.Repeat("a", 1000)) {
		t.Error("1000 chars should not fit a 40-token page budget")
	}
	if !b.FitsInstructions("do the thing") {
		t.Error("short text should fit the instructions budget")
	}
	if !b.FitsHistory("say hi") {
		t.Error("short text should fit the history budget")
	}
	if !b.FitsCandidates("(1) button") {
		t.Error("short text should fit the candidates budget")
	}
}

func TestBudget_RemainingPage(t *testing.T) {
	b := NewBudget(1000) // Page = 400

	if got := b.RemainingPage(100); got != 300 {
		t.Errorf("RemainingPage(100) = %d, expected 300", got)
	}
	if got := b.RemainingPage(500); got != 0 {
		t.Errorf("RemainingPage(500) = %d, expected 0", got)
	}
}

func TestBudget_RemainingTotal(t *testing.T) {
	b := NewBudget(1000) // Reserved = 100

	if got := b.RemainingTotal(100, 100, 300, 200); got != 200 {
		t.Errorf("RemainingTotal = %d, expected 200", got)
	}
	if got := b.RemainingTotal(400, 300, 300, 200); got != 0 {
		t.Errorf("RemainingTotal = %d, expected 0", got)
	}
}

func TestBudget_WithCounter(t *testing.T) {
	b := NewBudget(100).WithCounter(NewEstimatingCounterWithRatio(1.0))

	// With 1 char per token, 50 chars = 50 tokens > 40-token page budget.
	if b.FitsPage(strings.Repeat("a", 50)) {
		t.Error("expected 50 one-char tokens not to fit a 40-token page budget")
	}
}
