package tokens

// DefaultInstructionsPercent is the default percentage for task instructions.
const DefaultInstructionsPercent = 10

// DefaultHistoryPercent is the default percentage for dialogue history
// (instructor utterances and previous actions).
const DefaultHistoryPercent = 15

// DefaultPagePercent is the default percentage for the page's markup tree.
const DefaultPagePercent = 40

// DefaultCandidatesPercent is the default percentage for candidate elements.
const DefaultCandidatesPercent = 25

// DefaultReservedPercent is the default percentage reserved for the response.
const DefaultReservedPercent = 10

// Budget manages token allocation across the sections of a web-agent prompt.
type Budget struct {
	// Total is the total token budget available.
	Total int

	// Instructions is the budget for the task instructions.
	Instructions int

	// History is the budget for utterances and previous actions.
	History int

	// Page is the budget for the page's markup tree representation.
	Page int

	// Candidates is the budget for the ranked candidate elements.
	Candidates int

	// Reserved is the budget reserved for response generation.
	Reserved int

	counter Counter
}

// NewBudget creates a budget with total tokens allocated proportionally.
// Default allocation: 10% instructions, 15% history, 40% page,
// 25% candidates, 10% reserved.
func NewBudget(total int) *Budget {
	return NewBudgetWithAllocation(total,
		DefaultInstructionsPercent,
		DefaultHistoryPercent,
		DefaultPagePercent,
		DefaultCandidatesPercent,
		DefaultReservedPercent,
	)
}

// NewBudgetWithAllocation creates a budget with custom allocations.
// The allocations are relative weights normalized to the total budget.
// For example, (1000, 10, 15, 40, 25, 10) allocates 10% instructions,
// 15% history, 40% page, 25% candidates, 10% reserved.
func NewBudgetWithAllocation(total, instructions, history, page, candidates, reserved int) *Budget {
	sum := instructions + history + page + candidates + reserved
	if sum == 0 {
		sum = 100
	}
	return &Budget{
		Total:        total,
		Instructions: total * instructions / sum,
		History:      total * history / sum,
		Page:         total * page / sum,
		Candidates:   total * candidates / sum,
		Reserved:     total * reserved / sum,
		counter:      NewEstimatingCounter(),
	}
}

// WithCounter sets the counter used by the Fits* helpers.
func (b *Budget) WithCounter(counter Counter) *Budget {
	b.counter = counter
	return b
}

// FitsInstructions returns true if the text fits the instructions budget.
func (b *Budget) FitsInstructions(text string) bool {
	return b.counter.FitsInLimit(text, b.Instructions)
}

// FitsHistory returns true if the text fits the history budget.
func (b *Budget) FitsHistory(text string) bool {
	return b.counter.FitsInLimit(text, b.History)
}

// FitsPage returns true if the text fits the page budget.
func (b *Budget) FitsPage(text string) bool {
	return b.counter.FitsInLimit(text, b.Page)
}

// FitsCandidates returns true if the text fits the candidates budget.
func (b *Budget) FitsCandidates(text string) bool {
	return b.counter.FitsInLimit(text, b.Candidates)
}

// RemainingPage returns the page budget left after accounting for used tokens.
func (b *Budget) RemainingPage(usedTokens int) int {
	remaining := b.Page - usedTokens
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingTotal returns remaining tokens after subtracting used amounts
// and the reserved response allowance.
func (b *Budget) RemainingTotal(instructionsUsed, historyUsed, pageUsed, candidatesUsed int) int {
	used := instructionsUsed + historyUsed + pageUsed + candidatesUsed + b.Reserved
	remaining := b.Total - used
	if remaining < 0 {
		return 0
	}
	return remaining
}
