package repository

import (
	"sync"

	"warranty-quote/domain"
)

type savedQuote struct {
	Kind   domain.VehicleKind
	Result domain.QuoteResult
}

// QuoteRepositoryMemory is an in-memory implementation of QuoteRepository.
type QuoteRepositoryMemory struct {
	mu   sync.Mutex
	data []savedQuote
}

// NewQuoteRepositoryMemory creates a new in-memory quote repository.
func NewQuoteRepositoryMemory() *QuoteRepositoryMemory {
	return &QuoteRepositoryMemory{}
}

// Save stores the quote result in memory.
func (r *QuoteRepositoryMemory) Save(
	kind domain.VehicleKind,
	result domain.QuoteResult,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, savedQuote{Kind: kind, Result: result})
	return nil
}

// Len reports how many quotes have been recorded.
func (r *QuoteRepositoryMemory) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}
