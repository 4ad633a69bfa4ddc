package repository

import "warranty-quote/domain"

// QuoteRepository records computed quotes for the lifetime of the process.
// Nothing is durable: the engine itself owns no state across requests.
type QuoteRepository interface {
	Save(kind domain.VehicleKind, result domain.QuoteResult) error
}
