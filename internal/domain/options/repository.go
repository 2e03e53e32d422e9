package options

import "context"

// Repository loads the two snapshot tables. Implementations return an error
// wrapping errors.ErrDataUnavailable when a table cannot be produced at all.
type Repository interface {
	LoadChain(ctx context.Context) ([]OptionQuote, error)
	LoadUnusualTrades(ctx context.Context) ([]UnusualTrade, error)
}
