package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Settings reads tunable engine parameters. Missing keys yield the fallback;
// only store failures are returned as errors.
type Settings interface {
	Int(ctx context.Context, key string, fallback int) (int, error)
	Bool(ctx context.Context, key string, fallback bool) (bool, error)
	String(ctx context.Context, key string, fallback string) (string, error)
	Decimal(ctx context.Context, key string, fallback decimal.Decimal) (decimal.Decimal, error)
	JSON(ctx context.Context, key string, out any) (bool, error)
}
