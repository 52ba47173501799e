package sheets

import (
	"context"

	"billpay/internal/core"
)

// Ports for outbound adapters.
type (
	// OptionsReader returns the option sets offered for account, payee and
	// repeat selectors.
	OptionsReader interface {
		ListOptions(ctx context.Context) (core.Options, error)
	}
)
