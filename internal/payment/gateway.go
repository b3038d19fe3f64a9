package payment

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gateway charges an amount and reports the outcome. A declined charge is a
// FAILED result, not an error; errors are reserved for calls that could not
// be made at all.
type Gateway interface {
	Charge(ctx context.Context, amount decimal.Decimal, narrative string) (domain.PaymentResult, error)
	Name() string
}

type Method string

const (
	MethodCard   Method = "card"
	MethodUPI    Method = "upi"
	MethodWallet Method = "wallet"
)

// Simulated decline rates per channel.
const (
	CardFailureRate   = 0.10
	UPIFailureRate    = 0.08
	WalletFailureRate = 0.20
)

// Processor is a simulated payment channel.
type Processor struct {
	name        string
	txnPrefix   string
	failureRate float64
	roll        func() float64
}

type Option func(*Processor)

// WithRoll replaces the random source. roll must return values in [0, 1);
// a charge succeeds when the roll is above the failure rate.
func WithRoll(roll func() float64) Option {
	return func(p *Processor) {
		p.roll = roll
	}
}

func newProcessor(name, prefix string, failureRate float64, opts ...Option) *Processor {
	p := &Processor{
		name:        name,
		txnPrefix:   prefix,
		failureRate: failureRate,
		roll:        rand.Float64,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewCard(opts ...Option) *Processor {
	return newProcessor("Card", "CARD", CardFailureRate, opts...)
}

func NewUPI(opts ...Option) *Processor {
	return newProcessor("UPI", "UPI", UPIFailureRate, opts...)
}

func NewWallet(opts ...Option) *Processor {
	return newProcessor("Wallet", "WAL", WalletFailureRate, opts...)
}

// New returns the processor for a method name such as "card" or "UPI".
func New(method string, opts ...Option) (Gateway, error) {
	switch Method(strings.ToLower(strings.TrimSpace(method))) {
	case MethodCard:
		return NewCard(opts...), nil
	case MethodUPI:
		return NewUPI(opts...), nil
	case MethodWallet:
		return NewWallet(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMethod, method)
	}
}

func (p *Processor) Charge(ctx context.Context, amount decimal.Decimal, narrative string) (domain.PaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PaymentResult{}, err
	}
	if amount.IsNegative() {
		return domain.PaymentResult{}, fmt.Errorf("%s charge for %q: %w", p.name, narrative, domain.ErrInvalidAmount)
	}

	if p.roll() <= p.failureRate {
		return domain.PaymentResult{Status: domain.PaymentStatusFailed}, nil
	}
	return domain.PaymentResult{
		Status: domain.PaymentStatusSuccess,
		TxnID:  p.txnPrefix + strings.ToUpper(uuid.NewString()[:8]),
	}, nil
}

func (p *Processor) Name() string {
	return p.name
}

var _ Gateway = (*Processor)(nil)
