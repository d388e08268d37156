package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// PaymentFrequency is how often a loan payment falls due
type PaymentFrequency string

const (
	FrequencyWeekly   PaymentFrequency = "WEEKLY"
	FrequencyBiweekly PaymentFrequency = "BIWEEKLY"
	FrequencyMonthly  PaymentFrequency = "MONTHLY"
)

// PaymentsPerYear returns the exact per-year payment count used for billing
// math. BIWEEKLY is the Mexican quincena: two fixed paydays per month, 24 per
// year. UI-side 4.33/2/1 per-month figures are display approximations and must
// never reach this engine.
func (f PaymentFrequency) PaymentsPerYear() int {
	switch f {
	case FrequencyWeekly:
		return 52
	case FrequencyBiweekly:
		return 24
	case FrequencyMonthly:
		return 12
	}
	return 0
}

// IsValid reports whether f is a supported frequency
func (f PaymentFrequency) IsValid() bool {
	return f.PaymentsPerYear() > 0
}

const (
	// MaxPaymentCount caps the schedule length the engine will produce
	MaxPaymentCount = 1000

	catTolerance     = 1e-6
	catMaxIterations = 100
)

// SimulationInput holds pre-validated loan terms. Product-rule validation
// (min/max amount, term bounds) belongs to the caller.
type SimulationInput struct {
	Amount                float64
	TermMonths            int
	Frequency             PaymentFrequency
	AnnualRate            float64 // percent, e.g. 45.0
	OpeningCommissionRate float64 // percent, charged once on the principal
}

// ScheduleEntry is one period of the amortization schedule
type ScheduleEntry struct {
	PaymentNumber    int             `json:"payment_number"`
	PrincipalPortion decimal.Decimal `json:"principal_portion"`
	InterestPortion  decimal.Decimal `json:"interest_portion"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// SimulationResult is the simulation summary shown to the applicant
type SimulationResult struct {
	PeriodicPayment   decimal.Decimal `json:"periodic_payment"`
	NumberOfPayments  int             `json:"number_of_payments"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	TotalInterest     decimal.Decimal `json:"total_interest"`
	OpeningCommission decimal.Decimal `json:"opening_commission"`
	CAT               float64         `json:"cat"`
	Schedule          []ScheduleEntry `json:"amortization_schedule"`
}

// CalculateSimulation computes a French (constant-payment) amortization
// schedule, totals and CAT for the given terms.
//
// Monetary values are rounded to 2 decimals only at output boundaries: the
// periodic payment is rounded once and every derived figure comes from the
// rounded payment, so payment x n equals the total exactly and the schedule's
// principal portions sum back to the requested amount. The final period's
// principal absorbs rounding drift so the closing balance is exactly zero.
func CalculateSimulation(in SimulationInput) (*SimulationResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	ppy := in.Frequency.PaymentsPerYear()
	n := int(math.Round(float64(in.TermMonths) * float64(ppy) / 12.0))
	if n <= 0 {
		return nil, &InvalidInputError{Field: "term_months", Reason: "term produces no payments"}
	}
	if n > MaxPaymentCount {
		return nil, ErrScheduleTooLong
	}

	periodicRate := in.AnnualRate / 100.0 / float64(ppy)

	var rawPayment float64
	if periodicRate == 0 {
		rawPayment = in.Amount / float64(n)
	} else {
		rawPayment = in.Amount * periodicRate / (1.0 - math.Pow(1.0+periodicRate, -float64(n)))
	}

	amount := decimal.NewFromFloat(in.Amount)
	payment := decimal.NewFromFloat(rawPayment).Round(2)
	total := payment.Mul(decimal.NewFromInt(int64(n)))
	totalInterest := total.Sub(amount)
	commission := amount.Mul(decimal.NewFromFloat(in.OpeningCommissionRate)).
		Div(decimal.NewFromInt(100)).Round(2)

	cat, err := solveCAT(rawPayment, n, ppy, in.Amount-commission.InexactFloat64(), periodicRate)
	if err != nil {
		return nil, err
	}

	rateDec := decimal.NewFromFloat(periodicRate)
	schedule := make([]ScheduleEntry, 0, n)
	balance := amount
	for period := 1; period <= n; period++ {
		interest := balance.Mul(rateDec).Round(2)
		principal := payment.Sub(interest)
		if period == n {
			// absorb rounding drift: close at exactly zero
			principal = balance
		}
		balance = balance.Sub(principal)
		schedule = append(schedule, ScheduleEntry{
			PaymentNumber:    period,
			PrincipalPortion: principal,
			InterestPortion:  interest,
			RemainingBalance: balance,
		})
	}

	return &SimulationResult{
		PeriodicPayment:   payment,
		NumberOfPayments:  n,
		TotalAmount:       total,
		TotalInterest:     totalInterest,
		OpeningCommission: commission,
		CAT:               cat,
		Schedule:          schedule,
	}, nil
}

func (in SimulationInput) validate() error {
	if in.Amount <= 0 {
		return &InvalidInputError{Field: "amount", Reason: "must be greater than 0"}
	}
	if in.TermMonths <= 0 {
		return &InvalidInputError{Field: "term_months", Reason: "must be greater than 0"}
	}
	if in.AnnualRate < 0 {
		return &InvalidInputError{Field: "annual_rate", Reason: "must not be negative"}
	}
	if in.OpeningCommissionRate < 0 {
		return &InvalidInputError{Field: "opening_commission_rate", Reason: "must not be negative"}
	}
	if !in.Frequency.IsValid() {
		return &InvalidInputError{Field: "payment_frequency", Reason: "unsupported frequency " + string(in.Frequency)}
	}
	return nil
}

// solveCAT finds the periodic rate that discounts the payment stream back to
// the net disbursed amount (principal minus opening commission) and annualizes
// it. The annuity present value is strictly decreasing in the rate, so a
// bracketed bisection always converges; the iteration cap guards the bound
// anyway and surfaces ErrCATNotConverged if ever hit.
func solveCAT(payment float64, n, ppy int, netAmount, rateHint float64) (float64, error) {
	pv := func(r float64) float64 {
		if r == 0 {
			return payment * float64(n)
		}
		return payment * (1.0 - math.Pow(1.0+r, -float64(n))) / r
	}

	// Nothing to recover beyond the principal: effective cost is zero.
	if pv(0)-netAmount <= catTolerance {
		return 0, nil
	}

	iterations := 0
	lo, hi := 0.0, math.Max(rateHint*2, 0.1)
	for pv(hi) > netAmount {
		hi *= 2
		iterations++
		if iterations >= catMaxIterations {
			return 0, ErrCATNotConverged
		}
	}

	var mid float64
	for {
		mid = (lo + hi) / 2
		diff := pv(mid) - netAmount
		if math.Abs(diff) < catTolerance || hi-lo < 1e-12 {
			break
		}
		if diff > 0 {
			lo = mid
		} else {
			hi = mid
		}
		iterations++
		if iterations >= catMaxIterations {
			return 0, ErrCATNotConverged
		}
	}

	cat := (math.Pow(1.0+mid, float64(ppy)) - 1.0) * 100.0
	return math.Round(cat*10000) / 10000, nil
}
