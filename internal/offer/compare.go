package offer

import (
	"fmt"
	"strings"
	"time"
)

// Trend encodes how a term moved against the baseline. Ties are "same" and
// render without an icon.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendSame Trend = "same"
)

// CompareRow is one line of the offer comparison table.
type CompareRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Trend Trend  `json:"trend"`
}

// Terms are the negotiable values compared between an offer and a baseline
// (the prior offer in the chain, or the listing's asking terms).
type Terms struct {
	Price           int64  `json:"price"`
	LeasePeriod     int    `json:"lease_period"`
	MinLockInPeriod int    `json:"min_lock_in_period"`
	MoveInDate      string `json:"move_in_date"`
}

// Terms extracts the comparable terms from an offer.
func (o *Offer) Terms() Terms {
	return Terms{
		Price:           o.Price,
		LeasePeriod:     o.LeasePeriod,
		MinLockInPeriod: o.MinLockInPeriod,
		MoveInDate:      o.MoveInDate,
	}
}

// Compare builds the ordered comparison rows for an offer against baseline
// terms. Row order is fixed: price, lease period, lock-in, move-in.
func Compare(o *Offer, baseline Terms, currency string) ([]CompareRow, error) {
	if err := Validate(o); err != nil {
		return nil, err
	}

	rows := []CompareRow{
		{
			Label: "Price",
			Value: formatAmount(currency, o.Price),
			Trend: trendOfInt(o.Price, baseline.Price),
		},
		{
			Label: "Lease Period",
			Value: formatMonths(o.LeasePeriod),
			Trend: trendOfInt(int64(o.LeasePeriod), int64(baseline.LeasePeriod)),
		},
		{
			Label: "Min Lock-in Period",
			Value: formatMonths(o.MinLockInPeriod),
			Trend: trendOfInt(int64(o.MinLockInPeriod), int64(baseline.MinLockInPeriod)),
		},
		{
			Label: "Move-in Date",
			Value: o.MoveInDate,
			Trend: trendOfDate(o.MoveInDate, baseline.MoveInDate),
		},
	}

	return rows, nil
}

func trendOfInt(value, baseline int64) Trend {
	switch {
	case value > baseline:
		return TrendUp
	case value < baseline:
		return TrendDown
	}
	return TrendSame
}

// trendOfDate compares YYYY-MM-DD dates; unparseable or equal dates are
// reported as unchanged rather than guessed at.
func trendOfDate(value, baseline string) Trend {
	v, err := time.Parse("2006-01-02", value)
	if err != nil {
		return TrendSame
	}
	b, err := time.Parse("2006-01-02", baseline)
	if err != nil {
		return TrendSame
	}
	switch {
	case v.After(b):
		return TrendUp
	case v.Before(b):
		return TrendDown
	}
	return TrendSame
}

func formatMonths(n int) string {
	if n == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", n)
}

// formatAmount renders a currency amount with comma grouping.
func formatAmount(currency string, amount int64) string {
	s := fmt.Sprintf("%d", amount)
	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		parts = append([]string{s}, parts...)
		s = strings.Join(parts, ",")
	}
	if currency == "" {
		return s
	}
	return currency + " " + s
}
