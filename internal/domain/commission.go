package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default commission rates applied when no stored rule exists for a
// product type.
const (
	DefaultFabricRate    = 12.0
	DefaultReadymadeRate = 18.0
)

var oneHundred = decimal.NewFromInt(100)

// DistributionShare is one recipient's cut of a commission rule,
// expressed as a percentage of the computed commission.
type DistributionShare struct {
	Recipient string  `bson:"recipient" json:"recipient"`
	Percent   float64 `bson:"percent" json:"percent"`
}

// CommissionShare is a computed, monetary share snapshotted onto an order.
// Once written it is never recomputed, even if the rule later changes.
type CommissionShare struct {
	Recipient string     `bson:"recipient" json:"recipient"`
	Percent   float64    `bson:"percent" json:"percent"`
	Amount    float64    `bson:"amount" json:"amount"`
	Paid      bool       `bson:"paid" json:"paid"`
	PaidAt    *time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
}

// CommissionRule configures the rate and distribution for one product type
type CommissionRule struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"-"`
	ProductType  ProductType         `bson:"productType" json:"productType"`
	Rate         float64             `bson:"rate" json:"rate"`
	Distribution []DistributionShare `bson:"distribution" json:"distribution"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// NewCommissionRule validates and creates a commission rule. Distribution
// percentages must sum to exactly 100.
func NewCommissionRule(productType ProductType, rate float64, distribution []DistributionShare) (*CommissionRule, error) {
	if !productType.IsValid() {
		return nil, ErrInvalidProductType
	}
	if rate < 0 || rate > 100 {
		return nil, ErrInvalidRate
	}
	if err := validateDistribution(distribution); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &CommissionRule{
		ProductType:  productType,
		Rate:         rate,
		Distribution: distribution,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Update replaces the rate and distribution after validation
func (r *CommissionRule) Update(rate float64, distribution []DistributionShare) error {
	if rate < 0 || rate > 100 {
		return ErrInvalidRate
	}
	if err := validateDistribution(distribution); err != nil {
		return err
	}

	r.Rate = rate
	r.Distribution = distribution
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func validateDistribution(distribution []DistributionShare) error {
	if len(distribution) == 0 {
		return ErrNoDistribution
	}

	sum := decimal.Zero
	for _, share := range distribution {
		if share.Percent <= 0 {
			return ErrDistributionSum
		}
		sum = sum.Add(decimal.NewFromFloat(share.Percent))
	}
	if !sum.Equal(oneHundred) {
		return ErrDistributionSum
	}
	return nil
}

// RuleSet maps product types to their active commission rules. Types with
// no entry fall back to the default rates with a single house share.
type RuleSet map[ProductType]*CommissionRule

// DefaultRuleSet returns the built-in rates with the whole commission
// retained by the house.
func DefaultRuleSet() RuleSet {
	house := []DistributionShare{{Recipient: "house", Percent: 100}}
	fabric, _ := NewCommissionRule(ProductFabric, DefaultFabricRate, house)
	readymade, _ := NewCommissionRule(ProductReadymade, DefaultReadymadeRate, house)
	return RuleSet{
		ProductFabric:    fabric,
		ProductReadymade: readymade,
	}
}

// rateFor returns the active rule for a product type
func (rs RuleSet) ruleFor(productType ProductType) *CommissionRule {
	if rule, ok := rs[productType]; ok && rule != nil {
		return rule
	}
	rate := DefaultReadymadeRate
	if productType == ProductFabric {
		rate = DefaultFabricRate
	}
	return &CommissionRule{
		ProductType:  productType,
		Rate:         rate,
		Distribution: []DistributionShare{{Recipient: "house", Percent: 100}},
	}
}

// ComputeCommission computes the total commission for a set of line items
// and splits it across recipients. All arithmetic runs on decimals and
// rounds to two places; any rounding remainder lands on the last share so
// the share amounts always sum to the total exactly.
func ComputeCommission(items []LineItem, rules RuleSet) (float64, []CommissionShare, error) {
	if rules == nil {
		rules = DefaultRuleSet()
	}

	total := decimal.Zero
	// Per-recipient share totals keyed by recipient, in first-seen order.
	shareOrder := make([]string, 0)
	sharePercents := make(map[string]float64)
	shareTotals := make(map[string]decimal.Decimal)

	for _, item := range items {
		if !item.Type.IsValid() {
			return 0, nil, ErrInvalidProductType
		}
		rule := rules.ruleFor(item.Type)

		// Commission is charged on the procurement value, not the sale value.
		lineValue := decimal.NewFromFloat(item.CostPrice).
			Mul(decimal.NewFromInt(int64(item.Quantity)))
		lineCommission := lineValue.
			Mul(decimal.NewFromFloat(rule.Rate)).
			Div(oneHundred)
		total = total.Add(lineCommission)

		for _, share := range rule.Distribution {
			if _, seen := shareTotals[share.Recipient]; !seen {
				shareOrder = append(shareOrder, share.Recipient)
				shareTotals[share.Recipient] = decimal.Zero
			}
			sharePercents[share.Recipient] = share.Percent
			portion := lineCommission.
				Mul(decimal.NewFromFloat(share.Percent)).
				Div(oneHundred)
			shareTotals[share.Recipient] = shareTotals[share.Recipient].Add(portion)
		}
	}

	total = total.Round(2)

	shares := make([]CommissionShare, 0, len(shareOrder))
	allocated := decimal.Zero
	for i, recipient := range shareOrder {
		amount := shareTotals[recipient].Round(2)
		if i == len(shareOrder)-1 {
			amount = total.Sub(allocated)
		}
		allocated = allocated.Add(amount)
		amountF, _ := amount.Float64()
		shares = append(shares, CommissionShare{
			Recipient: recipient,
			Percent:   sharePercents[recipient],
			Amount:    amountF,
		})
	}

	totalF, _ := total.Float64()
	return totalF, shares, nil
}

// MarkSharePaid marks one recipient's share of an order's commission as
// settled.
func (o *Order) MarkSharePaid(recipient string) error {
	for i := range o.CommissionDistribution {
		if o.CommissionDistribution[i].Recipient == recipient {
			if !o.CommissionDistribution[i].Paid {
				now := time.Now().UTC()
				o.CommissionDistribution[i].Paid = true
				o.CommissionDistribution[i].PaidAt = &now
				o.UpdatedAt = now
			}
			return nil
		}
	}
	return ErrPartyNotFound
}
