package main

import (
	"regexp"
	"strconv"
	"strings"
)

// amountRe matches the figure that M-PESA confirmation texts place right
// after the confirmation marker and the currency token, e.g.
// "Confirmed. Ksh 1,200.00 paid to ...".
var amountRe = regexp.MustCompile(`confirmed\.?\s*ksh\.?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

// Classification is the per-message verdict of the payment heuristic. It is
// computed fresh for every message and never stored.
type Classification struct {
	IsPayment bool
	HasAmount bool
	Amount    float64
	Underpaid bool
}

// Label returns the tag used when notifying the operator about a user text.
func (c Classification) Label() string {
	switch {
	case c.Underpaid:
		return "possible underpayment"
	case c.IsPayment:
		return "payment text"
	default:
		return "message"
	}
}

// Classifier recognizes M-PESA style confirmation texts addressed to the
// configured recipient. It is a routing hint for the operator, not a
// verification of any payment: false positives and negatives are expected.
type Classifier struct {
	nameFragments []string // lower-cased; all must appear for a name match
	till          string
	minAmount     float64 // 0 disables the underpayment check
}

func NewClassifier(nameFragments []string, till string, minAmount float64) *Classifier {
	frags := make([]string, 0, len(nameFragments))
	for _, f := range nameFragments {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			frags = append(frags, f)
		}
	}
	return &Classifier{
		nameFragments: frags,
		till:          strings.TrimSpace(till),
		minAmount:     minAmount,
	}
}

// Classify runs the conjunctive heuristic: the text must carry a
// confirmation marker, a transfer phrase, and at least one identity marker
// (all recipient name fragments, or the till number).
func (c *Classifier) Classify(text string) Classification {
	t := strings.ToLower(text)

	hasConfirmation := strings.Contains(t, "confirmed")
	hasTransfer := strings.Contains(t, "paid to")
	hasIdentity := c.matchesRecipient(t) || (c.till != "" && strings.Contains(t, c.till))

	if !hasConfirmation || !hasTransfer || !hasIdentity {
		return Classification{}
	}

	out := Classification{IsPayment: true}
	if m := amountRe.FindStringSubmatch(t); m != nil {
		raw := strings.ReplaceAll(m[1], ",", "")
		if amount, err := strconv.ParseFloat(raw, 64); err == nil {
			out.HasAmount = true
			out.Amount = amount
		}
	}
	if c.minAmount > 0 && out.HasAmount && out.Amount < c.minAmount {
		out.Underpaid = true
	}
	return out
}

func (c *Classifier) matchesRecipient(lowered string) bool {
	if len(c.nameFragments) == 0 {
		return false
	}
	for _, f := range c.nameFragments {
		if !strings.Contains(lowered, f) {
			return false
		}
	}
	return true
}
