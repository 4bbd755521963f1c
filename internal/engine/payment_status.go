package engine

import (
	"travel-backoffice/internal/data/entity"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentOverpaid PaymentStatus = "overpaid"
)

var paymentLabels = map[PaymentStatus]string{
	PaymentUnpaid:   "Non payé",
	PaymentPartial:  "Partiel",
	PaymentPaid:     "Payé",
	PaymentOverpaid: "Trop-perçu",
}

// Label is the display text of the status.
func (s PaymentStatus) Label() string {
	return paymentLabels[s]
}

// Settled is true once nothing is left to pay.
func (s PaymentStatus) Settled() bool {
	return s == PaymentPaid || s == PaymentOverpaid
}

// ResolvePaymentStatus classifies a payment from its amounts. IsFullyPaid is ignored.
func ResolvePaymentStatus(p entity.PaymentInfo) PaymentStatus {
	switch {
	case p.PaidAmount <= 0:
		return PaymentUnpaid
	case p.PaidAmount > p.TotalPrice:
		return PaymentOverpaid
	case p.PaidAmount == p.TotalPrice:
		return PaymentPaid
	default:
		return PaymentPartial
	}
}
