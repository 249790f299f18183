package mercadopago

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a single record from the MercadoPago payments search API.
// Fields mirror the provider's wire format; the record is never mutated
// after decoding.
type Payment struct {
	ID                 int64               `json:"id"`
	Status             string              `json:"status"`
	TransactionAmount  decimal.Decimal     `json:"transaction_amount"`
	Description        string              `json:"description"`
	DateCreated        time.Time           `json:"date_created"`
	DateApproved       *time.Time          `json:"date_approved"`
	CollectorID        int64               `json:"collector_id"`
	PayerID            int64               `json:"payer_id"` // legacy top-level payer id
	Payer              Identity            `json:"payer"`
	Collector          Identity            `json:"collector"`
	TransactionDetails *TransactionDetails `json:"transaction_details"`
}

// Identity describes a payer or collector as reported by the provider.
// Any of the fields may be absent depending on the payment method.
type Identity struct {
	ID             int64          `json:"id"`
	Nickname       string         `json:"nickname"`
	Email          string         `json:"email"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Identification Identification `json:"identification"`
}

// Identification is a national identification document (e.g. DNI/CUIL).
type Identification struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

// TransactionDetails carries the settlement breakdown of a payment.
type TransactionDetails struct {
	NetReceivedAmount decimal.Decimal `json:"net_received_amount"`
	TotalPaidAmount   decimal.Decimal `json:"total_paid_amount"`
}

// searchResponse is the envelope returned by /v1/payments/search.
type searchResponse struct {
	Results []Payment `json:"results"`
	Paging  paging    `json:"paging"`
}

type paging struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Balance is the account balance reported by the provider.
// It is passed through to callers without classification.
type Balance struct {
	TotalAmount        decimal.Decimal `json:"total_amount"`
	AvailableBalance   decimal.Decimal `json:"available_balance"`
	UnavailableBalance decimal.Decimal `json:"unavailable_balance"`
}

// PaymentStatusApproved is the only status visible to the panel.
// Pending, rejected and refunded payments are dropped during
// classification.
const PaymentStatusApproved = "approved"
