package ledger

import (
	"strconv"
	"time"

	"github.com/AleeCode25/panel-billeteras/service/mercadopago"
	"github.com/shopspring/decimal"
)

// Fallback labels for counterparties the provider cannot name.
const (
	unknownSenderLabel    = "Ingreso sin remitente"
	unknownRecipientLabel = "Salida sin destinatario"

	// identificationUnavailable is the sentinel shown when the provider
	// reports no national identification for the counterparty.
	identificationUnavailable = "N/A"
)

// Transaction is the panel's normalized view of a provider payment,
// framed from the account owner's perspective: the name and
// identification always belong to the counterparty.
type Transaction struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Identification string          `json:"identification"`
	OccurredAt     *time.Time      `json:"occurred_at"`
}

// Classified holds the two directional views of a raw payment set.
// Both preserve the input ordering (provider's newest-first).
type Classified struct {
	Incoming []Transaction
	Outgoing []Transaction
}

// Classify partitions raw payments by direction relative to ownerID.
// A payment is incoming when the owner collected it and money actually
// arrived, outgoing when the owner paid someone else. Non-approved
// payments are invisible to both views.
func Classify(payments []mercadopago.Payment, ownerID int64) Classified {
	var out Classified
	// A zero owner id matches nothing: provider records with absent
	// payer or collector ids decode to zero and must never pair with
	// an unconfigured owner.
	if ownerID == 0 {
		return out
	}
	for _, p := range payments {
		if p.Status != mercadopago.PaymentStatusApproved {
			continue
		}
		if isIncoming(p, ownerID) {
			out.Incoming = append(out.Incoming, normalizeIncoming(p))
		}
		if isOutgoing(p, ownerID) {
			out.Outgoing = append(out.Outgoing, normalizeOutgoing(p))
		}
	}
	return out
}

func isIncoming(p mercadopago.Payment, ownerID int64) bool {
	return p.CollectorID == ownerID &&
		p.TransactionDetails != nil &&
		p.TransactionDetails.NetReceivedAmount.IsPositive()
}

func isOutgoing(p mercadopago.Payment, ownerID int64) bool {
	isPayer := p.Payer.ID == ownerID || p.PayerID == ownerID
	return isPayer && p.CollectorID != ownerID
}

// normalizeIncoming maps a received payment; the counterparty is the payer.
func normalizeIncoming(p mercadopago.Payment) Transaction {
	name := p.Payer.Nickname
	if name == "" {
		name = p.Payer.Email
	}
	if name == "" {
		name = unknownSenderLabel
	}
	return Transaction{
		ID:             strconv.FormatInt(p.ID, 10),
		Name:           name,
		Amount:         p.TransactionAmount,
		Identification: identificationOrDefault(p.Payer.Identification),
		OccurredAt:     occurredAt(p),
	}
}

// normalizeOutgoing maps a sent payment; the counterparty is the collector.
// Transfers often carry no collector nickname, so the free-text
// description is the next best name.
func normalizeOutgoing(p mercadopago.Payment) Transaction {
	name := p.Collector.Nickname
	if name == "" {
		name = p.Description
	}
	if name == "" {
		name = unknownRecipientLabel
	}
	return Transaction{
		ID:             strconv.FormatInt(p.ID, 10),
		Name:           name,
		Amount:         p.TransactionAmount,
		Identification: identificationOrDefault(p.Collector.Identification),
		OccurredAt:     occurredAt(p),
	}
}

func identificationOrDefault(id mercadopago.Identification) string {
	if id.Number == "" {
		return identificationUnavailable
	}
	return id.Number
}

// occurredAt prefers the approval timestamp, falling back to creation.
func occurredAt(p mercadopago.Payment) *time.Time {
	if p.DateApproved != nil {
		return p.DateApproved
	}
	created := p.DateCreated
	return &created
}
