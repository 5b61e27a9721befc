// Package orders implements the order lifecycle: creation from a priced
// cart, follow-up payment reconciliation, administrative status changes and
// deletion. Money is held as int64 whole currency units so the conservation
// rule paid + due == total is exact.
package orders

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is derived from the amounts, never set directly by callers:
// it is fixed at creation and re-derived after every reconciled payment.
type PaymentStatus string

const (
	// StatusPending: cash-on-delivery order, nothing received yet.
	StatusPending PaymentStatus = "PENDING"
	// StatusPartialPaid: an advance was taken at creation, or a deferred
	// payment still left due outstanding.
	StatusPartialPaid PaymentStatus = "PARTIAL_PAID"
	// StatusPaid: due has reached zero. Terminal.
	StatusPaid PaymentStatus = "PAID"
)

// PaymentType is the payment channel declared by the caller. Values outside
// the known constants are accepted and treated as full online payment.
type PaymentType string

const (
	PaymentCOD    PaymentType = "COD"
	PaymentOnline PaymentType = "ONLINE"
)

// advanceTiers are the only partial amounts recognized at creation time.
// This is a closed enumeration, not a threshold: 500 is a full payment of a
// 500-rupee order, never an advance.
var advanceTiers = map[int64]bool{499: true, 999: true}

// IsAdvance reports whether amount at creation time counts as an advance
// payment for the given channel.
func IsAdvance(pt PaymentType, amount int64) bool {
	return pt == PaymentOnline && advanceTiers[amount]
}

// CartItem is one priced cart line. ID is the composite line id (base
// product id joined with the chosen variant values) so two variants of the
// same product stay distinct lines. Price is already variant-adjusted by the
// pricing engine; the order side trusts it as given.
type CartItem struct {
	ID        string `json:"id"`
	ProductID int    `json:"productId,omitempty"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Amounts is the money breakdown of an order. Paid + Due == Total holds
// after creation and after every reconciled payment.
type Amounts struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
	Paid     int64 `json:"paid"`
	Due      int64 `json:"due"`
}

// Transaction is one entry in the order's append-only payment log.
type Transaction struct {
	Date   time.Time `json:"date"`
	Amount int64     `json:"amount"`
	Kind   string    `json:"type"`
}

// TxnDeferredPayment marks a payment applied after order creation.
const TxnDeferredPayment = "DEFERRED_PAYMENT"

// PendingCODTransaction is the sentinel transaction id for cash-on-delivery
// orders, where no payment reference exists yet.
const PendingCODTransaction = "PENDING-COD"

// CustomerDetails is the shipping/contact block captured at checkout.
type CustomerDetails struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
}

// Order is the persisted order record. Items are a snapshot taken at
// creation and never mutated afterwards, so price history survives later
// catalog changes. Status is the operator-set channel and PaymentStatus the
// system-derived one; the two are independent and never reconciled with each
// other.
type Order struct {
	OrderID           string          `json:"orderId"`
	TransactionID     string          `json:"transactionId"`
	Date              time.Time       `json:"date"`
	Items             []CartItem      `json:"items"`
	Amounts           Amounts         `json:"amounts"`
	PaymentType       PaymentType     `json:"paymentType"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus"`
	Status            string          `json:"status,omitempty"`
	PaymentScreenshot string          `json:"paymentScreenshot,omitempty"`
	CustomerDetails   CustomerDetails `json:"customerDetails"`
	Transactions      []Transaction   `json:"transactions,omitempty"`
}

// Draft carries everything the caller declares at order creation.
// Amount is money already asserted as received; there is no gateway
// verification here.
type Draft struct {
	Cart              []CartItem
	Amount            int64
	PaymentType       PaymentType
	Customer          CustomerDetails
	PaymentScreenshot string
	TransactionID     string
}

// New assembles an Order from a draft at the given time.
//
// Subtotal is the cart sum, tax is zero, total equals the subtotal. The
// initial payment status is PARTIAL_PAID for a recognized online advance,
// PENDING for cash on delivery, and PAID otherwise (a full online payment).
// The order id is a random unguessable token with a readable prefix; the
// transaction id is the caller's value when supplied, the PENDING-COD
// sentinel for COD, or a time-derived token.
func New(d Draft, now time.Time) Order {
	var subtotal int64
	for _, it := range d.Cart {
		subtotal += it.Price * int64(it.Quantity)
	}
	total := subtotal

	var status PaymentStatus
	switch {
	case IsAdvance(d.PaymentType, d.Amount):
		status = StatusPartialPaid
	case d.PaymentType == PaymentCOD:
		status = StatusPending
	default:
		status = StatusPaid
	}

	txnID := d.TransactionID
	if txnID == "" {
		if d.PaymentType == PaymentCOD {
			txnID = PendingCODTransaction
		} else {
			txnID = "TXN-" + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
		}
	}

	items := make([]CartItem, len(d.Cart))
	copy(items, d.Cart)

	return Order{
		OrderID:           NewOrderID(),
		TransactionID:     txnID,
		Date:              now,
		Items:             items,
		Amounts:           Amounts{Subtotal: subtotal, Total: total, Paid: d.Amount, Due: total - d.Amount},
		PaymentType:       d.PaymentType,
		PaymentStatus:     status,
		PaymentScreenshot: d.PaymentScreenshot,
		CustomerDetails:   d.Customer,
	}
}

// NewOrderID generates a fresh order identifier. UUIDv4 under a short prefix
// keeps ids unguessable while staying readable in logs and admin views.
func NewOrderID() string {
	return "ORD-" + uuid.NewString()
}

// ApplyPayment reconciles a deferred payment into the order: paid moves up
// and due down by exactly amount, the status is re-derived, and the payment
// is appended to the transaction log.
//
// Amount is intentionally not range-checked (negative, zero or larger than
// due are all accepted); see the validation notes in DESIGN.md.
func (o *Order) ApplyPayment(amount int64, now time.Time) {
	o.Amounts.Paid += amount
	o.Amounts.Due -= amount
	if o.Amounts.Due <= 0 {
		o.PaymentStatus = StatusPaid
	} else {
		o.PaymentStatus = StatusPartialPaid
	}
	o.Transactions = append(o.Transactions, Transaction{
		Date:   now,
		Amount: amount,
		Kind:   TxnDeferredPayment,
	})
}
