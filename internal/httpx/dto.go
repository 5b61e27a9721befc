package httpx

import "github.com/lhardev/storefront/internal/orders"

type CreateOrderRequest struct {
	Cart              []orders.CartItem      `json:"cart"`
	Amount            int64                  `json:"amount"`
	PaymentType       string                 `json:"paymentType"`
	CustomerDetails   orders.CustomerDetails `json:"customerDetails"`
	PaymentScreenshot string                 `json:"paymentScreenshot,omitempty"`
	TransactionID     string                 `json:"transactionId,omitempty"`
}

type CreateOrderResponse struct {
	Success       bool          `json:"success"`
	OrderID       string        `json:"orderId"`
	TransactionID string        `json:"transactionId"`
	Message       string        `json:"message"`
	Details       AmountDetails `json:"details"`
}

type AmountDetails struct {
	Total int64  `json:"total"`
	Paid  int64  `json:"paid"`
	Due   int64  `json:"due"`
	Date  string `json:"date"`
}

type PayDeferredRequest struct {
	Amount int64 `json:"amount"`
}

type PayDeferredResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Duplicate bool         `json:"duplicate,omitempty"`
	Order     orders.Order `json:"order"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdateStatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type DeleteOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SiteConfigResponse is the client bootstrap payload.
type SiteConfigResponse struct {
	AdvanceAmount int64  `json:"advanceAmount"`
	UPIID         string `json:"upiId"`
	SiteName      string `json:"siteName"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
