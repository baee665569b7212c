package models

import (
    "github.com/shopspring/decimal"
)

// Status is the lifecycle state of a checkout. CAPTURED and FAILED are
// terminal; no transition leaves them.
type Status string

const (
    StatusCreated       Status = "CREATED"
    StatusAuthenticated Status = "AUTHENTICATED"
    StatusCaptured      Status = "CAPTURED"
    StatusFailed        Status = "FAILED"
)

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
    return s == StatusCaptured || s == StatusFailed
}

// Checkout is one order driven through the hosted checkout lifecycle.
// Only the orchestrator mutates it, always through the repository.
type Checkout struct {
    OrderID    string `json:"orderId"`
    MerchantID string `json:"merchantId"`
    SessionID  string `json:"sessionId,omitempty"`
    // SuccessIndicator is the gateway's value for verifying the return
    // redirect; the storefront compares it against the resultIndicator
    // query parameter.
    SuccessIndicator string `json:"successIndicator,omitempty"`

    Amount      decimal.Decimal `json:"amount"`
    Currency    string          `json:"currency"`
    Description string          `json:"description,omitempty"`
    Status      Status          `json:"status"`
    // FailureReason is set when Status is FAILED.
    FailureReason string `json:"failureReason,omitempty"`
    // Payment is set exactly once, by the capture step.
    Payment *PaymentAttempt `json:"payment,omitempty"`
}

// Clone returns a deep copy, safe to hold and encode outside the
// repository's lock.
func (c *Checkout) Clone() *Checkout {
    clone := *c
    if c.Payment != nil {
        payment := *c.Payment
        clone.Payment = &payment
    }
    return &clone
}

// PaymentAttempt records the single capture submission for an order.
// Immutable once the gateway has answered.
type PaymentAttempt struct {
    TransactionID     string `json:"transactionId"`
    AuthTransactionID string `json:"authTransactionId"`
    Amount            string `json:"amount"`
    Currency          string `json:"currency"`
    GatewayResult     string `json:"gatewayResult,omitempty"`
    GatewayCode       string `json:"gatewayCode,omitempty"`
}

// InitiateCheckout is the caller's request to open a new checkout session.
type InitiateCheckout struct {
    Amount      decimal.Decimal `json:"amount"`
    Currency    string          `json:"currency"`
    Description string          `json:"description,omitempty"`
}

// PayCheckout is the caller's request to capture an authenticated order.
type PayCheckout struct {
    AuthTransactionID string          `json:"authTransactionId"`
    Amount            decimal.Decimal `json:"amount"`
    Currency          string          `json:"currency"`
}
