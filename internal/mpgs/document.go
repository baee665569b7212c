package mpgs

import (
    "github.com/shopspring/decimal"
)

// Gateway result and status values used for control flow.
const (
    ResultSuccess       = "SUCCESS"
    GatewayCodeApproved = "APPROVED"

    StatusAuthenticated = "AUTHENTICATED"
    StatusCaptured      = "CAPTURED"
)

// Document is the typed view of a gateway JSON response. The gateway is
// inconsistent about field placement: amount, currency and status appear
// either under the nested order object or at the document root depending on
// the endpoint, and amounts arrive as JSON numbers or numeric strings.
// decimal.Decimal accepts both encodings; the Effective* accessors resolve
// the nested-or-root fallback so callers never probe locations themselves.
type Document struct {
    Result           string         `json:"result,omitempty"`
    Status           string         `json:"status,omitempty"`
    Amount           *decimal.Decimal `json:"amount,omitempty"`
    Currency         string         `json:"currency,omitempty"`
    Order            *OrderFields   `json:"order,omitempty"`
    Transaction      []Transaction  `json:"transaction,omitempty"`
    Response         *ResponseFields `json:"response,omitempty"`
    Session          *Session       `json:"session,omitempty"`
    SuccessIndicator string         `json:"successIndicator,omitempty"`
    Error            *ErrorFields   `json:"error,omitempty"`
}

type OrderFields struct {
    ID       string           `json:"id,omitempty"`
    Amount   *decimal.Decimal `json:"amount,omitempty"`
    Currency string           `json:"currency,omitempty"`
    Status   string           `json:"status,omitempty"`
}

type Transaction struct {
    Result         string          `json:"result,omitempty"`
    Response       *ResponseFields `json:"response,omitempty"`
    Authentication *Authentication `json:"authentication,omitempty"`
}

type Authentication struct {
    TransactionID string   `json:"transactionId,omitempty"`
    ThreeDS       *ThreeDS `json:"3ds,omitempty"`
}

type ThreeDS struct {
    TransactionID       string `json:"transactionId,omitempty"`
    AuthenticationToken string `json:"authenticationToken,omitempty"`
}

type ResponseFields struct {
    GatewayCode string `json:"gatewayCode,omitempty"`
}

type Session struct {
    ID      string `json:"id,omitempty"`
    Version string `json:"version,omitempty"`
}

type ErrorFields struct {
    Cause       string `json:"cause,omitempty"`
    Explanation string `json:"explanation,omitempty"`
}

// EffectiveStatus returns the order status, preferring the nested order
// object over the document root.
func (d *Document) EffectiveStatus() string {
    if d.Order != nil && d.Order.Status != "" {
        return d.Order.Status
    }
    return d.Status
}

// EffectiveAmount returns the order amount from the nested order object,
// falling back to the document root. ok is false when neither carries one.
func (d *Document) EffectiveAmount() (decimal.Decimal, bool) {
    if d.Order != nil && d.Order.Amount != nil {
        return *d.Order.Amount, true
    }
    if d.Amount != nil {
        return *d.Amount, true
    }
    return decimal.Decimal{}, false
}

// EffectiveCurrency returns the order currency, nested first, root second.
func (d *Document) EffectiveCurrency() string {
    if d.Order != nil && d.Order.Currency != "" {
        return d.Order.Currency
    }
    return d.Currency
}

// AuthTransactionID scans the transaction list in document order and
// returns the 3DS transaction id of the first entry that both succeeded
// and carries a non-empty 3DS id. ok is false when no entry qualifies;
// that is a normal outcome, not an error.
func (d *Document) AuthTransactionID() (string, bool) {
    for _, tx := range d.Transaction {
        if tx.Result != ResultSuccess {
            continue
        }
        if tx.Authentication == nil || tx.Authentication.ThreeDS == nil {
            continue
        }
        if id := tx.Authentication.ThreeDS.TransactionID; id != "" {
            return id, true
        }
    }
    return "", false
}

// Approved reports whether a payment response is approved: top-level
// result SUCCESS and gateway code APPROVED. The returned code is the
// gateway's own code for diagnostics whatever the outcome.
func (d *Document) Approved() (bool, string) {
    code := ""
    if d.Response != nil {
        code = d.Response.GatewayCode
    }
    return d.Result == ResultSuccess && code == GatewayCodeApproved, code
}
