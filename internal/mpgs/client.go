package mpgs

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "log/slog"
    "net/http"
    "strings"
    "time"
)

// DefaultTimeout bounds every gateway call. The client makes exactly one
// attempt per call; retrying is the caller's decision.
const DefaultTimeout = 60 * time.Second

// Client talks to the gateway's REST surface. All operations authenticate
// with Basic credentials derived from the merchant identity and the shared
// API password.
type Client struct {
    baseURL  string
    version  string
    username string
    password string
    http     *http.Client
    logger   *slog.Logger
}

// NewClient builds a gateway client. username is optional: when empty the
// standard "merchant.{merchantId}" form is used. A nil hc gets a client
// with the default timeout.
func NewClient(logger *slog.Logger, baseURL, version, username, password string, hc *http.Client) *Client {
    if hc == nil {
        hc = &http.Client{Timeout: DefaultTimeout}
    }
    return &Client{
        baseURL:  strings.TrimRight(baseURL, "/"),
        version:  version,
        username: username,
        password: password,
        http:     hc,
        logger:   logger.With(slog.String("component", "mpgs")),
    }
}

// CreateSessionRequest is the body of POST .../session. Amounts travel as
// pre-formatted strings so the wire value always carries the currency's
// fixed precision.
type CreateSessionRequest struct {
    APIOperation string       `json:"apiOperation"`
    CheckoutMode string       `json:"checkoutMode,omitempty"`
    Interaction  Interaction  `json:"interaction"`
    Order        SessionOrder `json:"order"`
}

type SessionOrder struct {
    ID          string `json:"id"`
    Amount      string `json:"amount"`
    Currency    string `json:"currency"`
    Description string `json:"description,omitempty"`
}

type Interaction struct {
    Operation      string              `json:"operation"`
    ReturnURL      string              `json:"returnUrl,omitempty"`
    CancelURL      string              `json:"cancelUrl,omitempty"`
    Merchant       InteractionMerchant `json:"merchant"`
    DisplayControl *DisplayControl     `json:"displayControl,omitempty"`
    Action         *InteractionAction  `json:"action,omitempty"`
}

type InteractionMerchant struct {
    Name string `json:"name,omitempty"`
}

type DisplayControl struct {
    CardSecurityCode string `json:"cardSecurityCode,omitempty"`
    BillingAddress   string `json:"billingAddress,omitempty"`
}

type InteractionAction struct {
    ThreeDSecure string `json:"3DSecure,omitempty"`
}

// PayRequest is the body of PUT .../order/{orderId}/transaction/{txId}.
type PayRequest struct {
    APIOperation   string             `json:"apiOperation"`
    Order          PayOrder           `json:"order"`
    Authentication PayAuthentication  `json:"authentication"`
}

type PayOrder struct {
    Amount   string `json:"amount"`
    Currency string `json:"currency"`
}

type PayAuthentication struct {
    TransactionID string `json:"transactionId"`
}

// CreateSession opens a hosted checkout session for the order embedded in
// req and returns the gateway's response document.
func (c *Client) CreateSession(ctx context.Context, merchantID string, req CreateSessionRequest) (*Document, error) {
    url := fmt.Sprintf("%s/api/rest/version/%s/merchant/%s/session", c.baseURL, c.version, merchantID)
    return c.do(ctx, "create session", http.MethodPost, url, merchantID, req)
}

// RetrieveOrder fetches the current gateway view of an order.
func (c *Client) RetrieveOrder(ctx context.Context, merchantID, orderID string) (*Document, error) {
    url := fmt.Sprintf("%s/api/rest/version/%s/merchant/%s/order/%s", c.baseURL, c.version, merchantID, orderID)
    return c.do(ctx, "retrieve order", http.MethodGet, url, merchantID, nil)
}

// SubmitPayment runs the PAY operation for an order under a fresh payment
// transaction id.
func (c *Client) SubmitPayment(ctx context.Context, merchantID, orderID, transactionID string, req PayRequest) (*Document, error) {
    url := fmt.Sprintf("%s/api/rest/version/%s/merchant/%s/order/%s/transaction/%s", c.baseURL, c.version, merchantID, orderID, transactionID)
    return c.do(ctx, "submit payment", http.MethodPut, url, merchantID, req)
}

// DeleteLink removes a payment link. Any 2xx status is success; the
// gateway may answer 204 with no body, so no document is expected here.
func (c *Client) DeleteLink(ctx context.Context, merchantID, linkID string) bool {
    url := fmt.Sprintf("%s/api/rest/version/%s/merchant/%s/link/%s", c.baseURL, c.version, merchantID, linkID)

    req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
    if err != nil {
        c.logger.Info("delete link failed", slog.String("linkID", linkID), slog.Any("err", err))
        return false
    }
    req.SetBasicAuth(c.authUsername(merchantID), c.password)

    resp, err := c.http.Do(req)
    if err != nil {
        c.logger.Info("delete link failed", slog.String("linkID", linkID), slog.Any("err", err))
        return false
    }
    defer resp.Body.Close()
    io.Copy(io.Discard, resp.Body)

    if resp.StatusCode/100 != 2 {
        c.logger.Info("delete link rejected", slog.String("linkID", linkID), slog.Int("status", resp.StatusCode))
        return false
    }
    return true
}

func (c *Client) do(ctx context.Context, op, method, url, merchantID string, body any) (*Document, error) {
    var reader io.Reader
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil {
            return nil, fmt.Errorf("%s: encoding request: %w", op, err)
        }
        reader = bytes.NewReader(b)
    }

    req, err := http.NewRequestWithContext(ctx, method, url, reader)
    if err != nil {
        return nil, fmt.Errorf("%s: building request: %w", op, err)
    }
    if body != nil {
        req.Header.Set("Content-Type", "application/json")
    }
    req.SetBasicAuth(c.authUsername(merchantID), c.password)

    c.logger.Debug("gateway request", slog.String("method", method), slog.String("url", url))

    resp, err := c.http.Do(req)
    if err != nil {
        kind := KindUnreachable
        if isTimeout(err) {
            kind = KindTimeout
        }
        return nil, &GatewayError{Kind: kind, Op: op, Err: err}
    }
    defer resp.Body.Close()

    raw, err := io.ReadAll(resp.Body)
    if err != nil {
        return nil, &GatewayError{Kind: KindUnreachable, Op: op, Err: fmt.Errorf("reading body: %w", err)}
    }

    c.logger.Debug("gateway response", slog.Int("status", resp.StatusCode), slog.Int("bytes", len(raw)))

    if resp.StatusCode/100 != 2 {
        return nil, &GatewayError{
            Kind:       KindRejected,
            Op:         op,
            HTTPStatus: resp.StatusCode,
            Body:       string(raw),
            Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
        }
    }

    trimmed := strings.TrimSpace(string(raw))
    if trimmed == "" {
        return nil, &GatewayError{Kind: KindInvalid, Op: op, Err: errors.New("empty response body")}
    }
    if strings.HasPrefix(trimmed, "<") {
        return nil, &GatewayError{Kind: KindInvalid, Op: op, Body: string(raw), Err: errors.New("response is markup, expected JSON")}
    }

    doc := &Document{}
    if err := json.Unmarshal(raw, doc); err != nil {
        return nil, &GatewayError{Kind: KindInvalid, Op: op, Body: string(raw), Err: fmt.Errorf("decoding response: %w", err)}
    }
    return doc, nil
}

func (c *Client) authUsername(merchantID string) string {
    if c.username != "" {
        return c.username
    }
    return "merchant." + merchantID
}

func isTimeout(err error) bool {
    if errors.Is(err, context.DeadlineExceeded) {
        return true
    }
    var t interface{ Timeout() bool }
    return errors.As(err, &t) && t.Timeout()
}
