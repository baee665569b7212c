package checkout

import (
    "context"
    "encoding/hex"
    "fmt"
    "log/slog"
    "net/url"
    "strings"

    "github.com/MahmoudElhosary/MastercardHostedCheckout/checkout/models"
    "github.com/MahmoudElhosary/MastercardHostedCheckout/internal/currency"
    "github.com/MahmoudElhosary/MastercardHostedCheckout/internal/mpgs"
    "github.com/google/uuid"
    "github.com/shopspring/decimal"
)

// Gateway is the slice of the gateway client the orchestrator needs.
type Gateway interface {
    CreateSession(ctx context.Context, merchantID string, req mpgs.CreateSessionRequest) (*mpgs.Document, error)
    RetrieveOrder(ctx context.Context, merchantID, orderID string) (*mpgs.Document, error)
    SubmitPayment(ctx context.Context, merchantID, orderID, transactionID string, req mpgs.PayRequest) (*mpgs.Document, error)
    DeleteLink(ctx context.Context, merchantID, linkID string) bool
}

// Service drives orders through the checkout lifecycle:
// CREATED → AUTHENTICATED → CAPTURED, with FAILED absorbing from any
// point. Each call is a single attempt; retrying a step means the caller
// invokes it again.
type Service struct {
    repo    *Repository
    gateway Gateway
    cfg     *Config
    logger  *slog.Logger
}

func NewService(logger *slog.Logger, repo *Repository, gateway Gateway, cfg *Config) *Service {
    return &Service{
        repo:    repo,
        gateway: gateway,
        cfg:     cfg,
        logger:  logger.With(slog.String("component", "checkout")),
    }
}

// Initiate opens a hosted checkout session for a new order. The session
// mandates the 3DS step-up and the card security code, and hides the
// billing address block. Nothing is stored when the gateway declines:
// the caller simply gets the failure and may start over.
func (s *Service) Initiate(ctx context.Context, req models.InitiateCheckout) (*models.Checkout, error) {
    code := strings.ToUpper(req.Currency)
    orderID := newOrderID()
    merchantID := s.cfg.MerchantFor(code)
    formatted := currency.FormatAmount(req.Amount, code)

    description := req.Description
    if description == "" {
        description = fmt.Sprintf("Order for %s %s", formatted, code)
    }

    sessionReq := mpgs.CreateSessionRequest{
        APIOperation: "INITIATE_CHECKOUT",
        CheckoutMode: "WEBSITE",
        Interaction: mpgs.Interaction{
            Operation: "PURCHASE",
            ReturnURL: s.returnURL(orderID, merchantID),
            Merchant:  mpgs.InteractionMerchant{Name: s.cfg.MerchantName},
            DisplayControl: &mpgs.DisplayControl{
                CardSecurityCode: "MANDATORY",
                BillingAddress:   "HIDE",
            },
            Action: &mpgs.InteractionAction{ThreeDSecure: "MANDATORY"},
        },
        Order: mpgs.SessionOrder{
            ID:          orderID,
            Amount:      formatted,
            Currency:    code,
            Description: description,
        },
    }

    doc, err := s.gateway.CreateSession(ctx, merchantID, sessionReq)
    if err != nil {
        return nil, fmt.Errorf("initiating checkout session: %w", err)
    }
    if doc.Result != mpgs.ResultSuccess {
        return nil, fmt.Errorf("initiating checkout session: gateway result %q", doc.Result)
    }
    if doc.Session == nil || doc.Session.ID == "" {
        return nil, fmt.Errorf("initiating checkout session: session id missing from response")
    }

    checkout := &models.Checkout{
        OrderID:          orderID,
        MerchantID:       merchantID,
        SessionID:        doc.Session.ID,
        SuccessIndicator: doc.SuccessIndicator,
        Amount:           req.Amount,
        Currency:         code,
        Description:      description,
        Status:           models.StatusCreated,
    }

    if err := s.repo.CreateCheckout(checkout); err != nil {
        return nil, fmt.Errorf("storing checkout: %w", err)
    }

    s.logger.Info("checkout session created",
        slog.String("orderID", orderID),
        slog.String("merchantID", merchantID),
        slog.String("sessionID", checkout.SessionID),
        slog.String("amount", formatted),
        slog.String("currency", code))

    return checkout, nil
}

// Observe reconciles the local order with the gateway's view, typically
// after the customer returns from the 3DS challenge. A CAPTURED order is
// reported as-is and never captured again, so replayed callbacks are
// harmless. An AUTHENTICATED order is captured immediately using the 3DS
// transaction id found in the gateway document.
func (s *Service) Observe(ctx context.Context, orderID string) (*models.Checkout, error) {
    checkout, err := s.repo.GetCheckout(orderID)
    if err != nil {
        return nil, fmt.Errorf("finding checkout %s: %w", orderID, err)
    }

    if checkout.Status.Terminal() {
        return checkout, nil
    }

    doc, err := s.gateway.RetrieveOrder(ctx, checkout.MerchantID, orderID)
    if err != nil {
        return nil, fmt.Errorf("retrieving order %s: %w", orderID, err)
    }

    status := doc.EffectiveStatus()
    switch status {
    case mpgs.StatusCaptured:
        return s.repo.UpdateCheckout(orderID, func(c *models.Checkout) {
            c.Status = models.StatusCaptured
            if amount, ok := doc.EffectiveAmount(); ok {
                c.Amount = amount
            }
            if code := doc.EffectiveCurrency(); code != "" {
                c.Currency = code
            }
        })

    case mpgs.StatusAuthenticated:
        authID, ok := doc.AuthTransactionID()
        if !ok {
            return s.fail(orderID, "authentication id missing")
        }

        amount := checkout.Amount
        if a, ok := doc.EffectiveAmount(); ok {
            amount = a
        }
        code := checkout.Currency
        if c := doc.EffectiveCurrency(); c != "" {
            code = c
        }

        if _, err := s.repo.UpdateCheckout(orderID, func(c *models.Checkout) {
            c.Status = models.StatusAuthenticated
        }); err != nil {
            return nil, err
        }

        s.logger.Info("order authenticated",
            slog.String("orderID", orderID),
            slog.String("authTransactionID", authID))

        return s.capture(ctx, orderID, authID, amount, code)

    default:
        return s.fail(orderID, fmt.Sprintf("unexpected status: %s", status))
    }
}

// Capture submits the PAY operation for an authenticated order. Calling it
// for an order that is already CAPTURED is a no-op returning the existing
// result.
func (s *Service) Capture(ctx context.Context, orderID string, req models.PayCheckout) (*models.Checkout, error) {
    if req.AuthTransactionID == "" {
        return nil, fmt.Errorf("capturing order %s: authentication transaction id is required", orderID)
    }

    code := strings.ToUpper(req.Currency)
    return s.capture(ctx, orderID, req.AuthTransactionID, req.Amount, code)
}

func (s *Service) capture(ctx context.Context, orderID, authTransactionID string, amount decimal.Decimal, code string) (*models.Checkout, error) {
    checkout, err := s.repo.GetCheckout(orderID)
    if err != nil {
        return nil, fmt.Errorf("finding checkout %s: %w", orderID, err)
    }

    if checkout.Status == models.StatusCaptured {
        return checkout, nil
    }
    if checkout.Status == models.StatusFailed {
        return checkout, nil
    }

    formatted := currency.FormatAmount(amount, code)
    transactionID := uuid.New().String()

    doc, err := s.gateway.SubmitPayment(ctx, checkout.MerchantID, orderID, transactionID, mpgs.PayRequest{
        APIOperation: "PAY",
        Order: mpgs.PayOrder{
            Amount:   formatted,
            Currency: code,
        },
        Authentication: mpgs.PayAuthentication{
            TransactionID: authTransactionID,
        },
    })
    if err != nil {
        return nil, fmt.Errorf("submitting payment for order %s: %w", orderID, err)
    }

    approved, gatewayCode := doc.Approved()

    attempt := &models.PaymentAttempt{
        TransactionID:     transactionID,
        AuthTransactionID: authTransactionID,
        Amount:            formatted,
        Currency:          code,
        GatewayResult:     doc.Result,
        GatewayCode:       gatewayCode,
    }

    updated, err := s.repo.UpdateCheckout(orderID, func(c *models.Checkout) {
        c.Payment = attempt
        if approved {
            c.Status = models.StatusCaptured
        } else {
            c.Status = models.StatusFailed
            c.FailureReason = fmt.Sprintf("payment not approved: gateway code %s", gatewayCode)
        }
    })
    if err != nil {
        return nil, err
    }

    s.logger.Info("payment submitted",
        slog.String("orderID", orderID),
        slog.String("transactionID", transactionID),
        slog.Bool("approved", approved),
        slog.String("gatewayCode", gatewayCode))

    return updated, nil
}

// RemovePaymentLink deletes a gateway payment link under the default
// merchant identity.
func (s *Service) RemovePaymentLink(ctx context.Context, linkID string) bool {
    return s.gateway.DeleteLink(ctx, s.cfg.MerchantID, linkID)
}

func (s *Service) fail(orderID, reason string) (*models.Checkout, error) {
    s.logger.Info("checkout failed", slog.String("orderID", orderID), slog.String("reason", reason))
    return s.repo.UpdateCheckout(orderID, func(c *models.Checkout) {
        c.Status = models.StatusFailed
        c.FailureReason = reason
    })
}

func (s *Service) returnURL(orderID, merchantID string) string {
    if s.cfg.ReturnURL == "" {
        return ""
    }
    q := url.Values{}
    q.Set("orderId", orderID)
    q.Set("merchantId", merchantID)
    return s.cfg.ReturnURL + "?" + q.Encode()
}

// newOrderID generates an order id unique per merchant, in the
// ORDER_XXXXXXXX form the storefront expects.
func newOrderID() string {
    u := uuid.New()
    return "ORDER_" + strings.ToUpper(hex.EncodeToString(u[:])[:8])
}
