package checkout

import (
    "encoding/json"
    "errors"
    "net/http"

    "github.com/MahmoudElhosary/MastercardHostedCheckout/checkout/models"
    "github.com/MahmoudElhosary/MastercardHostedCheckout/internal/mpgs"
    "github.com/go-chi/chi/v5"
)

// API is the HTTP surface of the checkout service.
type API struct {
    checkout *Service
}

func NewAPI(checkout *Service) *API {
    return &API{
        checkout: checkout,
    }
}

func (a *API) AppendRoutes(r chi.Router) {
    r.Route("/checkout", func(r chi.Router) {
        r.Post("/", a.initiateCheckout)
        r.Route("/{orderID}", func(r chi.Router) {
            r.Get("/", a.getCheckout)
            r.Get("/result", a.observeCheckout)
            r.Post("/pay", a.payCheckout)
        })
    })
    r.Delete("/links/{linkID}", a.deleteLink)
}

func (a *API) initiateCheckout(w http.ResponseWriter, r *http.Request) {
    req := models.InitiateCheckout{}
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        http.Error(w, err.Error(), http.StatusBadRequest)
        return
    }
    if req.Currency == "" {
        http.Error(w, "currency is required", http.StatusBadRequest)
        return
    }

    checkout, err := a.checkout.Initiate(r.Context(), req)
    if err != nil {
        http.Error(w, err.Error(), gatewayStatus(err))
        return
    }

    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusCreated)
    json.NewEncoder(w).Encode(checkout)
}

func (a *API) getCheckout(w http.ResponseWriter, r *http.Request) {
    orderID := chi.URLParam(r, "orderID")

    checkout, err := a.checkout.repo.GetCheckout(orderID)
    if err != nil {
        if errors.Is(err, ErrNotFound) {
            http.Error(w, err.Error(), http.StatusNotFound)
        } else {
            http.Error(w, err.Error(), http.StatusInternalServerError)
        }
        return
    }

    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusOK)
    json.NewEncoder(w).Encode(checkout)
}

// observeCheckout is the return-from-3DS callback. It reconciles the order
// with the gateway and, when the order is authenticated, captures it.
func (a *API) observeCheckout(w http.ResponseWriter, r *http.Request) {
    orderID := chi.URLParam(r, "orderID")

    checkout, err := a.checkout.Observe(r.Context(), orderID)
    if err != nil {
        if errors.Is(err, ErrNotFound) {
            http.Error(w, err.Error(), http.StatusNotFound)
        } else {
            http.Error(w, err.Error(), gatewayStatus(err))
        }
        return
    }

    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusOK)
    json.NewEncoder(w).Encode(checkout)
}

func (a *API) payCheckout(w http.ResponseWriter, r *http.Request) {
    orderID := chi.URLParam(r, "orderID")

    req := models.PayCheckout{}
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        http.Error(w, err.Error(), http.StatusBadRequest)
        return
    }
    if req.AuthTransactionID == "" {
        http.Error(w, "authTransactionId is required", http.StatusBadRequest)
        return
    }

    checkout, err := a.checkout.Capture(r.Context(), orderID, req)
    if err != nil {
        if errors.Is(err, ErrNotFound) {
            http.Error(w, err.Error(), http.StatusNotFound)
        } else {
            http.Error(w, err.Error(), gatewayStatus(err))
        }
        return
    }

    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusOK)
    json.NewEncoder(w).Encode(checkout)
}

func (a *API) deleteLink(w http.ResponseWriter, r *http.Request) {
    linkID := chi.URLParam(r, "linkID")

    if !a.checkout.RemovePaymentLink(r.Context(), linkID) {
        http.Error(w, "link not removed", http.StatusBadGateway)
        return
    }

    w.WriteHeader(http.StatusNoContent)
}

// gatewayStatus maps gateway failures onto HTTP statuses: transport
// failures are 502s the storefront may retry, everything else is the
// request's fault.
func gatewayStatus(err error) int {
    var gwErr *mpgs.GatewayError
    if errors.As(err, &gwErr) {
        if gwErr.Retryable() || gwErr.Kind == mpgs.KindInvalid {
            return http.StatusBadGateway
        }
        return http.StatusUnprocessableEntity
    }
    return http.StatusInternalServerError
}
