package mpgs

import (
    "context"
    "encoding/json"
    "io"
    "log/slog"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
    t.Helper()
    srv := httptest.NewServer(handler)
    t.Cleanup(srv.Close)
    return NewClient(testLogger(), srv.URL, "63", "", "secret", srv.Client())
}

func testLogger() *slog.Logger {
    return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateSession_Success(t *testing.T) {
    var gotPath, gotAuthUser string
    var gotBody CreateSessionRequest

    client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        gotPath = r.URL.Path
        gotAuthUser, _, _ = r.BasicAuth()
        require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
        w.Write([]byte(`{"result": "SUCCESS", "session": {"id": "SESSION0001"}}`))
    })

    req := CreateSessionRequest{
        APIOperation: "INITIATE_CHECKOUT",
        Interaction: Interaction{
            Operation: "PURCHASE",
            Merchant:  InteractionMerchant{Name: "Test Shop"},
            Action:    &InteractionAction{ThreeDSecure: "MANDATORY"},
        },
        Order: SessionOrder{ID: "ORDER_1", Amount: "2.500", Currency: "KWD"},
    }

    doc, err := client.CreateSession(context.Background(), "TESTMERCHANT", req)
    require.NoError(t, err)
    require.Equal(t, "SUCCESS", doc.Result)
    require.Equal(t, "SESSION0001", doc.Session.ID)

    require.Equal(t, "/api/rest/version/63/merchant/TESTMERCHANT/session", gotPath)
    require.Equal(t, "merchant.TESTMERCHANT", gotAuthUser)
    require.Equal(t, "INITIATE_CHECKOUT", gotBody.APIOperation)
    require.Equal(t, "MANDATORY", gotBody.Interaction.Action.ThreeDSecure)
}

func TestClient_PlainUsernameVariant(t *testing.T) {
    var gotUser string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotUser, _, _ = r.BasicAuth()
        w.Write([]byte(`{"result": "SUCCESS"}`))
    }))
    defer srv.Close()

    client := NewClient(testLogger(), srv.URL, "63", "apiuser", "secret", srv.Client())
    _, err := client.RetrieveOrder(context.Background(), "M1", "ORDER_1")
    require.NoError(t, err)
    require.Equal(t, "apiuser", gotUser)
}

func TestClient_RejectedKeepsRawBody(t *testing.T) {
    const body = `{"error": {"cause": "INVALID_REQUEST", "explanation": "bad amount"}}`
    client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusInternalServerError)
        w.Write([]byte(body))
    })

    _, err := client.RetrieveOrder(context.Background(), "M1", "ORDER_1")
    require.Error(t, err)

    var gwErr *GatewayError
    require.ErrorAs(t, err, &gwErr)
    require.Equal(t, KindRejected, gwErr.Kind)
    require.Equal(t, http.StatusInternalServerError, gwErr.HTTPStatus)
    require.Equal(t, body, gwErr.Body)
    require.False(t, gwErr.Retryable())
}

func TestClient_EmptyBody(t *testing.T) {
    client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
    })

    _, err := client.RetrieveOrder(context.Background(), "M1", "ORDER_1")
    var gwErr *GatewayError
    require.ErrorAs(t, err, &gwErr)
    require.Equal(t, KindInvalid, gwErr.Kind)
}

func TestClient_MarkupBody(t *testing.T) {
    client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte("<html><body>session expired</body></html>"))
    })

    _, err := client.RetrieveOrder(context.Background(), "M1", "ORDER_1")
    var gwErr *GatewayError
    require.ErrorAs(t, err, &gwErr)
    require.Equal(t, KindInvalid, gwErr.Kind)
    require.Contains(t, gwErr.Error(), "markup")
}

func TestClient_Unreachable(t *testing.T) {
    // Closed port: connection refused.
    client := NewClient(testLogger(), "http://127.0.0.1:1", "63", "", "secret", &http.Client{Timeout: time.Second})

    _, err := client.RetrieveOrder(context.Background(), "M1", "ORDER_1")
    var gwErr *GatewayError
    require.ErrorAs(t, err, &gwErr)
    require.Equal(t, KindUnreachable, gwErr.Kind)
    require.True(t, gwErr.Retryable())
}

func TestClient_Timeout(t *testing.T) {
    client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        select {
        case <-r.Context().Done():
        case <-time.After(5 * time.Second):
        }
    })
    client.http = &http.Client{Timeout: 50 * time.Millisecond}

    _, err := client.RetrieveOrder(context.Background(), "M1", "ORDER_1")
    var gwErr *GatewayError
    require.ErrorAs(t, err, &gwErr)
    require.Equal(t, KindTimeout, gwErr.Kind)
    require.True(t, gwErr.Retryable())
}

func TestDeleteLink(t *testing.T) {
    var gotMethod, gotPath string
    client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        gotMethod = r.Method
        gotPath = r.URL.Path
        w.Write([]byte(`{"result": "SUCCESS"}`))
    })

    require.True(t, client.DeleteLink(context.Background(), "M1", "LINK42"))
    require.Equal(t, http.MethodDelete, gotMethod)
    require.Equal(t, "/api/rest/version/63/merchant/M1/link/LINK42", gotPath)
}

func TestDeleteLink_NoContentIsSuccess(t *testing.T) {
    client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusNoContent)
    })
    require.True(t, client.DeleteLink(context.Background(), "M1", "LINK42"))
}

func TestDeleteLink_NonSuccess(t *testing.T) {
    client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusNotFound)
    })
    require.False(t, client.DeleteLink(context.Background(), "M1", "LINK42"))
}
