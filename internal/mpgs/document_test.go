package mpgs

import (
    "encoding/json"
    "testing"

    "github.com/stretchr/testify/require"
)

func TestEffectiveFields_NestedOrderWins(t *testing.T) {
    doc := mustParse(t, `{
        "status": "ROOT",
        "amount": "1.00",
        "currency": "USD",
        "order": {"status": "CAPTURED", "amount": 10.5, "currency": "KWD"}
    }`)

    require.Equal(t, "CAPTURED", doc.EffectiveStatus())
    require.Equal(t, "KWD", doc.EffectiveCurrency())

    amount, ok := doc.EffectiveAmount()
    require.True(t, ok)
    require.Equal(t, "10.5", amount.String())
}

func TestEffectiveFields_RootFallback(t *testing.T) {
    doc := mustParse(t, `{"status": "AUTHENTICATED", "amount": "2.500", "currency": "KWD"}`)

    require.Equal(t, "AUTHENTICATED", doc.EffectiveStatus())
    require.Equal(t, "KWD", doc.EffectiveCurrency())

    amount, ok := doc.EffectiveAmount()
    require.True(t, ok)
    require.Equal(t, "2.5", amount.String())
}

func TestEffectiveAmount_NumberAndStringAgree(t *testing.T) {
    asNumber := mustParse(t, `{"order": {"amount": 10.000}}`)
    asString := mustParse(t, `{"order": {"amount": "10.000"}}`)

    a, ok := asNumber.EffectiveAmount()
    require.True(t, ok)
    b, ok := asString.EffectiveAmount()
    require.True(t, ok)
    require.True(t, a.Equal(b), "number and string encodings must parse to the same decimal")
}

func TestEffectiveAmount_Absent(t *testing.T) {
    doc := mustParse(t, `{"order": {"status": "CAPTURED"}}`)
    _, ok := doc.EffectiveAmount()
    require.False(t, ok)
}

func TestAuthTransactionID_FirstQualifyingEntryWins(t *testing.T) {
    doc := mustParse(t, `{
        "transaction": [
            {"result": "FAILURE", "authentication": {"3ds": {"transactionId": "skip-failed"}}},
            {"result": "SUCCESS"},
            {"result": "SUCCESS", "authentication": {"3ds": {"transactionId": ""}}},
            {"result": "SUCCESS", "authentication": {"3ds": {"transactionId": "abc123"}}},
            {"result": "SUCCESS", "authentication": {"3ds": {"transactionId": "later"}}}
        ]
    }`)

    id, ok := doc.AuthTransactionID()
    require.True(t, ok)
    require.Equal(t, "abc123", id)
}

func TestAuthTransactionID_NotFound(t *testing.T) {
    for name, body := range map[string]string{
        "no transaction list": `{"order": {"status": "AUTHENTICATED"}}`,
        "no qualifying entry": `{"transaction": [{"result": "FAILURE"}, {"result": "SUCCESS"}]}`,
    } {
        t.Run(name, func(t *testing.T) {
            _, ok := mustParse(t, body).AuthTransactionID()
            require.False(t, ok)
        })
    }
}

func TestApproved(t *testing.T) {
    approved, code := mustParse(t, `{"result": "SUCCESS", "response": {"gatewayCode": "APPROVED"}}`).Approved()
    require.True(t, approved)
    require.Equal(t, "APPROVED", code)

    approved, code = mustParse(t, `{"result": "SUCCESS", "response": {"gatewayCode": "DECLINED"}}`).Approved()
    require.False(t, approved)
    require.Equal(t, "DECLINED", code)

    approved, _ = mustParse(t, `{"result": "FAILURE", "response": {"gatewayCode": "APPROVED"}}`).Approved()
    require.False(t, approved)

    approved, code = mustParse(t, `{"result": "SUCCESS"}`).Approved()
    require.False(t, approved)
    require.Equal(t, "", code)
}

func mustParse(t *testing.T, body string) *Document {
    t.Helper()
    doc := &Document{}
    require.NoError(t, json.Unmarshal([]byte(body), doc))
    return doc
}
