package currency

import (
    "strings"

    "github.com/shopspring/decimal"
)

// Currencies whose minor unit is 1/1000 and therefore carry three decimal
// digits on the wire. Everything else uses two.
var threeDecimal = map[string]struct{}{
    "KWD": {},
    "BHD": {},
    "JOD": {},
}

// Exponent returns the number of decimal digits the gateway expects for
// amounts in the given currency.
func Exponent(code string) int {
    if _, ok := threeDecimal[strings.ToUpper(code)]; ok {
        return 3
    }
    return 2
}

// FormatAmount renders amount with the currency's fixed decimal precision.
// Rounding is half away from zero; the result always carries exactly
// Exponent(code) digits.
func FormatAmount(amount decimal.Decimal, code string) string {
    return amount.StringFixed(int32(Exponent(code)))
}
