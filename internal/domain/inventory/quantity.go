package inventory

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxQuantityDecimals decimales admitidos en una cantidad.
const MaxQuantityDecimals = 3

var (
	errQuantityEmpty     = errors.New("cantidad vacía")
	errQuantityNotNumber = errors.New("cantidad no numérica")
	errQuantityNotPos    = errors.New("cantidad no positiva")
	errQuantityPrecision = errors.New("cantidad con demasiados decimales")
)

var quantityRe = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// ParseQuantity interpreta la cantidad escrita por el usuario. Acepta coma o punto como separador
// decimal. Cuando el texto es numérico devuelve el número aunque haya error (no positivo o
// demasiados decimales) para que el llamador no tenga que volver a parsear. Los decimales se
// cuentan sobre el texto, así que los ceros a la derecha también cuentan.
func ParseQuantity(raw string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, errQuantityEmpty
	}
	s = strings.ReplaceAll(s, ",", ".")
	if !quantityRe.MatchString(s) {
		return nil, errQuantityNotNumber
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errQuantityNotNumber
	}
	if !d.IsPositive() {
		return &d, errQuantityNotPos
	}
	if fractionDigits(s) > MaxQuantityDecimals {
		return &d, errQuantityPrecision
	}
	return &d, nil
}

// fractionDigits cuenta los decimales tal como se escribieron: "1.2340" tiene 4.
func fractionDigits(s string) int {
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}

// CanonicalQuantity redondea a MaxQuantityDecimals.
func CanonicalQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(MaxQuantityDecimals)
}

// ParseStockValue interpreta el stock devuelto por la API: número JSON o texto con formato local
// ("1.234,5", "12,5", "12.5"). Devuelve nil si no es interpretable.
func ParseStockValue(raw json.RawMessage) *decimal.Decimal {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return ParseLocaleNumber(s)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil
	}
	return &d
}

// ParseLocaleNumber acepta separador decimal coma o punto; si aparecen ambos, el último es el decimal
// y el otro se trata como separador de miles.
func ParseLocaleNumber(s string) *decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return nil
	}
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}
	if !quantityRe.MatchString(s) {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
