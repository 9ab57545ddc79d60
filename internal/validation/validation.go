// Package validation checks model fields against their `validate` tags.
//
// On top of the stock go-playground rules it registers the Brazilian
// formats used by the front-end forms: cpf, cep, uf and phone.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	validate *validator.Validate

	cepPattern = regexp.MustCompile(`^\d{5}-\d{3}$`)
	ufPattern  = regexp.MustCompile(`^[A-Z]{2}$`)
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Report JSON names so messages match what the client sent.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		mustRegister(v, "cpf", func(fl validator.FieldLevel) bool { return ValidCPF(fl.Field().String()) })
		mustRegister(v, "cep", func(fl validator.FieldLevel) bool { return cepPattern.MatchString(fl.Field().String()) })
		mustRegister(v, "uf", func(fl validator.FieldLevel) bool { return ufPattern.MatchString(fl.Field().String()) })
		mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
			n := len(Digits(fl.Field().String()))
			return n == 10 || n == 11
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// FieldError describes one field that failed a rule.
type FieldError struct {
	Field string `json:"campo"`
	Rule  string `json:"regra"`
	Param string `json:"parametro,omitempty"`
}

func (e FieldError) String() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s=%s", e.Field, e.Rule, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Rule)
}

// Struct validates s and returns the failing fields, or nil.
func Struct(s any) ([]FieldError, error) {
	err := instance().Struct(s)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return out, nil
}

// Digits strips everything but 0-9 from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF checks the length and both check digits of a CPF. Punctuation
// is ignored.
func ValidCPF(cpf string) bool {
	d := Digits(cpf)
	if len(d) != 11 || strings.Count(d, d[:1]) == 11 {
		return false
	}
	return checkDigit(d[:9], 10) == int(d[9]-'0') && checkDigit(d[:10], 11) == int(d[10]-'0')
}

func checkDigit(prefix string, weight int) int {
	sum := 0
	for i, r := range prefix {
		sum += int(r-'0') * (weight - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

// NormalizeCEP turns 8 bare digits into 99999-999. Other input is
// returned unchanged so the cep rule can reject it.
func NormalizeCEP(cep string) string {
	d := Digits(cep)
	if len(d) == 8 && len(strings.TrimSpace(cep)) <= 9 {
		return d[:5] + "-" + d[5:]
	}
	return strings.TrimSpace(cep)
}

// NormalizeUF upper-cases a state code and drops non-letters.
func NormalizeUF(uf string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(uf) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
