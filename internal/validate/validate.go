package validate

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() { v = validator.New(validator.WithRequiredStructEnabled()) })
	return v
}

// Struct checks the `validate` tags on a value such as domain.Product.
func Struct(s any) error {
	return engine().Struct(s)
}

// ID parses a product id typed at the prompt. Any integer is accepted; ids
// that match no product are reported by the lookup.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Quantity parses a non-negative stock count.
func Quantity(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// WholePrice parses a price in whole currency units and returns minor units.
func WholePrice(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 || n > math.MaxInt64/100 {
		return 0, false
	}
	return n * 100, true
}

// Name trims a product name; empty names are rejected.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 255
}
