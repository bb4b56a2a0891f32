// Package idgen generates user-facing reference codes.
package idgen

import (
	"crypto/rand"
	"math/big"
)

// Alphabet for order references excludes 0, O, 1 and I so the codes survive
// being read over the phone.
const (
	safeAlphabet   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	couponAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	orderNumberPrefix = "ORD-"
	orderNumberLength = 8
	couponCodeLength  = 10
)

// OrderNumber returns a fresh order reference like "ORD-A7X9K2M5".
// Uniqueness is enforced by the database constraint on the column, not here.
func OrderNumber() string {
	return orderNumberPrefix + randomString(safeAlphabet, orderNumberLength)
}

// CouponCode returns a fresh 10-character alphanumeric coupon code.
func CouponCode() string {
	return randomString(couponAlphabet, couponCodeLength)
}

func randomString(alphabet string, length int) string {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken.
			panic(err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf)
}
