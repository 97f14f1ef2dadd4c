package ledger

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

const maxIDAttempts = 50

var ErrIDSpaceExhausted = errors.New("could not generate a unique transaction id")

// NewTransactionID builds TXN<YYYYMMDD><4 digits> and draws a new suffix
// while exists reports a collision.
func NewTransactionID(now time.Time, exists func(id string) (bool, error)) (string, error) {
	prefix := "TXN" + now.Format("20060102")
	for i := 0; i < maxIDAttempts; i++ {
		id := fmt.Sprintf("%s%d", prefix, 1000+rand.IntN(9000))
		taken, err := exists(id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}
