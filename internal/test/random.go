package test

import (
	"math/rand"
	"sync"
	"time"
)

const orderIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomOrderID returns an order identifier of length n drawn from the
// characters the exchange issues.
func RandomOrderID(n int) string {
	if n <= 0 {
		n = 1
	}
	buf := make([]byte, n)
	rngMu.Lock()
	defer rngMu.Unlock()
	for i := range buf {
		buf[i] = orderIDAlphabet[rng.Intn(len(orderIDAlphabet))]
	}
	return string(buf)
}
