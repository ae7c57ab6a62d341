// Package id generates short random identifiers, used to tag command runs
// in the logs.
package id

import (
	crand "crypto/rand"
	"errors"
	"sync"

	"github.com/benz9527/moarchive/lib/infra"
)

const nanoIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

var ErrInvalidLength = errors.New("[nano-id] length must be in [2, 255]")

type NanoIDGen func() string

// NanoID returns a generator of length character ids over a 64 symbol
// alphabet. Random bytes are read in batches of length*8 ids.
func NanoID(length int) (NanoIDGen, error) {
	if length < 2 || length > 255 {
		return nil, infra.WrapErrorStack(ErrInvalidLength)
	}

	batch := make([]byte, length*8*length)
	if _, err := crand.Read(batch); err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[nano-id] read random bytes")
	}
	offset := 0
	const mask = byte(len(nanoIDAlphabet) - 1)

	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()

		if offset+length > len(batch) {
			if _, err := crand.Read(batch); /* impossible */ err != nil {
				panic(infra.WrapErrorStackWithMessage(err, "[nano-id] read random bytes"))
			}
			offset = 0
		}
		id := make([]byte, length)
		for i := range id {
			id[i] = nanoIDAlphabet[batch[offset+i]&mask]
		}
		offset += length
		return string(id)
	}, nil
}
