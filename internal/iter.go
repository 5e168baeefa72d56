// Package internal holds helpers shared by the intcode packages.
package internal

import (
	"iter"
)

// IterSeq2Concat concatenates key/value sequences, in order.
// Later sequences may repeat keys of earlier ones; collecting the result
// into a map lets the later value win.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			if seq == nil {
				continue
			}
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}
