package dag

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"

	"calcflow/internal/task"
)

// computeTaskDefHash hashes only the declarative definition fields of a
// stage: op, operand and needs.
//
// Determinism rules:
//   - Needs are treated as a set for identity and thus sorted.
//   - All fields are length-prefixed to avoid ambiguity.
func computeTaskDefHash(op task.Op, operand int64, needs []string) TaskDefHash {
	h := sha256.New()

	writeField := func(data []byte) {
		length := uint64(len(data))
		lengthBytes := []byte{
			byte(length >> 56),
			byte(length >> 48),
			byte(length >> 40),
			byte(length >> 32),
			byte(length >> 24),
			byte(length >> 16),
			byte(length >> 8),
			byte(length),
		}
		h.Write(lengthBytes)
		h.Write(data)
	}

	writeField([]byte(op))
	writeField([]byte(strconv.FormatInt(operand, 10)))

	sortedNeeds := make([]string, len(needs))
	copy(sortedNeeds, needs)
	sort.Strings(sortedNeeds)
	writeField([]byte{byte(len(sortedNeeds))})
	for _, n := range sortedNeeds {
		writeField([]byte(n))
	}

	sum := h.Sum(nil)
	return TaskDefHash(hex.EncodeToString(sum))
}
