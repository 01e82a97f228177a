package core

import (
	"math/rand"
	"strings"
	"time"

	"sangobot/utils"

	"github.com/oklog/ulid/v2"
)

// NewID generates a new ULID with the given prefix.
// The format is: prefix_ULID
// Example: core.NewID("ch") returns "ch_01G0EZ1XTM37C5X11SQTDNCTM1"
func NewID(prefix string) string {
	utils.AssertInvariant(prefix != "" && strings.TrimSpace(prefix) != "", "prefix cannot be empty")

	entropy := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // Intentionally using math/rand for ULID entropy
	ms := ulid.Timestamp(time.Now())
	id, err := ulid.New(ms, entropy)
	if err != nil {
		panic(err)
	}

	return strings.ToLower(strings.TrimSpace(prefix)) + "_" + id.String()
}
