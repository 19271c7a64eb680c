package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

// Reference is the human-facing booking identifier: "SKY" followed by six
// digits. It is unique and immutable once assigned.
type Reference string

const referencePrefix = "SKY"

var referencePattern = regexp.MustCompile(`^SKY\d{6}$`)

// NewReference mints a random reference. The six-digit space makes collisions
// possible; callers must check uniqueness against storage and regenerate.
func NewReference() Reference {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand reading from the OS does not fail in practice
		panic(fmt.Sprintf("reference generation: %v", err))
	}
	return Reference(fmt.Sprintf("%s%06d", referencePrefix, n.Int64()+100000))
}

// ParseReference validates the wire form of a reference.
func ParseReference(s string) (Reference, error) {
	if !referencePattern.MatchString(s) {
		return "", Validationf("invalid booking reference %q", s)
	}
	return Reference(s), nil
}

func (r Reference) String() string { return string(r) }
