package paystack

import (
	"fmt"
	"math/rand/v2"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	ReferencePrefix  = "READAFRIK"
	referenceDigits  = "0123456789"
	referenceRandLen = 6
)

// GenerateReference returns READAFRIK-<unix millis>-<random digits>. It is
// unique enough for checkout volumes but not guaranteed unique; the orders
// table enforces uniqueness.
func GenerateReference() string {
	suffix, err := gonanoid.Generate(referenceDigits, referenceRandLen)
	if err != nil {
		suffix = fmt.Sprintf("%06d", rand.IntN(1000000))
	}
	return fmt.Sprintf("%s-%d-%s", ReferencePrefix, time.Now().UnixMilli(), suffix)
}
