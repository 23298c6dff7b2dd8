// Package idgen produces ticket identifiers, printed serials and the cosmetic
// payment-card fields. None of the output is cryptographically meaningful.
package idgen

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewTicketID returns a process-unique opaque ID: a base-36 timestamp prefix
// followed by a random suffix.
func NewTicketID() string {
	prefix := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return prefix + suffix
}

// NewSerial returns a 9-digit numeric serial in [100000000, 999999999].
func NewSerial() string {
	return strconv.Itoa(100000000 + rand.Intn(900000000))
}

// NewSerials returns n independently generated serials, one per passenger.
// Callers guarantee n >= 1.
func NewSerials(n int) []string {
	serials := make([]string, n)
	for i := range serials {
		serials[i] = NewSerial()
	}
	return serials
}

// CardData is the cosmetic bank-card block shown on the payment screen. It is
// regenerated at most once per cache TTL, not on every render.
type CardData struct {
	Balance   string `json:"balance"`
	CardLast4 string `json:"cardLast4"`
	IBANLast4 string `json:"ibanLast4"`
}

// NewCardData generates a random balance in (0, 5000] with two decimals and
// random last-4 digits for the card and IBAN.
func NewCardData() CardData {
	return CardData{
		Balance:   fmt.Sprintf("%.2f", rand.Float64()*5000),
		CardLast4: last4(),
		IBANLast4: last4(),
	}
}

func last4() string {
	return strconv.Itoa(1000 + rand.Intn(9000))
}
