// Package token mints and parses proof-of-purchase tokens. A token is an HS256
// JWT over the booking's identity fields only; price and ticket count are
// deliberately absent and are always read from the booking record at
// verification time. No time-based claims are included, so reissuing for the
// same booking always yields the same token.
package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/domain"
)

// Claims binds a token to exactly one booking.
type Claims struct {
	BookingID string `json:"booking_id"`
	EventID   string `json:"event_id"`
	HolderID  string `json:"holder_id"`
	Reference string `json:"reference"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
}

func NewIssuer(secret []byte) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: signing secret required")
	}
	return &Issuer{secret: secret}, nil
}

// Issue derives the proof token for a booking. The same booking always
// produces the same token; distinct bookings never collide because the claims
// carry the booking id and its unique reference.
func (i *Issuer) Issue(b domain.Booking) (string, error) {
	claims := &Claims{
		BookingID: b.ID,
		EventID:   b.EventID,
		HolderID:  b.HolderID,
		Reference: b.Reference,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign proof token: %w", err)
	}
	return signed, nil
}

// Parse validates the signature and returns the embedded claims. The caller
// still has to load the booking and check its status; a well-signed token for
// a cancelled or consumed booking is not valid for entry.
func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if claims.BookingID == "" {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
