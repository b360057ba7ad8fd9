package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestTokenValid_FutureExpiration(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	if !TokenValid(token) {
		t.Fatalf("token expiring in an hour reported invalid")
	}
}

func TestTokenValid_Expired(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
	if TokenValid(token) {
		t.Fatalf("token expired an hour ago reported valid")
	}
}

func TestTokenValid_Malformed(t *testing.T) {
	for _, token := range []string{"", "not-a-token", "a.b", "a.!!!.c"} {
		if TokenValid(token) {
			t.Fatalf("malformed token %q reported valid", token)
		}
	}
}

func TestTokenValid_MissingExp(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"username": "alice"})
	if TokenValid(token) {
		t.Fatalf("token without exp reported valid")
	}
}

func TestTokenValidAt_Monotonic(t *testing.T) {
	exp := time.Unix(1_900_000_000, 0)
	token := signedToken(t, jwt.MapClaims{"exp": exp.Unix()})

	before := []time.Time{exp.Add(-time.Hour), exp.Add(-time.Second)}
	for _, now := range before {
		if !tokenValidAt(token, now) {
			t.Fatalf("token invalid at %v, before expiration %v", now, exp)
		}
	}

	atOrAfter := []time.Time{exp, exp.Add(time.Second), exp.Add(time.Hour)}
	for _, now := range atOrAfter {
		if tokenValidAt(token, now) {
			t.Fatalf("token valid at %v, at/after expiration %v", now, exp)
		}
	}
}
