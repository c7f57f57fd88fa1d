package token

import (
	"strings"
	"testing"
	"time"
)

func testCodec(t *testing.T, secret string) *Codec {
	t.Helper()
	c, err := NewCodec(Config{Secret: secret})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return c
}

func TestMintVerifyRoundTrip(t *testing.T) {
	c := testCodec(t, "secret")

	in := Claims{Username: "mario", Email: "mario.red@email.com", Role: "Regular", UserID: "u-1"}
	signed, err := c.Mint(in, time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if signed == "" {
		t.Fatalf("expected non-empty token")
	}

	out, err := c.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out.Username != in.Username || out.Email != in.Email || out.Role != in.Role || out.UserID != in.UserID {
		t.Fatalf("unexpected claims: %+v", out)
	}
}

func TestVerifyRejectsEmptySecretConfig(t *testing.T) {
	if _, err := NewCodec(Config{}); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}

func TestZeroLifetimeIsExpiredAtMintTime(t *testing.T) {
	c := testCodec(t, "secret")

	signed, err := c.Mint(Claims{Username: "u", Email: "e@x.com", Role: "Regular"}, 0)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	_, err = c.Verify(signed)
	if err == nil {
		t.Fatalf("expected expiry error")
	}
	if !IsExpired(err) {
		t.Fatalf("expected expired kind, got %q: %v", Kind(err), err)
	}
	if Kind(err) != KindExpired {
		t.Fatalf("kind = %q, want %q", Kind(err), KindExpired)
	}
}

func TestNegativeLifetimeIsExpired(t *testing.T) {
	c := testCodec(t, "secret")

	signed, err := c.Mint(Claims{Username: "u", Email: "e@x.com", Role: "Regular"}, -time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := c.Verify(signed); !IsExpired(err) {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestWrongSecretIsSignatureInvalid(t *testing.T) {
	c := testCodec(t, "secret")
	other := testCodec(t, "another-secret")

	signed, err := c.Mint(Claims{Username: "u", Email: "e@x.com", Role: "Regular"}, time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	_, err = other.Verify(signed)
	if err == nil {
		t.Fatalf("expected verification failure")
	}
	if IsExpired(err) {
		t.Fatalf("wrong secret must not classify as expiry")
	}
	if Kind(err) != KindSignatureInvalid {
		t.Fatalf("kind = %q, want %q", Kind(err), KindSignatureInvalid)
	}
}

func TestTamperedTokenIsNotRecoverable(t *testing.T) {
	c := testCodec(t, "secret")

	signed, err := c.Mint(Claims{Username: "u", Email: "e@x.com", Role: "Regular"}, time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	tampered := signed[:len(signed)-2] + "xx"
	if _, err := c.Verify(tampered); err == nil || IsExpired(err) {
		t.Fatalf("expected non-expiry failure, got %v", err)
	}
}

func TestGarbageTokenIsMalformed(t *testing.T) {
	c := testCodec(t, "secret")

	_, err := c.Verify("not-a-jwt")
	if err == nil {
		t.Fatalf("expected failure")
	}
	if Kind(err) != KindMalformed {
		t.Fatalf("kind = %q, want %q", Kind(err), KindMalformed)
	}
}

func TestClaimsHelpers(t *testing.T) {
	full := &Claims{Username: "u", Email: "e@x.com", Role: "Regular"}
	if !full.Complete() {
		t.Fatalf("expected complete claims")
	}

	for _, c := range []Claims{
		{Email: "e@x.com", Role: "Regular"},
		{Username: "u", Role: "Regular"},
		{Username: "u", Email: "e@x.com"},
	} {
		if c.Complete() {
			t.Fatalf("expected incomplete claims: %+v", c)
		}
	}

	same := &Claims{Username: "u", Email: "e@x.com", Role: "Regular", UserID: "other-id"}
	if !full.SameIdentity(same) {
		t.Fatalf("id must not participate in identity comparison")
	}
	if full.SameIdentity(&Claims{Username: "u", Email: "e@x.com", Role: "Admin"}) {
		t.Fatalf("role mismatch must fail identity comparison")
	}
}

func TestDefaultTTLs(t *testing.T) {
	c := testCodec(t, "secret")
	if c.AccessTTL() != time.Hour {
		t.Fatalf("access ttl = %v", c.AccessTTL())
	}
	if c.RefreshTTL() != 7*24*time.Hour {
		t.Fatalf("refresh ttl = %v", c.RefreshTTL())
	}
}

func TestMintedTokenHasThreeSegments(t *testing.T) {
	c := testCodec(t, "secret")
	signed, _ := c.Mint(Claims{Username: "u", Email: "e@x.com", Role: "Regular"}, time.Hour)
	if got := len(strings.Split(signed, ".")); got != 3 {
		t.Fatalf("segments = %d", got)
	}
}
