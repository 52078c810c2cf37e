// AngelaMos | 2026
// security_test.go

package core

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Secur3Pass!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost: %v", err)
	}
	if cost != BcryptCost {
		t.Errorf("cost = %d, want %d", cost, BcryptCost)
	}

	ok, err := VerifyPassword("Secur3Pass!", hash)
	if err != nil || !ok {
		t.Fatalf("VerifyPassword(correct) = %v, %v", ok, err)
	}

	ok, err = VerifyPassword("wrong", hash)
	if err != nil || ok {
		t.Fatalf("VerifyPassword(wrong) = %v, %v", ok, err)
	}
}

func TestHashPasswordTooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("err = %v, want ErrPasswordTooLong", err)
	}
}

func TestVerifyPasswordWithRehashUpgradesCost(t *testing.T) {
	old, err := bcrypt.GenerateFromPassword([]byte("Secur3Pass!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}

	ok, newHash, err := VerifyPasswordWithRehash("Secur3Pass!", string(old))
	if err != nil || !ok {
		t.Fatalf("VerifyPasswordWithRehash = %v, %v", ok, err)
	}
	if newHash == "" {
		t.Fatal("expected a rehash for a non-default cost")
	}

	_, again, err := VerifyPasswordWithRehash("Secur3Pass!", newHash)
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if again != "" {
		t.Error("hash at the default cost should not be rehashed")
	}
}

func TestVerifyPasswordTimingSafeMissingAccount(t *testing.T) {
	ok, newHash, err := VerifyPasswordTimingSafe("dummy_password_for_timing_attack_prevention", nil)
	if ok || newHash != "" || err != nil {
		t.Fatalf("missing account must never verify: %v %q %v", ok, newHash, err)
	}

	empty := ""
	ok, _, _ = VerifyPasswordTimingSafe("anything", &empty)
	if ok {
		t.Fatal("empty hash must never verify")
	}
}
