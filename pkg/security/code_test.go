package security

import (
	"strings"
	"testing"
)

func TestHashAndVerifyCode(t *testing.T) {
	code, err := GenerateCode(10)
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	if len(code) != 10 {
		t.Fatalf("expected 10 characters, got %q", code)
	}

	encoded, err := HashCode(code)
	if err != nil {
		t.Fatalf("hash code: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected hash format %q", encoded)
	}

	ok, err := VerifyCode(code, encoded)
	if err != nil {
		t.Fatalf("verify code: %v", err)
	}
	if !ok {
		t.Fatal("expected matching code to verify")
	}

	ok, err = VerifyCode(code+"X", encoded)
	if err != nil {
		t.Fatalf("verify wrong code: %v", err)
	}
	if ok {
		t.Fatal("expected non-matching code to fail")
	}
}

func TestHashCodeRejectsEmpty(t *testing.T) {
	if _, err := HashCode(""); err == nil {
		t.Fatal("expected error for empty code")
	}
}

func TestVerifyCodeRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyCode("abc", "not-a-hash"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}

func TestGeneratedCodesDiffer(t *testing.T) {
	a, err := GenerateCode(12)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := GenerateCode(12)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a == b {
		t.Fatal("two generated codes should not collide")
	}
}
