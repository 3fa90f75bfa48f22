package security

import (
	"strings"
	"testing"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, true)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 || !claims.IsAdmin {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestValidateTokenTampered(t *testing.T) {
	token, err := GenerateToken(42, false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err = ValidateToken(tampered); err == nil {
		t.Fatal("tampered token should fail validation")
	}
}

func TestExtractSignature(t *testing.T) {
	token, err := GenerateToken(1, false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	signature, err := ExtractSignature(token)
	if err != nil {
		t.Fatalf("ExtractSignature: %v", err)
	}
	parts := strings.Split(token, ".")
	if signature != parts[2] {
		t.Fatalf("signature = %q, want %q", signature, parts[2])
	}

	if _, err = ExtractSignature("not-a-jwt"); err == nil {
		t.Fatal("malformed token should fail")
	}
}
