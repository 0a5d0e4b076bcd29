package security

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatalf("password stored in clear")
	}
	if !CheckPassword("hunter22", hash) {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword("hunter23", hash) {
		t.Fatalf("wrong password accepted")
	}
}

func TestUserToken_RoundTrip(t *testing.T) {
	token, err := IssueUserToken("secret", 7, "counter", "entry", time.Hour)
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}

	claims, err := ParseUserToken("secret", token)
	if err != nil {
		t.Fatalf("ParseUserToken: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "counter" || claims.Role != "entry" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestUserToken_WrongSecret(t *testing.T) {
	token, err := IssueUserToken("secret", 7, "counter", "entry", time.Hour)
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}
	if _, errParse := ParseUserToken("other", token); errParse == nil {
		t.Fatalf("token accepted with wrong secret")
	}
}

func TestUserToken_Expired(t *testing.T) {
	token, err := IssueUserToken("secret", 7, "counter", "entry", -time.Minute)
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}
	if _, errParse := ParseUserToken("secret", token); errParse == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestIssueUserToken_EmptySecret(t *testing.T) {
	if _, err := IssueUserToken("", 7, "counter", "entry", time.Hour); err == nil {
		t.Fatalf("empty secret accepted")
	}
}
