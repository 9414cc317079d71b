package webhooks

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"testing"
)

func TestVerifyPaystackSignature(t *testing.T) {
	secret := "sk_test_abc"
	payload := []byte(`{"event":"charge.success","data":{"reference":"wsk-ps-abc"}}`)

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	signature := hex.EncodeToString(mac.Sum(nil))

	if !VerifyPaystackSignature(secret, payload, signature) {
		t.Fatal("valid signature rejected")
	}
	if VerifyPaystackSignature(secret, payload, signature[:len(signature)-2]+"ff") {
		t.Fatal("tampered signature accepted")
	}
	if VerifyPaystackSignature(secret, []byte(`{"event":"charge.success"}`), signature) {
		t.Fatal("tampered payload accepted")
	}
	if VerifyPaystackSignature("", payload, signature) {
		t.Fatal("empty secret accepted")
	}
	if VerifyPaystackSignature(secret, payload, "") {
		t.Fatal("missing signature accepted")
	}
}

func TestVerifyFlutterwaveHash(t *testing.T) {
	if !VerifyFlutterwaveHash("hash-123", "hash-123") {
		t.Fatal("matching hash rejected")
	}
	if VerifyFlutterwaveHash("hash-123", "hash-456") {
		t.Fatal("mismatched hash accepted")
	}
	if VerifyFlutterwaveHash("", "") {
		t.Fatal("unconfigured hash accepted")
	}
}
