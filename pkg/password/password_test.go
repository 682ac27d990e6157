package password_test

import (
	"testing"

	"todo-service/pkg/password"
)

func TestHashAndVerify(t *testing.T) {
	h, err := password.Hash("testpassword")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h == "testpassword" {
		t.Fatal("hash equals plaintext")
	}
	if !password.Verify(h, "testpassword") {
		t.Fatal("verify rejected the original password")
	}
	if password.Verify(h, "wrongpassword") {
		t.Fatal("verify accepted a wrong password")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, _ := password.Hash("testpassword")
	b, _ := password.Hash("testpassword")
	if a == b {
		t.Fatal("two hashes of the same password should differ")
	}
}
