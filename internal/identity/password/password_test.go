package password

import "testing"

func TestHashDeterministic(t *testing.T) {
	first := Hash("hunter22", "aabbcc")
	second := Hash("hunter22", "aabbcc")
	if first != second {
		t.Fatalf("expected identical hashes, got %s and %s", first, second)
	}
}

func TestHashDiffersPerSalt(t *testing.T) {
	first := Hash("hunter22", "salt-one")
	second := Hash("hunter22", "salt-two")
	if first == second {
		t.Fatal("expected different hashes for different salts")
	}
}

func TestHashNewVerifyRoundTrip(t *testing.T) {
	hash, salt, err := HashNew("hunter22")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	if len(salt) != saltLen*2 {
		t.Fatalf("expected %d hex chars of salt, got %d", saltLen*2, len(salt))
	}
	if !Verify("hunter22", salt, hash) {
		t.Fatal("expected verification to succeed")
	}
	if Verify("hunter23", salt, hash) {
		t.Fatal("expected wrong password to fail verification")
	}
}
