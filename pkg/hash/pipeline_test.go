package hash

import (
	"bytes"
	gosha256 "crypto/sha256"
	"testing"

	"github.com/lc-login/lc-login/pkg/credential"
)

func header(alg, mode, exp uint8, saltSize uint32) credential.Header {
	return credential.Header{
		Version:           credential.CurrentVersion,
		Algorithm:         alg,
		SaltAndRepetition: credential.EncodeSaltAndRepetition(mode, exp),
		SaltSize:          saltSize,
	}
}

func TestDigestIsDeterministic(t *testing.T) {
	h := header(credential.AlgSHA256, credential.SaltConcat, 0, 8)
	salt := []byte("abcdefgh")
	d1, err := Digest(h, []byte("hunter2"), salt)
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}
	d2, err := Digest(h, []byte("hunter2"), salt)
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}
	if !bytes.Equal(d1, d2) {
		t.Error("Digest() is not deterministic for identical inputs")
	}
}

func TestDigestDiffersBySalt(t *testing.T) {
	h := header(credential.AlgSHA256, credential.SaltConcat, 0, 8)
	d1, _ := Digest(h, []byte("hunter2"), []byte("saltsalt"))
	d2, _ := Digest(h, []byte("hunter2"), []byte("differen"))
	if bytes.Equal(d1, d2) {
		t.Error("Digest() should differ when salt differs")
	}
}

func TestDigestDiffersByPassword(t *testing.T) {
	h := header(credential.AlgSHA256, credential.SaltConcat, 0, 8)
	salt := []byte("saltsalt")
	d1, _ := Digest(h, []byte("hunter2"), salt)
	d2, _ := Digest(h, []byte("hunter3"), salt)
	if bytes.Equal(d1, d2) {
		t.Error("Digest() should differ when password differs")
	}
}

func TestDigestWidthsPerAlgorithm(t *testing.T) {
	tests := []struct {
		name string
		alg  uint8
		want int
	}{
		{"sha224", credential.AlgSHA224, 28},
		{"sha256", credential.AlgSHA256, 32},
		{"sha384", credential.AlgSHA384, 48},
		{"sha512", credential.AlgSHA512, 64},
		{"sha512/224", credential.AlgSHA512_224, 28},
		{"sha512/256", credential.AlgSHA512_256, 32},
		{"sha3-224", credential.AlgSHA3_224, 28},
		{"sha3-256", credential.AlgSHA3_256, 32},
		{"sha3-384", credential.AlgSHA3_384, 48},
		{"sha3-512", credential.AlgSHA3_512, 64},
		{"blake2b", credential.AlgBLAKE2b, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := header(tt.alg, credential.SaltConcat, 0, 8)
			d, err := Digest(h, []byte("hunter2"), []byte("saltsalt"))
			if err != nil {
				t.Fatalf("Digest() error = %v", err)
			}
			if len(d) != tt.want {
				t.Errorf("len(Digest()) = %d, want %d", len(d), tt.want)
			}
		})
	}
}

func TestDigestRejectsDisabledHeader(t *testing.T) {
	h := credential.DisabledHeader()
	if _, err := Digest(h, []byte("x"), []byte("y")); err == nil {
		t.Fatal("expected error digesting against a disabled header")
	}
}

func TestDigestAllSaltModes(t *testing.T) {
	for _, mode := range []uint8{credential.SaltXOR, credential.SaltConcat, credential.SaltHMAC} {
		h := header(credential.AlgSHA256, mode, 0, 8)
		if _, err := Digest(h, []byte("hunter2"), []byte("saltsalt")); err != nil {
			t.Errorf("Digest() with salt mode %d error = %v", mode, err)
		}
	}
}

func TestXORRoundWrapsSaltAcrossFullInput(t *testing.T) {
	// Per spec §4.3, B keeps len(input) and every byte is mixed with
	// salt[i mod len(salt)] — so a salt longer than the input must have
	// no effect beyond its first len(input) bytes, since indices past
	// that are never addressed. Exercised directly against round(),
	// since Digest()'s MinRounds=1024 floor makes every round after the
	// first operate on a full digest-width buffer regardless of the
	// original salt length, masking this property at the Digest() level.
	input := []byte("abcd")
	saltFull := []byte("xyz12345")
	saltTrunc := saltFull[:len(input)]

	outFull, err := round(credential.SaltXOR, gosha256.New, input, saltFull)
	if err != nil {
		t.Fatalf("round() error = %v", err)
	}
	outTrunc, err := round(credential.SaltXOR, gosha256.New, input, saltTrunc)
	if err != nil {
		t.Fatalf("round() error = %v", err)
	}
	if !bytes.Equal(outFull, outTrunc) {
		t.Error("round() with XOR mode depended on salt bytes beyond len(input), contradicting the modulo-indexed mix")
	}
}

func TestXORRoundWrapsSaltCyclicallyWhenShorter(t *testing.T) {
	// A salt shorter than the input must still affect every byte of the
	// input, not just its leading len(salt) bytes.
	salt := []byte("ab")
	out1, err := round(credential.SaltXOR, gosha256.New, []byte("AAAAAAAA"), salt)
	if err != nil {
		t.Fatalf("round() error = %v", err)
	}
	out2, err := round(credential.SaltXOR, gosha256.New, []byte("AAAAAAAB"), salt)
	if err != nil {
		t.Fatalf("round() error = %v", err)
	}
	if bytes.Equal(out1, out2) {
		t.Fatal("round() with XOR mode should be sensitive to a tail byte past the salt length")
	}
}

func TestDigestHMACModeSkipsSeparateDigestStep(t *testing.T) {
	// Per spec §4.3, HMAC mode replaces B with HMAC-<alg>(salt, input)
	// and skips hashing B again each round; reproduce the iteration by
	// hand (MinRounds = 1024 at round exponent 0) and confirm Digest()
	// matches a chain of raw HMACs rather than Digest(HMAC(...)).
	h := header(credential.AlgSHA256, credential.SaltHMAC, 0, 8)
	salt := []byte("saltsalt")
	password := []byte("hunter2")
	got, err := Digest(h, password, salt)
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}
	want := password
	for i := uint32(0); i < h.Rounds(); i++ {
		want = hmacMix(gosha256.New, want, salt)
	}
	if !bytes.Equal(got, want) {
		t.Error("Digest() with HMAC mode did not match an iterated chain of raw HMAC computations")
	}
}

func TestDigestRoundCountAffectsOutput(t *testing.T) {
	salt := []byte("saltsalt")
	h0 := header(credential.AlgSHA256, credential.SaltConcat, 0, 8)
	h1 := header(credential.AlgSHA256, credential.SaltConcat, 1, 8)
	d0, _ := Digest(h0, []byte("hunter2"), salt)
	d1, _ := Digest(h1, []byte("hunter2"), salt)
	if bytes.Equal(d0, d1) {
		t.Error("Digest() should differ across round exponents")
	}
}
