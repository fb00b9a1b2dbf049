// Package hash implements the deterministic, keyed-iterated digest
// pipeline used to turn a plaintext password plus salt into the digest
// stored in a PasswordRecord. It supports the SHA-2 family from the
// standard library plus SHA-3 and BLAKE2b from golang.org/x/crypto for
// sites that opt into them via the authtemplate.
package hash

import (
	gosha256 "crypto/sha256"
	gosha512 "crypto/sha512"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/lc-login/lc-login/pkg/credential"
	"github.com/lc-login/lc-login/pkg/lcerrors"
)

// newHasher resolves an on-disk algorithm code to a hash.Hash
// constructor. Codes 8..15 are the SHA-3 analogues of codes 0..7,
// selected by OR'ing in credential.AlgSHA3Bit; BLAKE2b has its own
// standalone code since it has no SHA-2 counterpart.
func newHasher(algorithm uint8) (func() hash.Hash, error) {
	if algorithm == credential.AlgBLAKE2b {
		return func() hash.Hash {
			h, err := blake2b.New512(nil)
			if err != nil {
				panic(err) // New512 with a nil key never errors
			}
			return h
		}, nil
	}

	isSHA3 := algorithm&credential.AlgSHA3Bit != 0
	base := algorithm &^ credential.AlgSHA3Bit

	switch base {
	case credential.AlgSHA224:
		if isSHA3 {
			return sha3.New224, nil
		}
		return gosha256.New224, nil
	case credential.AlgSHA256:
		if isSHA3 {
			return sha3.New256, nil
		}
		return gosha256.New, nil
	case credential.AlgSHA384:
		if isSHA3 {
			return sha3.New384, nil
		}
		return gosha512.New384, nil
	case credential.AlgSHA512:
		if isSHA3 {
			return sha3.New512, nil
		}
		return gosha512.New, nil
	case credential.AlgSHA512_224:
		if isSHA3 {
			return nil, lcerrors.InvalidDataf("hash.newHasher", "no SHA-3 truncation analogous to SHA-512/224")
		}
		return gosha512.New512_224, nil
	case credential.AlgSHA512_256:
		if isSHA3 {
			return nil, lcerrors.InvalidDataf("hash.newHasher", "no SHA-3 truncation analogous to SHA-512/256")
		}
		return gosha512.New512_256, nil
	default:
		return nil, lcerrors.InvalidDataf("hash.newHasher", "unsupported algorithm code %d", algorithm)
	}
}

// round computes one iteration of the pipeline: build B from input and
// salt per mode, then digest B — except HMAC mode, which replaces both
// the mix and the digest with a single keyed HMAC and skips the
// separate digest step entirely, per spec §4.3 step 3(a)/(b).
func round(mode uint8, newHash func() hash.Hash, input, salt []byte) ([]byte, error) {
	switch mode {
	case credential.SaltXOR:
		if len(salt) == 0 {
			return nil, lcerrors.InvalidDataf("hash.round", "XOR salt mode requires a non-empty salt")
		}
		b := make([]byte, len(input))
		copy(b, input)
		for i := range b {
			b[i] ^= salt[i%len(salt)]
		}
		defer credential.Zero(b)
		h := newHash()
		h.Write(b)
		return h.Sum(nil), nil
	case credential.SaltConcat:
		b := make([]byte, 0, len(input)+len(salt))
		b = append(b, input...)
		b = append(b, salt...)
		defer credential.Zero(b)
		h := newHash()
		h.Write(b)
		return h.Sum(nil), nil
	case credential.SaltHMAC:
		return hmacMix(newHash, input, salt), nil
	default:
		return nil, lcerrors.InvalidDataf("hash.round", "unsupported salt mode %d", mode)
	}
}

// Digest runs the full keyed-iterated pipeline described by header
// over password and salt, returning the final digest. Each round
// re-mixes the previous round's output with the salt and rehashes;
// the number of rounds is header.Rounds().
func Digest(header credential.Header, password, salt []byte) ([]byte, error) {
	if header.Disabled() {
		return nil, lcerrors.AuthDisabledErr("hash.Digest")
	}
	newHash, err := newHasher(header.Algorithm)
	if err != nil {
		return nil, err
	}

	mode := header.SaltMode()
	rounds := header.Rounds()
	input := password
	var output []byte
	for i := uint32(0); i < rounds; i++ {
		out, err := round(mode, newHash, input, salt)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			credential.Zero(input)
		}
		output = out
		input = output
	}
	return output, nil
}
