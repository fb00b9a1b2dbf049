package hash

import (
	"crypto/hmac"
	"hash"
)

// hmacMix uses the salt as an HMAC key over the round input (the
// password bytes on the first round, the previous round's output
// after that), giving a cryptographically keyed mix rather than a
// plain concatenation or XOR.
func hmacMix(newHash func() hash.Hash, password, salt []byte) []byte {
	mac := hmac.New(newHash, salt)
	mac.Write(password)
	return mac.Sum(nil)
}
