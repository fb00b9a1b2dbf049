// Package credential implements the on-disk PasswordRecord codec: the
// fixed-layout binary header, salt, and digest that make up a
// credential's "password" file, plus the site-wide authtemplate used
// to seed new records with site-preferred defaults.
//
// The byte layout is normative (spec §3.2, §6) and must be preserved
// bit-for-bit: any implementation sharing a store must decode the same
// bytes the same way.
package credential

import (
	"encoding/binary"
	"os"

	"github.com/lc-login/lc-login/pkg/lcerrors"
)

// Algorithm codes, per the on-disk format.
const (
	AlgSHA224     uint8 = 0
	AlgSHA256     uint8 = 1
	AlgSHA384     uint8 = 2
	AlgSHA512     uint8 = 3
	AlgSHA512_224 uint8 = 6
	AlgSHA512_256 uint8 = 7
	// AlgSHA3Bit, OR'd onto one of the bases above, selects the SHA-3
	// analogue of that digest width (codes 8..15 in the spec table).
	AlgSHA3Bit  uint8 = 0x08
	AlgSHA3_224 uint8 = AlgSHA224 | AlgSHA3Bit
	AlgSHA3_256 uint8 = AlgSHA256 | AlgSHA3Bit
	AlgSHA3_384 uint8 = AlgSHA384 | AlgSHA3Bit
	AlgSHA3_512 uint8 = AlgSHA512 | AlgSHA3Bit
	AlgBLAKE2b  uint8 = 16
	AlgDisabled uint8 = 0xFF
)

// Salt-mixing modes, packed into the low 5 bits of SaltAndRepetition.
const (
	SaltXOR      uint8 = 0
	SaltConcat   uint8 = 1
	SaltHMAC     uint8 = 2
	SaltDisabled uint8 = 0x1F
	SaltModeMask uint8 = 0x1F
	RoundsShift  uint8 = 5
	RoundsMask   uint8 = 0xE0
)

// Record schema versions.
const (
	CurrentVersion uint16 = 0
	InvalidVersion uint16 = 0xFFFF
)

// DefaultSaltSize is used when no authtemplate overrides it.
const DefaultSaltSize = 31

// MinRounds is the floor on the hash pipeline's round count regardless
// of a stored round exponent.
const MinRounds = 1024

// HeaderSize is the fixed, packed little-endian size of a Header.
const HeaderSize = 2 + 1 + 1 + 4 + 8

// Header is the fixed-layout prefix of a password file.
type Header struct {
	Version           uint16
	Algorithm         uint8
	SaltAndRepetition uint8
	SaltSize          uint32
	ExpirySeconds     uint64
}

// AlgorithmName returns the metric/log label for an algorithm code,
// falling back to a numeric form for anything it doesn't recognize.
func AlgorithmName(algorithm uint8) string {
	switch algorithm {
	case AlgSHA224:
		return "sha224"
	case AlgSHA256:
		return "sha256"
	case AlgSHA384:
		return "sha384"
	case AlgSHA512:
		return "sha512"
	case AlgSHA512_224:
		return "sha512_224"
	case AlgSHA512_256:
		return "sha512_256"
	case AlgSHA3_224:
		return "sha3_224"
	case AlgSHA3_256:
		return "sha3_256"
	case AlgSHA3_384:
		return "sha3_384"
	case AlgSHA3_512:
		return "sha3_512"
	case AlgBLAKE2b:
		return "blake2b"
	case AlgDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// EncodeSaltAndRepetition packs a salt mode and round exponent into the
// single combined byte the on-disk format stores.
func EncodeSaltAndRepetition(saltMode uint8, roundExponent uint8) uint8 {
	return (saltMode & SaltModeMask) | (roundExponent << RoundsShift)
}

// SaltMode returns the low-5-bit salt-mixing mode.
func (h Header) SaltMode() uint8 { return h.SaltAndRepetition & SaltModeMask }

// RoundExponent returns the high-3-bit round exponent r.
func (h Header) RoundExponent() uint8 { return (h.SaltAndRepetition & RoundsMask) >> RoundsShift }

// Rounds returns 1 << (10 + r), floored at MinRounds.
func (h Header) Rounds() uint32 {
	rounds := uint32(1) << (10 + h.RoundExponent())
	if rounds < MinRounds {
		return MinRounds
	}
	return rounds
}

// Disabled reports whether this header marks authentication as
// disabled: algorithm == AlgDisabled or salt mode == SaltDisabled.
func (h Header) Disabled() bool {
	return h.Algorithm == AlgDisabled || h.SaltMode() == SaltDisabled
}

// Valid reports whether the header's version is usable (not the
// 0xFFFF sentinel).
func (h Header) Valid() bool { return h.Version != InvalidVersion }

// DisabledHeader returns the default-constructed, all-disabled header
// matching the original format's zero-value construction: an invalid
// version and disabled algorithm/salt-mode sentinels.
func DisabledHeader() Header {
	return Header{
		Version:           InvalidVersion,
		Algorithm:         AlgDisabled,
		SaltAndRepetition: SaltDisabled | RoundsMask,
		SaltSize:          0xFFFFFFFF,
		ExpirySeconds:     0,
	}
}

// DefaultHeader returns the built-in default used to seed a new
// credential record when no authtemplate is present: SHA2-512,
// CONCAT salting, round exponent 4 (16384 rounds), 31-byte salt, no
// expiry.
func DefaultHeader() Header {
	return Header{
		Version:           CurrentVersion,
		Algorithm:         AlgSHA512,
		SaltAndRepetition: EncodeSaltAndRepetition(SaltConcat, 4),
		SaltSize:          DefaultSaltSize,
		ExpirySeconds:     0,
	}
}

// Encode packs the header into its fixed HeaderSize-byte form.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint16(buf[0:2], h.Version)
	buf[2] = h.Algorithm
	buf[3] = h.SaltAndRepetition
	binary.LittleEndian.PutUint32(buf[4:8], h.SaltSize)
	binary.LittleEndian.PutUint64(buf[8:16], h.ExpirySeconds)
	return buf
}

// DecodeHeader unpacks a Header from its leading HeaderSize bytes.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, lcerrors.New(lcerrors.InvalidData, "credential.DecodeHeader", "", nil)
	}
	return Header{
		Version:           binary.LittleEndian.Uint16(b[0:2]),
		Algorithm:         b[2],
		SaltAndRepetition: b[3],
		SaltSize:          binary.LittleEndian.Uint32(b[4:8]),
		ExpirySeconds:     binary.LittleEndian.Uint64(b[8:16]),
	}, nil
}

// Record is a fully decoded password file: header, salt, and digest.
type Record struct {
	Header Header
	Salt   []byte
	Digest []byte
}

// Encode packs a Record into its on-disk byte form: header, then salt,
// then digest, with no separators (lengths are implied by the header's
// SaltSize field and by what remains of the file).
func (r Record) Encode() []byte {
	out := make([]byte, 0, HeaderSize+len(r.Salt)+len(r.Digest))
	out = append(out, r.Header.Encode()...)
	out = append(out, r.Salt...)
	out = append(out, r.Digest...)
	return out
}

// DecodeRecord unpacks a Record from raw password-file bytes.
func DecodeRecord(b []byte) (Record, error) {
	header, err := DecodeHeader(b)
	if err != nil {
		return Record{}, err
	}
	rest := b[HeaderSize:]
	saltSize := int(header.SaltSize)
	if saltSize < 0 || saltSize > len(rest) {
		return Record{}, lcerrors.New(lcerrors.InvalidData, "credential.DecodeRecord", "", nil)
	}
	salt := append([]byte(nil), rest[:saltSize]...)
	digest := append([]byte(nil), rest[saltSize:]...)
	return Record{Header: header, Salt: salt, Digest: digest}, nil
}

// Zero overwrites b with zero bytes in place. Callers use it to scrub
// salt, digest, and password buffers before they go out of scope.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// LoadTemplate reads the site-wide authtemplate file at path and
// decodes its header. Only the header fields (algorithm, salting,
// rounds, salt size) are meaningful; any trailing bytes are ignored.
// Returns (Header{}, error) if the file is absent or malformed — the
// caller falls back to DefaultHeader().
func LoadTemplate(path string) (Header, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Header{}, lcerrors.FromPathError("credential.LoadTemplate", path, err)
	}
	return DecodeHeader(b)
}

// ResolveDefaultHeader loads the authtemplate at templatePath if it
// exists and is well-formed, else falls back to DefaultHeader().
func ResolveDefaultHeader(templatePath string) Header {
	if h, err := LoadTemplate(templatePath); err == nil {
		return h
	}
	return DefaultHeader()
}
