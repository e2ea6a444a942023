package rr

import (
	"encoding/base32"
	"strings"
)

// hexEncoding is RFC 4648 §7 "base32hex" (extended hex alphabet), unpadded —
// the encoding NSEC3 owner names and dns.HashName both use.
// nolint:gochecknoglobals
var hexEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

// FromBase32Hex decodes a base32hex string regardless of case.
func FromBase32Hex(s string) ([]byte, error) {
	return hexEncoding.DecodeString(strings.ToUpper(s))
}

// ToBase32Hex encodes bytes as lowercase base32hex, matching the owner-name
// case convention used throughout the record-file format (§6).
func ToBase32Hex(b []byte) string {
	return strings.ToLower(hexEncoding.EncodeToString(b))
}
