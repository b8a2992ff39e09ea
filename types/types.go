package types

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/Akhil-2310/arkanon/util"
)

// HexBytes is a []byte which encodes as hexadecimal in json, as opposed to
// the base64 default.
type HexBytes []byte

// String returns the hexadecimal representation of the bytes.
func (b HexBytes) String() string {
	return hex.EncodeToString(b)
}

// MarshalJSON encodes the bytes as a quoted hexadecimal string.
func (b HexBytes) MarshalJSON() ([]byte, error) {
	enc := make([]byte, hex.EncodedLen(len(b))+2)
	enc[0] = '"'
	hex.Encode(enc[1:], b)
	enc[len(enc)-1] = '"'
	return enc, nil
}

// UnmarshalJSON decodes a quoted hexadecimal string, with or without a
// leading "0x".
func (b *HexBytes) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid JSON string: %q", data)
	}
	data = data[1 : len(data)-1]
	if len(data) >= 2 && data[0] == '0' && (data[1] == 'x' || data[1] == 'X') {
		data = data[2:]
	}
	decoded := make([]byte, hex.DecodedLen(len(data)))
	if _, err := hex.Decode(decoded, data); err != nil {
		return err
	}
	*b = decoded
	return nil
}

// HexStringToHexBytes converts a hex string to HexBytes. It strips a leading
// "0x" prefix if present. Returns nil if the string is not valid hex.
func HexStringToHexBytes(s string) HexBytes {
	s = util.TrimHex(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// BigInt wraps big.Int to marshal as a decimal string in json and as raw
// big-endian bytes in binary encodings such as cbor.
type BigInt big.Int

// MathBigInt converts b to a *big.Int.
func (b *BigInt) MathBigInt() *big.Int {
	return (*big.Int)(b)
}

// SetUint64 sets b to x and returns b.
func (b *BigInt) SetUint64(x uint64) *BigInt {
	return (*BigInt)(b.MathBigInt().SetUint64(x))
}

// SetBytes interprets buf as big-endian unsigned integer, sets b to that
// value and returns b.
func (b *BigInt) SetBytes(buf []byte) *BigInt {
	return (*BigInt)(b.MathBigInt().SetBytes(buf))
}

// String returns the decimal representation of b.
func (b *BigInt) String() string {
	return b.MathBigInt().String()
}

// Equal reports whether b and x hold the same integer.
func (b *BigInt) Equal(x *BigInt) bool {
	return b.MathBigInt().Cmp(x.MathBigInt()) == 0
}

// MarshalText implements encoding.TextMarshaler, used for json.
func (b *BigInt) MarshalText() ([]byte, error) {
	return b.MathBigInt().MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler, used for json.
func (b *BigInt) UnmarshalText(data []byte) error {
	return b.MathBigInt().UnmarshalText(data)
}

// MarshalBinary implements encoding.BinaryMarshaler, used for cbor.
func (b *BigInt) MarshalBinary() ([]byte, error) {
	return b.MathBigInt().Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, used for cbor.
func (b *BigInt) UnmarshalBinary(data []byte) error {
	b.MathBigInt().SetBytes(data)
	return nil
}
