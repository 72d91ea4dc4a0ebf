package wol

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultWOLPort is the standard Wake-on-LAN UDP port
	DefaultWOLPort = 9
	// DefaultBroadcastAddress is the IPv4 limited broadcast address
	DefaultBroadcastAddress = "255.255.255.255"
	// MagicPacketSize is the size of a WOL magic packet (6 + 6*16 = 102 bytes)
	MagicPacketSize = 6 + 16*macLength

	macLength   = 6
	repetitions = 16
)

var ErrInvalidAddress = errors.New("invalid hardware address")

// ParseMAC accepts colon or hyphen delimited octets, or a bare 12 hex digit string.
func ParseMAC(address string) ([]byte, error) {
	stripped := strings.NewReplacer(":", "", "-", "").Replace(strings.TrimSpace(address))
	if len(stripped) != 2*macLength {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	mac, err := hex.DecodeString(stripped)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return mac, nil
}

// BuildMagicPacket returns 6 bytes of 0xFF followed by the address repeated 16 times.
func BuildMagicPacket(address string) ([]byte, error) {
	mac, err := ParseMAC(address)
	if err != nil {
		return nil, err
	}

	packet := make([]byte, MagicPacketSize)
	for i := 0; i < 6; i++ {
		packet[i] = 0xFF
	}
	for i := 0; i < repetitions; i++ {
		copy(packet[6+i*macLength:6+(i+1)*macLength], mac)
	}
	return packet, nil
}

// FormatMAC renders raw address bytes lowercase with colons.
func FormatMAC(mac []byte) string {
	parts := make([]string, len(mac))
	for i, b := range mac {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, ":")
}
