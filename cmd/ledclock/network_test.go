package main

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstIPv4(t *testing.T) {
	addrs := []net.Addr{
		&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
		&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)},
		&net.IPNet{IP: net.ParseIP("192.168.7.20"), Mask: net.CIDRMask(24, 32)},
	}

	ip, ok := firstIPv4(addrs)
	assert.True(t, ok)
	assert.Equal(t, [4]byte{192, 168, 7, 20}, ip)

	_, ok = firstIPv4(addrs[:2])
	assert.False(t, ok)
}
