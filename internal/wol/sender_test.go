package wol

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenLoopback(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSender_Send_DeliversMagicPacket(t *testing.T) {
	conn := listenLoopback(t)
	port := conn.LocalAddr().(*net.UDPAddr).Port

	sender := NewSender("127.0.0.1", port, 2*time.Second)
	require.NoError(t, sender.Send(context.Background(), "AA:BB:CC:DD:EE:FF"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 512)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)

	expected, err := BuildMagicPacket("aabbccddeeff")
	require.NoError(t, err)
	assert.Equal(t, expected, buf[:n])
}

func TestSender_Send_InvalidAddress(t *testing.T) {
	sender := NewSender("127.0.0.1", DefaultWOLPort, time.Second)
	err := sender.Send(context.Background(), "not-a-mac")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.NotErrorIs(t, err, ErrSendFailure)
}

func TestSender_Send_UnresolvableTarget(t *testing.T) {
	sender := NewSender("not an address", DefaultWOLPort, time.Second)
	err := sender.Send(context.Background(), "AA:BB:CC:DD:EE:FF")
	assert.ErrorIs(t, err, ErrSendFailure)
}

func TestNewSender_Defaults(t *testing.T) {
	sender := NewSender("", 0, 0)
	assert.Equal(t, "255.255.255.255:9", sender.Target())
	assert.Equal(t, 5*time.Second, sender.timeout)
}
