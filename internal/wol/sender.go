package wol

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"
	"time"
	"wolwake/internal/structures"
)

var ErrSendFailure = errors.New("wake packet send failed")

type SenderInterface interface {
	Send(ctx context.Context, macAddress string) error
}

// Sender broadcasts magic packets over UDP. Delivery is not confirmed.
type Sender struct {
	broadcast string
	port      int
	timeout   time.Duration
}

func NewSender(broadcast string, port int, timeout time.Duration) *Sender {
	if broadcast == "" {
		broadcast = DefaultBroadcastAddress
	}
	if port <= 0 {
		port = DefaultWOLPort
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Sender{
		broadcast: broadcast,
		port:      port,
		timeout:   timeout,
	}
}

func NewSenderFromConfig(conf *structures.Config) SenderInterface {
	return NewSender(conf.Wol.BroadcastAddress, conf.Wol.Port, conf.Wol.Timeout())
}

func (s *Sender) Target() string {
	return net.JoinHostPort(s.broadcast, strconv.Itoa(s.port))
}

// Send builds the packet for macAddress and writes it as a single datagram.
// Address errors are returned as ErrInvalidAddress, transport errors as ErrSendFailure.
func (s *Sender) Send(ctx context.Context, macAddress string) error {
	packet, err := BuildMagicPacket(macAddress)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	dst, err := net.ResolveUDPAddr("udp4", s.Target())
	if err != nil {
		return fmt.Errorf("%w: resolve %s: %v", ErrSendFailure, s.Target(), err)
	}

	lc := net.ListenConfig{Control: broadcastControl}
	conn, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return fmt.Errorf("%w: open socket: %v", ErrSendFailure, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}

	n, err := conn.WriteTo(packet, dst)
	if err != nil {
		return fmt.Errorf("%w: write to %s: %v", ErrSendFailure, dst, err)
	}
	if n != len(packet) {
		return fmt.Errorf("%w: short write %d/%d bytes", ErrSendFailure, n, len(packet))
	}
	return nil
}

// broadcastControl enables SO_BROADCAST and SO_REUSEADDR before the socket is bound.
func broadcastControl(_, _ string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		if sockErr = setReuseAddr(fd); sockErr != nil {
			return
		}
		sockErr = setBroadcast(fd)
	})
	if err != nil {
		return err
	}
	return sockErr
}
