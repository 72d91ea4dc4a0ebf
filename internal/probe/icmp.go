package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

// IANA protocol number for ICMP over IPv4
const protocolICMP = 1

var errNoReply = errors.New("no echo reply")

// icmpEcho sends one echo request and waits for the matching reply. It prefers the
// unprivileged datagram socket and falls back to a raw socket.
func icmpEcho(ctx context.Context, address string, timeout time.Duration) error {
	ipAddr, err := net.DefaultResolver.LookupIPAddr(ctx, address)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", address, err)
	}
	var target net.IP
	for _, a := range ipAddr {
		if v4 := a.IP.To4(); v4 != nil {
			target = v4
			break
		}
	}
	if target == nil {
		return fmt.Errorf("resolve %s: no IPv4 address", address)
	}

	privileged := false
	conn, err := icmp.ListenPacket("udp4", "0.0.0.0")
	if err != nil {
		conn, err = icmp.ListenPacket("ip4:icmp", "0.0.0.0")
		if err != nil {
			return fmt.Errorf("open icmp socket: %w", err)
		}
		privileged = true
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return err
	}

	id := os.Getpid() & 0xffff
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{ID: id, Seq: 1, Data: []byte("wolwake")},
	}
	payload, err := msg.Marshal(nil)
	if err != nil {
		return err
	}

	var dst net.Addr = &net.UDPAddr{IP: target}
	if privileged {
		dst = &net.IPAddr{IP: target}
	}
	if _, err := conn.WriteTo(payload, dst); err != nil {
		return fmt.Errorf("send echo: %w", err)
	}

	buf := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			return fmt.Errorf("%w from %s: %v", errNoReply, target, err)
		}
		reply, err := icmp.ParseMessage(protocolICMP, buf[:n])
		if err != nil || reply.Type != ipv4.ICMPTypeEchoReply {
			continue
		}
		if peerIP(peer).Equal(target) {
			return nil
		}
	}
}

func peerIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.UDPAddr:
		return a.IP
	case *net.IPAddr:
		return a.IP
	default:
		return nil
	}
}
