package multicast

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"sync"
	"time"

	"golang.org/x/net/ipv4"
)

// MaxPayload is the largest UDP payload that fits in one IPv4 datagram.
const MaxPayload = 65507

// DefaultTTL is used when Config.TTL is zero.
const DefaultTTL = 1

// Config contains publisher settings.
type Config struct {
	// Address is the destination group, "ip:port". Port 0 binds an
	// ephemeral port and sends to that port.
	Address string

	// Interface names the NIC used to join the group and send.
	// Empty uses the wildcard interface.
	Interface string

	// TTL is the multicast hop limit. Zero selects DefaultTTL.
	TTL int
}

// Publisher owns a UDP socket bound to the group port and joined to the
// group. Datagrams sent with Broadcast loop back to local listeners,
// including Receive on the same publisher.
//
// Thread Safety:
//   - Broadcast and Receive may be called concurrently.
//   - Close may be called multiple times.
type Publisher struct {
	conn  *net.UDPConn
	pc    *ipv4.PacketConn
	dst   *net.UDPAddr
	iface *net.Interface

	mu     sync.Mutex
	closed bool
}

// ParseGroup validates addr as an IPv4 multicast "ip:port".
func ParseGroup(addr string) (*net.UDPAddr, error) {
	ap, err := netip.ParseAddrPort(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, addr, err)
	}
	if !ap.Addr().Is4() || !ap.Addr().IsMulticast() {
		return nil, fmt.Errorf("%w: %s", ErrNotMulticast, ap.Addr())
	}
	return net.UDPAddrFromAddrPort(ap), nil
}

// New binds 0.0.0.0:port with SO_REUSEADDR, enables multicast loopback,
// sets the TTL and joins the group.
//
// Any socket failure is returned wrapped in ErrSetupFailed.
func New(ctx context.Context, cfg Config) (*Publisher, error) {
	dst, err := ParseGroup(cfg.Address)
	if err != nil {
		return nil, err
	}

	var iface *net.Interface
	if cfg.Interface != "" {
		iface, err = net.InterfaceByName(cfg.Interface)
		if err != nil {
			return nil, fmt.Errorf("%w: interface %q: %w", ErrSetupFailed, cfg.Interface, err)
		}
	}

	lc := net.ListenConfig{Control: reuseAddr}
	bind := net.JoinHostPort("0.0.0.0", strconv.Itoa(dst.Port))
	pconn, err := lc.ListenPacket(ctx, "udp4", bind)
	if err != nil {
		return nil, fmt.Errorf("%w: binding %s: %w", ErrSetupFailed, bind, err)
	}
	conn, ok := pconn.(*net.UDPConn)
	if !ok {
		pconn.Close()
		return nil, fmt.Errorf("%w: unexpected connection type %T", ErrSetupFailed, pconn)
	}

	if dst.Port == 0 {
		if local, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			dst.Port = local.Port
		}
	}

	p := &Publisher{
		conn:  conn,
		pc:    ipv4.NewPacketConn(conn),
		dst:   dst,
		iface: iface,
	}

	if err := p.configure(cfg.TTL); err != nil {
		conn.Close()
		return nil, err
	}

	return p, nil
}

// configure applies the multicast socket options and joins the group.
func (p *Publisher) configure(ttl int) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if err := p.pc.SetMulticastLoopback(true); err != nil {
		return fmt.Errorf("%w: enabling loopback: %w", ErrSetupFailed, err)
	}
	if err := p.pc.SetMulticastTTL(ttl); err != nil {
		return fmt.Errorf("%w: setting ttl %d: %w", ErrSetupFailed, ttl, err)
	}
	if p.iface != nil {
		if err := p.pc.SetMulticastInterface(p.iface); err != nil {
			return fmt.Errorf("%w: selecting interface %s: %w", ErrSetupFailed, p.iface.Name, err)
		}
	}
	if err := p.pc.JoinGroup(p.iface, &net.UDPAddr{IP: p.dst.IP}); err != nil {
		return fmt.Errorf("%w: joining %s: %w", ErrSetupFailed, p.dst.IP, err)
	}
	return nil
}

// Broadcast sends payload as a single datagram to the group.
// Failures are not retried.
func (p *Publisher) Broadcast(payload []byte) error {
	if len(payload) > MaxPayload {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(payload), MaxPayload)
	}
	if p.isClosed() {
		return ErrClosed
	}

	if _, err := p.conn.WriteToUDP(payload, p.dst); err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	return nil
}

// Receive reads one datagram into buf. It returns ctx.Err() when ctx is
// cancelled or its deadline passes first.
func (p *Publisher) Receive(ctx context.Context, buf []byte) (int, net.Addr, error) {
	if p.isClosed() {
		return 0, nil, ErrClosed
	}

	deadline, hasDeadline := ctx.Deadline()
	if err := p.conn.SetReadDeadline(deadline); err != nil {
		return 0, nil, err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = p.conn.SetReadDeadline(time.Unix(1, 0))
	})
	defer stop()

	n, from, err := p.conn.ReadFromUDP(buf)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		var netErr net.Error
		if hasDeadline && errors.As(err, &netErr) && netErr.Timeout() {
			return 0, nil, context.DeadlineExceeded
		}
		if errors.Is(err, net.ErrClosed) {
			return 0, nil, ErrClosed
		}
		return 0, nil, err
	}
	return n, from, nil
}

// Addr returns the destination group address.
func (p *Publisher) Addr() *net.UDPAddr {
	return &net.UDPAddr{IP: p.dst.IP, Port: p.dst.Port}
}

// LocalAddr returns the bound socket address.
func (p *Publisher) LocalAddr() net.Addr {
	return p.conn.LocalAddr()
}

// Close leaves the group and closes the socket.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	_ = p.pc.LeaveGroup(p.iface, &net.UDPAddr{IP: p.dst.IP})
	return p.conn.Close()
}

func (p *Publisher) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
