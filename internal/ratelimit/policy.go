package ratelimit

import (
	"fmt"
	"net"
	"strings"
	"time"
)

const (
	keyPrefix = "folio:ratelimit"

	DefaultContactCapacity = 5
	DefaultContactWindow   = time.Minute
)

// Policy is a named budget of Capacity requests per Window for each client.
type Policy struct {
	Name     string
	Capacity int
	Window   time.Duration
}

// ContactFormPolicy budgets contact submissions per client. Non-positive
// values fall back to five messages a minute.
func ContactFormPolicy(capacity int, window time.Duration) Policy {
	if capacity <= 0 {
		capacity = DefaultContactCapacity
	}
	if window <= 0 {
		window = DefaultContactWindow
	}
	return Policy{Name: "contact", Capacity: capacity, Window: window}
}

func (p Policy) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("policy name is required")
	}
	if p.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive")
	}
	if p.Window <= 0 {
		return fmt.Errorf("window must be positive")
	}
	return nil
}

// ClientKey reduces a client address to the unit a budget is charged to.
// IPv4 addresses count individually; IPv6 addresses are grouped by their /64
// since a single host usually controls the whole prefix.
func ClientKey(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "anonymous"
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}

	ip := net.ParseIP(addr)
	if ip == nil {
		return addr
	}
	if v4 := ip.To4(); v4 != nil {
		return v4.String()
	}
	network := net.IPNet{IP: ip.Mask(net.CIDRMask(64, 128)), Mask: net.CIDRMask(64, 128)}
	return network.String()
}
