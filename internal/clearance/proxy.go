package clearance

import (
	"fmt"
	"strconv"
	"strings"
)

// Proxy is an upstream proxy passed through to the clearance service.
// Username and Password are optional per field; empty values are omitted
// from the JSON payload and the service treats that as "no auth".
type Proxy struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// ParseProxy parses a proxy specification of the form
// "host:port:username:password" (exactly four colon-separated parts).
//
// Anything else is rejected: callers log the error and continue without a
// proxy rather than aborting the run. Port must be a valid integer.
func ParseProxy(spec string) (*Proxy, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: %q has %d parts, want 4", ErrInvalidProxySpec, spec, len(parts))
	}

	if parts[0] == "" {
		return nil, fmt.Errorf("%w: empty host in %q", ErrInvalidProxySpec, spec)
	}

	port, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: port %q is not a number", ErrInvalidProxySpec, parts[1])
	}

	return &Proxy{
		Host:     parts[0],
		Port:     port,
		Username: parts[2],
		Password: parts[3],
	}, nil
}

// String returns the proxy host and port without credentials, safe for
// logs.
func (p *Proxy) String() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}
