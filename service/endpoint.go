// Package service gives the optional status/metrics HTTP endpoint a small,
// named abstraction to sit behind instead of a bare *http.Server, grounded on
// blocky's service package (trimmed to the single-endpoint case: see
// DESIGN.md for what was dropped and why).
package service

import (
	"fmt"
	"strings"
)

// Endpoint is a network endpoint on which to expose a service.
type Endpoint struct {
	// Protocol is the protocol to be exposed on this endpoint.
	Protocol string

	// AddrConf is the network address as configured by the user.
	AddrConf string
}

// EndpointsFromAddrs builds one Endpoint per address under the given protocol.
func EndpointsFromAddrs(proto string, addrs []string) []Endpoint {
	out := make([]Endpoint, 0, len(addrs))

	for _, addr := range addrs {
		out = append(out, Endpoint{Protocol: proto, AddrConf: addr})
	}

	return out
}

func (e Endpoint) String() string {
	addr := e.AddrConf
	if strings.HasPrefix(addr, ":") {
		addr = "*" + addr
	}

	return fmt.Sprintf("%s://%s", e.Protocol, addr)
}
