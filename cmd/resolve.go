package cmd

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/anonion0/n3map/config"
	"github.com/anonion0/n3map/log"
)

// DefaultPort is the nameserver port assumed when one isn't given.
const DefaultPort = "53"

var (
	reIPv6HostPort = regexp.MustCompile(`^\[([:0-9a-fA-F]+)\]:([0-9]+)$`)
	reIPv6Host     = regexp.MustCompile(`^[:0-9a-fA-F]+$`)
	reHostPort     = regexp.MustCompile(`^(.+):([0-9]+)$`)
)

// splitHostPort parses a nameserver argument of the §6 shapes: "host",
// "host:port", "ipv6-literal", or "[ipv6]:port".
func splitHostPort(s string) (host, port string) {
	if m := reIPv6HostPort.FindStringSubmatch(s); m != nil {
		return m[1], m[2]
	}

	if reIPv6Host.MatchString(s) && strings.Count(s, ":") > 1 {
		return s, DefaultPort
	}

	if m := reHostPort.FindStringSubmatch(s); m != nil {
		return m[1], m[2]
	}

	return s, DefaultPort
}

// joinHostPort formats (ip, port) the way dns.Client.Exchange wants it,
// bracketing IPv6 literals.
func joinHostPort(ip, port string) string {
	return net.JoinHostPort(ip, port)
}

// resolveHost resolves host to a single address honoring ipVersion,
// preferring an address already in the requested family and falling
// back to whatever the resolver returns for config.IPVersionDual.
func resolveHost(ctx context.Context, host string, ipVersion config.IPVersion) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return host, nil
	}

	network := "ip"
	switch ipVersion {
	case config.IPVersionV4:
		network = "ip4"
	case config.IPVersionV6:
		network = "ip6"
	}

	ips, err := net.DefaultResolver.LookupIP(ctx, network, host)
	if err != nil {
		return "", fmt.Errorf("resolving nameserver %q: %w", host, err)
	}

	if len(ips) == 0 {
		return "", fmt.Errorf("no suitable address found for nameserver %q", host)
	}

	return ips[0].String(), nil
}

// ResolveNameservers turns the CLI's raw nameserver arguments (or, when
// none were given, the zone's own NS set) into host:port strings the
// query provider can dial directly, mirroring map.py's get_nameservers.
func ResolveNameservers(ctx context.Context, zone string, raw []string, ipVersion config.IPVersion) ([]string, error) {
	names := raw
	if len(names) == 0 {
		discovered, err := discoverNameservers(ctx, zone)
		if err != nil {
			return nil, err
		}

		names = discovered
	}

	seen := make(map[string]bool)

	var out []string

	for _, s := range names {
		host, port := splitHostPort(s)

		ip, err := resolveHost(ctx, host, ipVersion)
		if err != nil {
			return nil, err
		}

		addr := joinHostPort(ip, port)
		if seen[addr] {
			continue
		}

		seen[addr] = true
		out = append(out, addr)

		log.WithPrefix("cmd").Infof("using nameserver %s (%s)", addr, host)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no nameservers found")
	}

	return out, nil
}

// discoverNameservers looks up the zone's NS records via the system
// resolver when the operator didn't name any explicitly.
func discoverNameservers(ctx context.Context, zone string) ([]string, error) {
	log.WithPrefix("cmd").Infof("looking up nameservers for zone %s", zone)

	nss, err := net.DefaultResolver.LookupNS(ctx, zone)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve nameservers for zone: %w", err)
	}

	out := make([]string, 0, len(nss))
	for _, ns := range nss {
		out = append(out, strings.TrimSuffix(ns.Host, "."))
	}

	return out, nil
}
