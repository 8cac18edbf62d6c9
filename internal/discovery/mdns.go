// ABOUTME: mDNS lookup of the shopping assistant
// ABOUTME: Finds the assistant WebSocket endpoint when no URL is configured
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

// DefaultService is the mDNS service type the assistant advertises
const DefaultService = "_voicecart-agent._tcp"

// ErrNotFound is returned when no assistant answered before the timeout
var ErrNotFound = errors.New("no assistant found")

// Config holds discovery configuration
type Config struct {
	Service string
	Timeout time.Duration
}

// ServerInfo describes a discovered assistant
type ServerInfo struct {
	Name string
	Host string
	Port int
	Path string
	TLS  bool
}

// URL returns the WebSocket endpoint of the assistant
func (s *ServerInfo) URL() string {
	scheme := "ws"
	if s.TLS {
		scheme = "wss"
	}
	path := s.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(s.Host, strconv.Itoa(s.Port)), path)
}

// Lookup browses once and returns the first assistant found
func Lookup(ctx context.Context, config Config) (*ServerInfo, error) {
	if config.Service == "" {
		config.Service = DefaultService
	}
	if config.Timeout <= 0 {
		config.Timeout = 3 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, config.Timeout)
	defer cancel()

	entries := make(chan *mdns.ServiceEntry, 10)
	found := make(chan *ServerInfo, 1)

	go func() {
		for entry := range entries {
			server := fromEntry(entry)
			if server == nil {
				continue
			}
			select {
			case found <- server:
			default:
			}
		}
	}()

	params := mdns.DefaultParams(config.Service)
	params.Domain = "local"
	params.Timeout = config.Timeout
	params.Entries = entries
	params.DisableIPv6 = true

	queryErr := make(chan error, 1)
	go func() {
		queryErr <- mdns.Query(params)
		close(entries)
	}()

	log.Printf("Looking for %s via mDNS", config.Service)

	select {
	case server := <-found:
		log.Printf("Discovered assistant: %s at %s", server.Name, server.URL())
		return server, nil
	case err := <-queryErr:
		if err != nil {
			return nil, fmt.Errorf("mdns query failed: %w", err)
		}
		// The query finished; an entry may still be in flight
		select {
		case server := <-found:
			return server, nil
		case <-time.After(50 * time.Millisecond):
			return nil, ErrNotFound
		}
	case <-ctx.Done():
		return nil, ErrNotFound
	}
}

// fromEntry converts a service entry, reading path and tls from TXT records
func fromEntry(entry *mdns.ServiceEntry) *ServerInfo {
	if entry == nil || entry.Port == 0 {
		return nil
	}

	host := ""
	switch {
	case entry.AddrV4 != nil:
		host = entry.AddrV4.String()
	case entry.AddrV6 != nil:
		host = entry.AddrV6.String()
	case entry.Host != "":
		host = strings.TrimSuffix(entry.Host, ".")
	default:
		return nil
	}

	server := &ServerInfo{
		Name: entry.Name,
		Host: host,
		Port: entry.Port,
		Path: "/",
	}

	for _, field := range entry.InfoFields {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "path":
			server.Path = value
		case "tls":
			server.TLS = value == "1" || value == "true"
		}
	}

	return server
}
