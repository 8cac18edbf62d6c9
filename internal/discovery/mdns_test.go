// ABOUTME: Tests for mDNS assistant discovery
// ABOUTME: Covers endpoint URL building and service entry conversion
package discovery

import (
	"net"
	"testing"

	"github.com/hashicorp/mdns"
)

func TestServerInfoURL(t *testing.T) {
	tests := []struct {
		name   string
		server ServerInfo
		want   string
	}{
		{"plain", ServerInfo{Host: "192.168.1.20", Port: 8080, Path: "/ws"}, "ws://192.168.1.20:8080/ws"},
		{"tls", ServerInfo{Host: "assistant.local", Port: 443, Path: "live", TLS: true}, "wss://assistant.local:443/live"},
		{"ipv6", ServerInfo{Host: "fe80::1", Port: 9000, Path: "/"}, "ws://[fe80::1]:9000/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.server.URL(); got != tt.want {
				t.Errorf("URL() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFromEntry(t *testing.T) {
	entry := &mdns.ServiceEntry{
		Name:       "kitchen._voicecart-agent._tcp.local.",
		Host:       "kitchen.local.",
		AddrV4:     net.ParseIP("10.0.0.5"),
		Port:       8765,
		InfoFields: []string{"path=/agent", "tls=1", "junk"},
	}

	server := fromEntry(entry)
	if server == nil {
		t.Fatal("expected a server")
	}
	if got := server.URL(); got != "wss://10.0.0.5:8765/agent" {
		t.Errorf("unexpected URL %s", got)
	}
}

func TestFromEntryFallsBackToHost(t *testing.T) {
	server := fromEntry(&mdns.ServiceEntry{Host: "kitchen.local.", Port: 80})
	if server == nil || server.Host != "kitchen.local" || server.Path != "/" {
		t.Errorf("unexpected server %+v", server)
	}
}

func TestFromEntryRejectsIncomplete(t *testing.T) {
	tests := []*mdns.ServiceEntry{
		nil,
		{Name: "no port", AddrV4: net.ParseIP("10.0.0.5")},
		{Name: "no address", Port: 80},
	}
	for _, entry := range tests {
		if server := fromEntry(entry); server != nil {
			t.Errorf("expected nil for %+v, got %+v", entry, server)
		}
	}
}
