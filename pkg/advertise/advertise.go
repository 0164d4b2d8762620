// Package advertise announces the API on the local network over mDNS and
// finds announced instances.
package advertise

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/rs/zerolog/log"
)

// Service is the mDNS service type of the API.
const Service = "_tled._tcp"

const defaultLookupTimeout = 3 * time.Second

// Server is a running announcement.
type Server struct {
	server *mdns.Server
}

// Start announces the API listening on port. instance defaults to the
// hostname.
func Start(instance string, port int, info ...string) (*Server, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("hostname: %w", err)
		}
		instance = host
	}

	svc, err := mdns.NewMDNSService(instance, Service, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("mdns service: %w", err)
	}

	srv, err := mdns.NewServer(&mdns.Config{Zone: svc})
	if err != nil {
		return nil, fmt.Errorf("mdns server: %w", err)
	}

	log.Info().Str("instance", instance).Int("port", port).Msg("mDNS announcement started")
	return &Server{server: srv}, nil
}

// Shutdown stops the announcement.
func (s *Server) Shutdown() error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown()
}

// Instance is an announced API.
type Instance struct {
	Name string
	Host string
	Addr net.IP
	Port int
	Info []string
}

// URL returns the base URL of the instance.
func (i Instance) URL() string {
	return "http://" + net.JoinHostPort(i.Addr.String(), fmt.Sprint(i.Port))
}

// Lookup queries the network for announced instances until timeout or ctx
// ends.
func Lookup(ctx context.Context, timeout time.Duration) ([]Instance, error) {
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}

	entries := make(chan *mdns.ServiceEntry, 16)
	errc := make(chan error, 1)

	go func() {
		params := &mdns.QueryParam{
			Service:             Service,
			Domain:              "local",
			Timeout:             timeout,
			Entries:             entries,
			DisableIPv6:         true,
			WantUnicastResponse: true,
		}
		errc <- mdns.Query(params)
		close(entries)
	}()

	var found []Instance
	for entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if inst, ok := fromEntry(entry); ok {
			found = append(found, inst)
		}
	}

	if err := <-errc; err != nil {
		return found, fmt.Errorf("mdns query: %w", err)
	}
	return found, nil
}

func fromEntry(e *mdns.ServiceEntry) (Instance, bool) {
	if e == nil || e.AddrV4 == nil || !strings.Contains(e.Name, Service) {
		return Instance{}, false
	}
	return Instance{
		Name: strings.TrimSuffix(e.Name, "."+Service+".local."),
		Host: e.Host,
		Addr: e.AddrV4,
		Port: e.Port,
		Info: e.InfoFields,
	}, true
}
