package clearance

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// TestParseProxy covers the 4-part colon format and its failure modes.
func TestParseProxy(t *testing.T) {
	t.Parallel()

	t.Run("valid 4-part spec", func(t *testing.T) {
		t.Parallel()

		p, err := ParseProxy("10.0.0.1:8080:alice:s3cret")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Host != "10.0.0.1" {
			t.Errorf("expected host 10.0.0.1, got %q", p.Host)
		}
		if p.Port != 8080 {
			t.Errorf("expected port 8080, got %d", p.Port)
		}
		if p.Username != "alice" {
			t.Errorf("expected username alice, got %q", p.Username)
		}
		if p.Password != "s3cret" {
			t.Errorf("expected password s3cret, got %q", p.Password)
		}
	})

	t.Run("empty credentials kept as empty fields", func(t *testing.T) {
		t.Parallel()

		p, err := ParseProxy("proxy.local:3128::")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Username != "" || p.Password != "" {
			t.Errorf("expected empty credentials, got %q/%q", p.Username, p.Password)
		}
	})

	t.Run("wrong number of parts", func(t *testing.T) {
		t.Parallel()

		for _, spec := range []string{
			"",
			"hostonly",
			"host:8080",
			"host:8080:user",
			"host:8080:user:pass:extra",
		} {
			if _, err := ParseProxy(spec); !errors.Is(err, ErrInvalidProxySpec) {
				t.Errorf("spec %q: expected ErrInvalidProxySpec, got %v", spec, err)
			}
		}
	})

	t.Run("non-numeric port", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseProxy("host:eighty:user:pass"); !errors.Is(err, ErrInvalidProxySpec) {
			t.Errorf("expected ErrInvalidProxySpec, got %v", err)
		}
	})

	t.Run("empty host", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseProxy(":8080:user:pass"); !errors.Is(err, ErrInvalidProxySpec) {
			t.Errorf("expected ErrInvalidProxySpec, got %v", err)
		}
	})
}

// TestProxyJSON verifies optional credentials are omitted from the wire
// payload, which the service treats as "no auth".
func TestProxyJSON(t *testing.T) {
	t.Parallel()

	t.Run("credentials present", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(&Proxy{Host: "h", Port: 1, Username: "u", Password: "p"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{`"username":"u"`, `"password":"p"`} {
			if !strings.Contains(string(data), want) {
				t.Errorf("expected %s in %s", want, data)
			}
		}
	})

	t.Run("credentials absent", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(&Proxy{Host: "h", Port: 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(string(data), "username") || strings.Contains(string(data), "password") {
			t.Errorf("expected credentials omitted, got %s", data)
		}
	})
}

// TestProxyString verifies the log-safe representation hides credentials.
func TestProxyString(t *testing.T) {
	t.Parallel()

	p := &Proxy{Host: "10.0.0.1", Port: 8080, Username: "alice", Password: "s3cret"}
	got := p.String()
	if got != "10.0.0.1:8080" {
		t.Errorf("expected '10.0.0.1:8080', got %q", got)
	}
	if strings.Contains(got, "s3cret") {
		t.Error("String() must not expose the password")
	}
}
