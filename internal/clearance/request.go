package clearance

// Mode selects the bypass strategy the clearance service applies.
// The mode determines the shape of the response: session modes return a
// cookie/header bundle, token mode returns a Turnstile token, and source
// mode returns the raw page HTML.
type Mode string

const (
	// ModeWAFSession requests a full WAF session: the service solves the
	// challenge and returns the resulting cookies and headers so the
	// caller can reuse them directly against the target site.
	ModeWAFSession Mode = "waf-session"

	// ModeTurnstileMin requests a minimal Turnstile token for the given
	// site key, without creating a full session.
	ModeTurnstileMin Mode = "turnstile-min"

	// ModeSource requests the fully rendered page source. This is the
	// mode the batch harvester uses.
	ModeSource Mode = "source"
)

// Valid reports whether the mode is one the service understands.
func (m Mode) Valid() bool {
	switch m {
	case ModeWAFSession, ModeTurnstileMin, ModeSource:
		return true
	}
	return false
}

// String returns the wire representation of the mode.
func (m Mode) String() string { return string(m) }

// Request is the JSON payload sent to the clearance service.
type Request struct {
	// URL is the target page to clear or fetch.
	URL string `json:"url"`

	// Mode selects the bypass strategy.
	Mode Mode `json:"mode"`

	// SiteKey is the Turnstile site key. Only meaningful for
	// ModeTurnstileMin.
	SiteKey string `json:"siteKey,omitempty"`

	// Proxy is the upstream proxy the service should route through.
	// Nil means the service connects directly.
	Proxy *Proxy `json:"proxy,omitempty"`
}

// Cookie is a single cookie from a waf-session response.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain,omitempty"`
	Path     string  `json:"path,omitempty"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
}

// Response is the decoded reply from the clearance service.
//
// The shape depends on the request mode; unused fields are simply absent.
// The service sometimes replies with a bare HTML string instead of a JSON
// object in source mode, in which case the whole body is placed in Source
// and Code is set from the HTTP status.
type Response struct {
	// Code is the service-level status code. 200 means the challenge was
	// solved; anything else is a service-side failure described by
	// Message.
	Code int `json:"code"`

	// Message carries the failure description when Code is not 200.
	Message string `json:"message,omitempty"`

	// Cookies is the session cookie bundle (waf-session mode).
	Cookies []Cookie `json:"cookies,omitempty"`

	// Headers are the request headers to replay alongside the cookies
	// (waf-session mode).
	Headers map[string]string `json:"headers,omitempty"`

	// Token is the Turnstile token (turnstile-min mode).
	Token string `json:"token,omitempty"`

	// Source is the rendered page HTML (source mode).
	Source string `json:"source,omitempty"`

	// Data is an older field name some service versions use instead of
	// Source. HTML() hides the difference.
	Data string `json:"data,omitempty"`
}

// HTML returns the page source regardless of which field the service
// populated.
func (r *Response) HTML() string {
	if r.Source != "" {
		return r.Source
	}
	return r.Data
}
