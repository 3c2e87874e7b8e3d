package server

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// AttributionCookie is the signed session cookie name.
const AttributionCookie = "atlas_attribution"

// Session keys.
const (
	keyBrand    = "brand"
	keyPersona  = "persona"
	keyReferrer = "referrer"
)

var personaRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,39}$`)

// Attribution is the brand, persona and first-touch referrer of a visitor.
type Attribution struct {
	Brand    string `json:"brand,omitempty"`
	Persona  string `json:"persona,omitempty"`
	Referrer string `json:"referrer,omitempty"`
}

type attributionKey struct{}

// AttributionFrom returns the attribution stored by the middleware.
func AttributionFrom(ctx context.Context) (Attribution, bool) {
	a, ok := ctx.Value(attributionKey{}).(Attribution)
	return a, ok
}

// attribution resolves the brand from the host and the persona from the
// query or referrer, persisting them in the session cookie when they change.
// The referrer is recorded on first external touch only.
func (s *Server) attribution(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A cookie that fails to decode yields a fresh session.
		session, _ := s.sessions.Get(r, AttributionCookie)

		current := Attribution{}
		current.Brand, _ = session.Values[keyBrand].(string)
		current.Persona, _ = session.Values[keyPersona].(string)
		current.Referrer, _ = session.Values[keyReferrer].(string)
		resolved := current

		if brand := s.brandFor(r.Host); brand != "" {
			resolved.Brand = brand
		}

		refHost := ""
		if ref := r.Referer(); ref != "" {
			if u, err := url.Parse(ref); err == nil && u.Host != "" && !sameHost(u.Host, r.Host) {
				refHost = hostname(u.Host)
				if resolved.Referrer == "" {
					resolved.Referrer = refHost
				}
			}
		}

		if p := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("persona"))); personaRe.MatchString(p) {
			resolved.Persona = p
		} else if p := s.personaFor(refHost); p != "" {
			resolved.Persona = p
		}

		if resolved != current {
			session.Values[keyBrand] = resolved.Brand
			session.Values[keyPersona] = resolved.Persona
			session.Values[keyReferrer] = resolved.Referrer
			if err := session.Save(r, w); err != nil {
				s.logger.Warn("save attribution session", "error", err)
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), attributionKey{}, resolved)))
	})
}

func (s *Server) brandFor(host string) string {
	h := hostname(host)
	if b, ok := s.cfg.Brands[h]; ok {
		return b
	}
	if b, ok := s.cfg.Brands[strings.TrimPrefix(h, "www.")]; ok {
		return b
	}
	return s.cfg.DefaultBrand
}

func (s *Server) personaFor(refHost string) string {
	if refHost == "" {
		return ""
	}
	if p, ok := s.cfg.ReferrerPersonas[refHost]; ok {
		return p
	}
	return s.cfg.ReferrerPersonas[strings.TrimPrefix(refHost, "www.")]
}

func hostname(hostport string) string {
	h := hostport
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		h = host
	}
	return strings.ToLower(strings.TrimSuffix(h, "."))
}

func sameHost(a, b string) bool {
	return hostname(a) == hostname(b)
}
