package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// LoginPath is where unauthenticated users are sent.
const LoginPath = "/login"

func New(cookie string) Session {
	return Session{
		Cookie: strings.TrimSpace(cookie),
	}
}

// Session is the cookie header of a logged in browser session, e.g.
// "session=abc; remember_token=def".
type Session struct {
	Cookie string
}

// LoadFromFile reads a JSON map of server URLs to cookie headers.
func LoadFromFile(name string) (serverURLToCookie map[string]string, err error) {
	f, err := os.OpenFile(name, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m := make(map[string]string)
	if err = json.NewDecoder(f).Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// ForServer picks the session for serverURL, ignoring trailing slashes.
func ForServer(serverURLToCookie map[string]string, serverURL string) (s Session, ok bool) {
	want := strings.TrimSuffix(serverURL, "/")
	for k, v := range serverURLToCookie {
		if strings.TrimSuffix(k, "/") == want {
			return New(v), true
		}
	}
	return s, false
}

func (s Session) Apply(r *http.Request) {
	if s.Cookie == "" {
		return
	}
	r.Header.Set("Cookie", s.Cookie)
}

// LoginURL returns the login path with currentPath as the next parameter.
// Spaces are encoded as %20 rather than +, as the browser does.
func LoginURL(currentPath string) string {
	return LoginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(currentPath), "+", "%20")
}
