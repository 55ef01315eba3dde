// Package nav is the route table of the client shell and its mobile menu state.
package nav

import "strings"

// Route is one page of the client.
type Route struct {
	Path         string `json:"path"`
	Title        string `json:"title"`
	AuthRequired bool   `json:"authRequired"`
	InNavbar     bool   `json:"inNavbar"`
}

// SignInPath is where unauthenticated visitors of a gated page are sent.
const SignInPath = "/signin"

var routes = []Route{
	{Path: "/", Title: "Home", InNavbar: true},
	{Path: "/portfolio", Title: "Portfolio", AuthRequired: true, InNavbar: true},
	{Path: "/learn", Title: "Learn", InNavbar: true},
	{Path: "/game", Title: "Game", InNavbar: true},
	{Path: "/quiz", Title: "Quiz", InNavbar: true},
	{Path: "/signin", Title: "Sign In"},
	{Path: "/signup", Title: "Sign Up"},
}

// Routes returns the route table.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// Resolution is the outcome of navigating to a path.
type Resolution struct {
	Route    Route  `json:"route"`
	Redirect string `json:"redirect,omitempty"`
	Found    bool   `json:"found"`
}

// Resolve maps path to its route. A gated route visited without a session
// resolves to a redirect to SignInPath. Unknown paths are not found.
func Resolve(path string, authenticated bool) Resolution {
	p := "/" + strings.Trim(path, "/")
	for _, r := range routes {
		if r.Path != p {
			continue
		}
		if r.AuthRequired && !authenticated {
			return Resolution{Route: r, Redirect: SignInPath, Found: true}
		}
		return Resolution{Route: r, Found: true}
	}
	return Resolution{}
}

// Menu is the mobile menu. Opening it locks page scrolling; the two flags
// always move together.
type Menu struct {
	Open         bool `json:"open"`
	ScrollLocked bool `json:"scrollLocked"`
}

// Toggle flips the menu and the scroll lock.
func (m *Menu) Toggle() {
	m.Open = !m.Open
	m.ScrollLocked = m.Open
}

// Close closes the menu, e.g. after a navigation.
func (m *Menu) Close() {
	m.Open = false
	m.ScrollLocked = false
}
