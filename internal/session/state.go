// Package session holds the UI navigation state machine of a login session.
package session

import "fmt"

// Page is a navigation state.
type Page string

const (
	LoggedOut Page = "logged_out"
	Home      Page = "home"
	Dashboard Page = "dashboard"
	History   Page = "history"
	Account   Page = "account"
)

// Action triggers a transition.
type Action string

const (
	ActionLogin    Action = "login"
	ActionNavigate Action = "navigate"
	ActionLogout   Action = "logout"
)

// Initial is the state of a fresh visitor.
const Initial = LoggedOut

// ParsePage accepts the page names used in URLs and forms.
func ParsePage(s string) (Page, error) {
	p := Page(s)
	switch p {
	case LoggedOut, Home, Dashboard, History, Account:
		return p, nil
	}
	return "", fmt.Errorf("unknown page %q", s)
}

// LoggedIn reports whether p is one of the pages behind the login.
func (p Page) LoggedIn() bool {
	switch p {
	case Home, Dashboard, History, Account:
		return true
	}
	return false
}

// Transition returns the next state. target is only used by ActionNavigate.
//
//	logged_out --login-->    home
//	<logged in> --navigate-> <logged in>
//	<any>       --logout-->  logged_out
func Transition(from Page, action Action, target Page) (Page, error) {
	switch action {
	case ActionLogout:
		return LoggedOut, nil
	case ActionLogin:
		if from != LoggedOut {
			return from, fmt.Errorf("already logged in")
		}
		return Home, nil
	case ActionNavigate:
		if !from.LoggedIn() {
			return from, fmt.Errorf("navigation requires login")
		}
		if !target.LoggedIn() {
			return from, fmt.Errorf("cannot navigate to %q", target)
		}
		return target, nil
	}
	return from, fmt.Errorf("unknown action %q", action)
}
