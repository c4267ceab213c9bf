package cli

import (
	"errors"
	"fmt"

	"github.com/calistrack/calistrack/internal/client/api"
	"github.com/calistrack/calistrack/internal/client/validation"
)

type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is the terminal rendition of a modal dialog.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
}

func (n Notice) String() string {
	if n.Message == "" {
		return fmt.Sprintf("[%s] %s", n.Kind, n.Title)
	}
	return fmt.Sprintf("[%s] %s: %s", n.Kind, n.Title, n.Message)
}

const (
	msgUnavailable = "cannot reach the server, try again later"
	msgServer      = "the server failed to process the request, try again later"
	msgTooMany     = "too many attempts, try again later"
	msgNotFound    = "not found"
)

// messages overrides the generic text for statuses a command gives meaning to.
type messages struct {
	NotFound     string
	Conflict     string
	Unauthorized string
	TooMany      string
}

// errorNotice maps err onto the notice shown to the user.
func errorNotice(title string, err error, m messages) Notice {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return Notice{Kind: NoticeError, Title: verr.Title, Message: verr.Message}
	}

	msg := err.Error()
	switch {
	case errors.Is(err, api.ErrUnavailable):
		msg = msgUnavailable
	case errors.Is(err, api.ErrUnauthorized) && m.Unauthorized != "":
		msg = m.Unauthorized
	case errors.Is(err, api.ErrNotFound):
		msg = orDefault(m.NotFound, msgNotFound)
	case errors.Is(err, api.ErrConflict) && m.Conflict != "":
		msg = m.Conflict
	case errors.Is(err, api.ErrTooManyRequests):
		msg = orDefault(m.TooMany, msgTooMany)
	case errors.Is(err, api.ErrServer):
		msg = msgServer
	}
	return Notice{Kind: NoticeError, Title: title, Message: msg}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
