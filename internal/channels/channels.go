// Package channels implements the outbound notification channels: push
// and messenger delivery via shoutrrr service URLs, and JSON webhooks.
package channels

import (
	"context"
	"fmt"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/router"
	"github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/fundwatch/fundwatch/internal/errors"
)

// ShoutrrrSender delivers messages through a shoutrrr service URL
// (ntfy://, discord://, telegram://, and so on). The same type backs both
// the push and messenger channels; only the title semantics differ.
type ShoutrrrSender struct {
	router *router.ServiceRouter
}

// NewShoutrrrSender validates the service URL and returns a sender.
func NewShoutrrrSender(serviceURL string) (*ShoutrrrSender, error) {
	if serviceURL == "" {
		return nil, errors.New("service URL is empty")
	}
	r, err := shoutrrr.CreateSender(serviceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid notification service URL: %w", err)
	}
	return &ShoutrrrSender{router: r}, nil
}

// SendPush delivers a titled push notification.
func (s *ShoutrrrSender) SendPush(_ context.Context, title, message string) error {
	return s.send(title, message)
}

// SendMessage delivers a messenger notification. The category becomes the
// message title so clients can group by it.
func (s *ShoutrrrSender) SendMessage(_ context.Context, category, message string) error {
	return s.send(category, message)
}

func (s *ShoutrrrSender) send(title, message string) error {
	params := types.Params{}
	if title != "" {
		params.SetTitle(title)
	}
	if errs := s.router.Send(message, &params); len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
