package notify

import (
	"fmt"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/types"
)

// Target holds a fully resolved notification target ready to send.
type Target struct {
	ServiceName string
	URL         string
	Message     string
	Params      map[string]string
}

// ResolveTargets renders the message template once and pairs it with
// each configured service. Service params are passed through untouched.
func ResolveTargets(
	services map[string]ServiceDef,
	names []string,
	tmplStr string,
	data TemplateData,
) ([]Target, error) {
	msg, err := Render(tmplStr, data)
	if err != nil {
		return nil, fmt.Errorf("rendering message: %w", err)
	}

	var targets []Target
	for _, name := range names {
		svc, ok := services[name]
		if !ok {
			return nil, fmt.Errorf("unknown notification service %q", name)
		}
		targets = append(targets, Target{
			ServiceName: name,
			URL:         svc.URL,
			Message:     msg,
			Params:      svc.Params,
		})
	}
	return targets, nil
}

// Send delivers a notification to a single target via Shoutrrr.
func Send(t Target) error {
	sender, err := shoutrrr.CreateSender(t.URL)
	if err != nil {
		return fmt.Errorf("creating sender for %s: %w", t.ServiceName, err)
	}

	params := types.Params(t.Params)
	errs := sender.Send(t.Message, &params)
	for _, e := range errs {
		if e != nil {
			return fmt.Errorf("sending to %s: %w", t.ServiceName, e)
		}
	}

	return nil
}

// Validate checks that a target's service URL is well formed without
// sending anything. Used by dry runs.
func Validate(t Target) error {
	if _, err := shoutrrr.CreateSender(t.URL); err != nil {
		return fmt.Errorf("invalid service URL for %s: %w", t.ServiceName, err)
	}
	return nil
}

// ServiceDef is a configured notification service.
type ServiceDef struct {
	URL    string
	Params map[string]string
}
