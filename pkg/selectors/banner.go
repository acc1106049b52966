package selectors

import (
	"github.com/benbjohnson/immutable"
)

// Message is a banner message shown in the title bar until dismissed.
type Message struct {
	ID   string `json:"id"`
	Text string `json:"message"`
}

// QuotaExceededIncident is the notice about the March 2019 outage.
var QuotaExceededIncident = Message{
	ID:   "2019-03-10-quota-exceeded-incident",
	Text: "Oopsies! Due to unexpectedly high traffic, Samwise was briefly down on the night of March 9 for an upgrade. Sorry for any inconvenience this may have caused you!",
}

// Messages is the catalog of every banner message ever sent.
var Messages = []Message{QuotaExceededIncident}

// ActiveMessages are the messages currently eligible for display, latest
// first. None is active.
var ActiveMessages []Message

func findMessage(msgs []Message, status *immutable.Map[string, bool]) *Message {
	for _, m := range msgs {
		if dismissed, _ := status.Get(m.ID); !dismissed {
			return &m
		}
	}
	return nil
}
