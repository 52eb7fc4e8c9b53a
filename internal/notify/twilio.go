package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/arogyacare/appointment-api/pkg/logging"
)

// messageCreator is the slice of the Twilio REST client we use; tests inject
// a fake.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioWhatsAppSender delivers confirmations over the Twilio WhatsApp
// channel.
type TwilioWhatsAppSender struct {
	api     messageCreator
	from    string
	timeout time.Duration
	logger  *logging.Logger
}

// NewTwilioWhatsAppSender builds a sender from account credentials. from is
// the Twilio WhatsApp-enabled number (without the whatsapp: prefix).
func NewTwilioWhatsAppSender(accountSID, authToken, from string, timeout time.Duration, logger *logging.Logger) *TwilioWhatsAppSender {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioWhatsAppSender{api: client.Api, from: from, timeout: timeout, logger: logger}
}

// newTwilioSenderWithAPI injects a fake API for tests.
func newTwilioSenderWithAPI(api messageCreator, from string, logger *logging.Logger) *TwilioWhatsAppSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &TwilioWhatsAppSender{api: api, from: from, timeout: 5 * time.Second, logger: logger}
}

// SendAppointmentConfirmation sends the confirmation text to the patient's
// WhatsApp number.
func (s *TwilioWhatsAppSender) SendAppointmentConfirmation(ctx context.Context, to, doctorName string, at time.Time) error {
	if to == "" {
		return fmt.Errorf("notify: recipient phone required")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo("whatsapp:" + to)
	params.SetFrom("whatsapp:" + s.from)
	params.SetBody(FormatConfirmation(doctorName, at))

	// The Twilio client has no context plumbing; bound the call ourselves so
	// a slow gateway cannot stall the calling workflow.
	type result struct {
		sid string
		err error
	}
	done := make(chan result, 1)
	go func() {
		msg, err := s.api.CreateMessage(params)
		var sid string
		if msg != nil && msg.Sid != nil {
			sid = *msg.Sid
		}
		done <- result{sid: sid, err: err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("notify: send cancelled: %w", ctx.Err())
	case <-timer.C:
		return fmt.Errorf("notify: twilio send timed out after %s", s.timeout)
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("notify: twilio send: %w", res.err)
		}
		s.logger.Info("whatsapp message sent", "sid", res.sid, "to", to)
		return nil
	}
}
