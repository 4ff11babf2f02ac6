package twilio

import (
	"context"
	"fmt"

	"fivestars-server/internal/observability"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// SendResult carries the provider's acceptance status for one message. Status
// values follow Twilio's vocabulary: queued, sending, sent, delivered on the
// success side; undelivered, failed on the failure side.
type SendResult struct {
	Success           bool
	ProviderMessageID string
	Status            string
	Error             string
}

type Client struct {
	client     *twilio.RestClient
	fromNumber string
	logger     *observability.Logger
}

func NewClient(accountSID, authToken, fromNumber string, logger *observability.Logger) *Client {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &Client{
		client:     client,
		fromNumber: fromNumber,
		logger:     logger,
	}
}

// SendSMS submits one message and reports the provider's initial status. A
// transport or API error is returned in the result, not as an error value;
// the caller treats any failure as permanent since there is no retry queue.
func (c *Client) SendSMS(ctx context.Context, to, body string) SendResult {
	ctx = observability.WithFields(ctx, observability.Field{Key: "sms_to", Value: to})

	params := &api.CreateMessageParams{}
	params.SetBody(body)
	params.SetFrom(c.fromNumber)
	params.SetTo(to)

	resp, err := c.client.Api.CreateMessage(params)
	if err != nil {
		c.logger.Error(ctx, "twilio create message failed", err)
		return SendResult{Error: err.Error()}
	}

	result := SendResult{Success: true}
	if resp.Sid != nil {
		result.ProviderMessageID = *resp.Sid
	}
	if resp.Status != nil {
		result.Status = *resp.Status
	}
	if resp.ErrorMessage != nil && *resp.ErrorMessage != "" {
		result.Success = false
		result.Error = *resp.ErrorMessage
		c.logger.WarnWithError(ctx, "twilio reported message error", fmt.Errorf("%s", *resp.ErrorMessage))
		return result
	}

	c.logger.Info(ctx, "sms submitted",
		observability.Field{Key: "sid", Value: result.ProviderMessageID},
		observability.Field{Key: "status", Value: result.Status},
	)
	return result
}
