package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESMailer delivers mail through Amazon SES.
type SESMailer struct {
	client *sesv2.Client
	from   string
}

// NewSESMailer constructs an SES-backed mailer.
func NewSESMailer(ctx context.Context, region, fromAddress string) (*SESMailer, error) {
	if strings.TrimSpace(fromAddress) == "" {
		return nil, fmt.Errorf("from address is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SESMailer{
		client: sesv2.NewFromConfig(cfg),
		from:   fromAddress,
	}, nil
}

// Send delivers a single message.
func (m *SESMailer) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("recipient is required")
	}

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination: &sestypes.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(msg.Subject)},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: aws.String(msg.TextBody)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send email to=%s: %w", msg.To, err)
	}
	return nil
}

var _ Mailer = (*SESMailer)(nil)
