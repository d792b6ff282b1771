package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"taxextract/internal/domain"
	"taxextract/internal/notify"
	"taxextract/internal/port"
)

// EmailAPI is the subset of the SES v2 client used by the notifier.
type EmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesNotifier struct {
	client      EmailAPI
	fromAddress string
	fromName    string
	recipients  []string
}

// NewSESNotifier creates an SES-backed Notifier mailing every recipient.
func NewSESNotifier(region, fromAddress, fromName string, recipients []string) (port.Notifier, error) {
	if len(recipients) == 0 {
		return nil, fmt.Errorf("ses notifier: at least one recipient is required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return NewWithClient(sesv2.NewFromConfig(cfg), fromAddress, fromName, recipients), nil
}

// NewWithClient creates a Notifier over an existing SES client.
func NewWithClient(client EmailAPI, fromAddress, fromName string, recipients []string) port.Notifier {
	return &sesNotifier{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		recipients:  recipients,
	}
}

func (s *sesNotifier) NotifyJobFinished(ctx context.Context, job *domain.ExtractionJob) error {
	msg := notify.JobFinished(job)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: s.recipients,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &msg.Subject},
				Body: &types.Body{
					Html: &types.Content{Data: &msg.HTML},
					Text: &types.Content{Data: &msg.Text},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}
