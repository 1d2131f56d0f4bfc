// Package notify delivers one-time codes to users by SMS.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/rs/zerolog"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/config"
)

type Sender interface {
	Send(ctx context.Context, phone string, message string) error
}

type publisher interface {
	Publish(ctx context.Context, in *sns.PublishInput, opts ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSSender struct {
	client   publisher
	senderID string
}

func NewSNSSender(ctx context.Context, cfg config.SMSConfig) (*SNSSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SNSSender{client: sns.NewFromConfig(awsCfg), senderID: cfg.SenderID}, nil
}

func (s *SNSSender) Send(ctx context.Context, phone string, message string) error {
	attrs := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
	}
	if s.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(s.senderID),
		}
	}

	if _, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(phone),
		Message:           aws.String(message),
		MessageAttributes: attrs,
	}); err != nil {
		return fmt.Errorf("publish sms: %w", err)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them. Used when SMS
// delivery is disabled.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, phone string, message string) error {
	s.logger.Info().Str("phone", phone).Str("message", message).Msg("sms delivery disabled")
	return nil
}

// OTPMessage fills the code and the validity in whole minutes into template.
func OTPMessage(template string, code string, validity time.Duration) string {
	if !strings.Contains(template, "%s") {
		return code
	}
	minutes := int(validity / time.Minute)
	if strings.Contains(template, "%d") {
		return fmt.Sprintf(template, code, minutes)
	}
	return fmt.Sprintf(template, code)
}
