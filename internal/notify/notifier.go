// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/devtavares97/baiane-lp/internal/common/config"
	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
	"github.com/devtavares97/baiane-lp/internal/common/logger"
	"github.com/devtavares97/baiane-lp/internal/common/metrics"
	"github.com/devtavares97/baiane-lp/internal/growthscan"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier tells the agency about each saved lead. Email goes out for
// every lead when enabled; SMS only when the maturity score crosses the
// hot-lead threshold. Send failures are logged and counted, never
// propagated.
type Notifier struct {
	cfg              config.NotificationConfig
	hotLeadThreshold int
	sesClient        SESService
	snsClient        SNSService
	logger           logger.Logger
}

func NewNotifier(cfg config.NotificationConfig, hotLeadThreshold int, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		cfg:              cfg,
		hotLeadThreshold: hotLeadThreshold,
		sesClient:        sesClient,
		snsClient:        snsClient,
		logger:           log.WithFields(map[string]interface{}{"component": "lead-notifier"}),
	}
}

// NotifyLead sends the configured channels for one lead.
func (n *Notifier) NotifyLead(ctx context.Context, lead growthscan.Lead) {
	if n.cfg.Email.Enabled && n.sesClient != nil {
		if err := n.sendEmail(ctx, lead); err != nil {
			metrics.NotificationsSent.WithLabelValues("email", "failed").Inc()
			n.logger.Error("lead email send failed", map[string]interface{}{
				"contactEmail": lead.ContactEmail,
				"error":        err.Error(),
			})
		} else {
			metrics.NotificationsSent.WithLabelValues("email", "sent").Inc()
		}
	}

	if n.cfg.SMS.Enabled && n.snsClient != nil && lead.MaturityScore >= n.hotLeadThreshold {
		if err := n.sendSMS(ctx, lead); err != nil {
			metrics.NotificationsSent.WithLabelValues("sms", "failed").Inc()
			n.logger.Error("hot lead SMS send failed", map[string]interface{}{
				"contactEmail": lead.ContactEmail,
				"score":        lead.MaturityScore,
				"error":        err.Error(),
			})
		} else {
			metrics.NotificationsSent.WithLabelValues("sms", "sent").Inc()
		}
	}
}

func (n *Notifier) sendEmail(ctx context.Context, lead growthscan.Lead) error {
	subject := fmt.Sprintf("Novo lead: %s (%d pontos)", lead.ContactName, lead.MaturityScore)
	body := leadEmailBody(lead)

	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{n.cfg.Email.ToEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.cfg.Email.FromEmail),
	})
	if err != nil {
		return stderrors.NewNotificationSendFailedError("email", err)
	}
	return nil
}

func (n *Notifier) sendSMS(ctx context.Context, lead growthscan.Lead) error {
	message := fmt.Sprintf("Lead quente: %s (%s), %d pontos, %s",
		lead.ContactName, lead.ContactEmail, lead.MaturityScore, lead.ResultArchetype)

	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(n.cfg.SMS.PhoneNumber),
		Message:     aws.String(message),
	})
	if err != nil {
		return stderrors.NewNotificationSendFailedError("sms", err)
	}
	return nil
}

func leadEmailBody(lead growthscan.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Novo diagnóstico concluído.\n\n")
	fmt.Fprintf(&b, "Nome: %s\n", lead.ContactName)
	fmt.Fprintf(&b, "Email: %s\n", lead.ContactEmail)
	if lead.ContactWhatsApp != "" {
		fmt.Fprintf(&b, "WhatsApp: %s\n", lead.ContactWhatsApp)
	}
	fmt.Fprintf(&b, "\nFaturamento: %s\n", lead.RevenueTier)
	fmt.Fprintf(&b, "Principal dor: %s\n", lead.MainPain)
	if lead.TeamStructure != "" {
		fmt.Fprintf(&b, "Estrutura de time: %s\n", lead.TeamStructure)
	}
	fmt.Fprintf(&b, "\nPontuação: %d\n", lead.MaturityScore)
	fmt.Fprintf(&b, "Arquétipo: %s\n", lead.ResultArchetype)
	return b.String()
}
