package repository

import (
	"context"

	"NoChurn/internal/domain/models"
	domrepo "NoChurn/internal/domain/repository"
	xhttp "NoChurn/pkg/http"
)

// WebhookNotifier posts alert batches to the CRM webhook.
type WebhookNotifier struct {
	client *xhttp.Client
	url    string
}

// NewWebhookNotifier creates the notifier.
func NewWebhookNotifier(client *xhttp.Client, url string) *WebhookNotifier {
	return &WebhookNotifier{client: client, url: url}
}

func (n *WebhookNotifier) Notify(ctx context.Context, events []*models.AlertEvent) error {
	if len(events) == 0 {
		return nil
	}
	payload := map[string]interface{}{
		"source": "nochurn",
		"alerts": events,
	}
	return n.client.PostJSON(ctx, n.url, payload, nil)
}

var _ domrepo.Notifier = (*WebhookNotifier)(nil)
