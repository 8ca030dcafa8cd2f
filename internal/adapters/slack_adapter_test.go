package adapters

import (
	"context"
	"errors"
	"testing"

	"post-tools-web/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackAdapterWithoutWebhookSkips(t *testing.T) {
	a, err := NewSlackAdapter(nil, "")
	require.NoError(t, err)

	req := domain.NotificationRequest{Headline: "h", OutputCategory: CategoryImageApproved}
	assert.NoError(t, a.Notify(context.Background(), req))
	assert.NoError(t, a.NotifyError(context.Background(), errors.New("boom"), req))
}

func TestBuildSlackContent(t *testing.T) {
	a := &SlackAdapter{}
	content := a.buildSlackContent(domain.NotificationRequest{
		Headline:  "Stretch Smarter",
		Format:    "Carousel",
		MediaType: "image/png",
	})

	assert.Contains(t, content, "`Stretch Smarter`")
	assert.Contains(t, content, "`Carousel`")
	assert.Contains(t, content, "`N/A`")
	assert.Contains(t, content, "image/png")
}
