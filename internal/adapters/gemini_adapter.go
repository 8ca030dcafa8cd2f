package adapters

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"post-tools-web/internal/config"
	"post-tools-web/internal/domain"

	"google.golang.org/genai"
)

// GenerativeModel は genai.Models のうち、このアプリが使用する呼び出しだけを切り出したインターフェースです。
type GenerativeModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ModelProvider は資格情報を解決済みの GenerativeModel を返します。
// 資格情報が無い場合はネットワークに触れる前に domain.ErrConfiguration を返します。
type ModelProvider interface {
	Model(ctx context.Context) (GenerativeModel, error)
}

// GeminiAdapter は Gemini API クライアントを遅延初期化して保持する ModelProvider の実装です。
type GeminiAdapter struct {
	credential config.Credential
	httpClient *http.Client

	mu     sync.Mutex
	models GenerativeModel
}

// NewGeminiAdapter は資格情報と HTTP クライアントを受け取ってアダプターを生成します。
// クライアントは初回の Model 呼び出しで作成されます。
func NewGeminiAdapter(credential config.Credential, httpClient *http.Client) *GeminiAdapter {
	return &GeminiAdapter{
		credential: credential,
		httpClient: httpClient,
	}
}

// Model は genai クライアントの Models サービスを返します。
func (a *GeminiAdapter) Model(ctx context.Context) (GenerativeModel, error) {
	if !a.credential.Present {
		return nil, fmt.Errorf("%w: API key not found, set one of %s", domain.ErrConfiguration, credentialSourceList())
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.models != nil {
		return a.models, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     a.credential.Value,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: a.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %w", domain.ErrUpstream, err)
	}

	a.models = client.Models
	return a.models, nil
}

func credentialSourceList() string {
	sources := config.CredentialSources()
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = string(s)
	}
	return strings.Join(names, " or ")
}
