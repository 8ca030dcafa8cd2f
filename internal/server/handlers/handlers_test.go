package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"post-tools-web/internal/config"
	"post-tools-web/internal/domain"
	"post-tools-web/internal/pipeline"
	"post-tools-web/internal/studio"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPipeline struct {
	pipeline.Pipeline
	pkg    *domain.ContentPackage
	img    *domain.GeneratedImage
	err    error
	inputs []domain.UserInput
}

func (s *stubPipeline) GenerateContentPackage(ctx context.Context, in domain.UserInput) (*domain.ContentPackage, error) {
	s.inputs = append(s.inputs, in)
	return s.pkg, s.err
}

func (s *stubPipeline) GenerateVisual(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
	return s.img, s.err
}

func TestLoadTemplates(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "tpl/layout.html", []byte(`<title>{{.Title}}</title>{{template "content" .Data}}`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "tpl/index.html", []byte(`{{define "content"}}n={{add 1 2}}{{end}}`), 0o644))

	cache, err := loadTemplates(fsys, "tpl")
	require.NoError(t, err)
	require.Contains(t, cache, "index.html")
	assert.NotContains(t, cache, "layout.html")

	h := &Handler{templateCache: cache}
	rec := httptest.NewRecorder()
	h.render(rec, http.StatusOK, "index.html", "Home", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<title>Home - POST Tools</title>n=3", rec.Body.String())

	rec = httptest.NewRecorder()
	h.render(rec, http.StatusOK, "missing.html", "Home", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLoadTemplatesRequiresLayout(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "tpl/index.html", []byte(`{{define "content"}}{{end}}`), 0o644))

	_, err := loadTemplates(fsys, "tpl")
	assert.ErrorContains(t, err, "layout.html")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: niche is required", domain.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: file is empty", domain.ErrUnreadableImage), http.StatusBadRequest},
		{fmt.Errorf("%w: edit from idle", domain.ErrInvalidTransition), http.StatusConflict},
		{studio.ErrInProgress, http.StatusConflict},
		{fmt.Errorf("%w: API key not found", domain.ErrConfiguration), http.StatusServiceUnavailable},
		{fmt.Errorf("%w: missing headline", domain.ErrParse), http.StatusBadGateway},
		{fmt.Errorf("%w: please try again", domain.ErrNoImage), http.StatusBadGateway},
		{fmt.Errorf("%w: boom", domain.ErrUpstream), http.StatusBadGateway},
		{fmt.Errorf("something else"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestDownloadFilename(t *testing.T) {
	now := time.UnixMilli(1718000000123)
	assert.Equal(t, "post-tools-1718000000123.png", downloadFilename(now, "image/png"))
	assert.Equal(t, "post-tools-1718000000123.jpg", downloadFilename(now, "image/jpeg"))
	assert.Equal(t, "post-tools-1718000000123.webp", downloadFilename(now, "image/webp"))
	assert.Regexp(t, regexp.MustCompile(`^post-tools-\d+\.png$`), downloadFilename(time.Now(), "application/x-unknown"))
}

func TestAPIContent(t *testing.T) {
	stub := &stubPipeline{pkg: &domain.ContentPackage{Headline: "Wake Up Your Body", CTA: "Save", ImagePrompt: "p"}}
	api := NewAPIHandler(stub)

	body := `{"niche":"Fitness","format":"Carousel","topic":"5 morning stretches","style":"minimal"}`
	rec := httptest.NewRecorder()
	api.Content(rec, httptest.NewRequest(http.MethodPost, "/api/content", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.ContentPackage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Wake Up Your Body", got.Headline)
	require.Len(t, stub.inputs, 1)
	assert.Equal(t, "minimal", stub.inputs[0].Style)
	assert.False(t, stub.inputs[0].HasImage())
}

func TestAPIContentErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		stubErr  error
		wantCode int
	}{
		{name: "malformed json", body: `{"niche":`, wantCode: http.StatusBadRequest},
		{name: "unknown field", body: `{"nich":"x"}`, wantCode: http.StatusBadRequest},
		{name: "missing niche", body: `{"format":"Carousel","topic":"x"}`, wantCode: http.StatusBadRequest},
		{name: "image is not an image", body: `{"niche":"a","format":"Story","topic":"b","image":"aGVsbG8="}`, wantCode: http.StatusBadRequest},
		{name: "no credential", body: `{"niche":"a","format":"Story","topic":"b"}`, stubErr: fmt.Errorf("%w: API key not found", domain.ErrConfiguration), wantCode: http.StatusServiceUnavailable},
		{name: "unparseable response", body: `{"niche":"a","format":"Story","topic":"b"}`, stubErr: fmt.Errorf("%w: bad json", domain.ErrParse), wantCode: http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := NewAPIHandler(&stubPipeline{err: tt.stubErr})
			rec := httptest.NewRecorder()
			api.Content(rec, httptest.NewRequest(http.MethodPost, "/api/content", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestAPIImage(t *testing.T) {
	stub := &stubPipeline{img: &domain.GeneratedImage{Data: []byte{1, 2, 3}, MIMEType: "image/png"}}
	api := NewAPIHandler(stub)

	rec := httptest.NewRecorder()
	api.Image(rec, httptest.NewRequest(http.MethodPost, "/api/image", bytes.NewBufferString(`{"prompt":"a cat"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp imageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "image/png", resp.MIMEType)
	assert.Equal(t, []byte{1, 2, 3}, resp.Data)

	stub.err = fmt.Errorf("%w: please try again", domain.ErrNoImage)
	rec = httptest.NewRecorder()
	api.Image(rec, httptest.NewRequest(http.MethodPost, "/api/image", bytes.NewBufferString(`{"prompt":"a cat"}`)))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSessionManagerReusesWorkspace(t *testing.T) {
	store := studio.NewStore(time.Hour)
	m, err := NewSessionManager(SessionConfig{MaxAge: time.Hour}, store)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	first, _, err := m.Workspace(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	second, _, err := m.Workspace(rec, req)
	require.NoError(t, err)
	assert.Same(t, first, second)

	// 後続リクエストでも Cookie の有効期限を延長する
	refreshed := rec.Result().Cookies()
	require.Len(t, refreshed, 1)
	assert.Equal(t, sessionName, refreshed[0].Name)
	assert.Equal(t, 3600, refreshed[0].MaxAge)

	store.Delete(first.ID)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	third, _, err := m.Workspace(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestNewHandlerUsesTemplateDir(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/srv/templates/layout.html", []byte(`{{template "content" .Data}}`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/srv/templates/index.html", []byte(`{{define "content"}}{{.Tab}}{{end}}`), 0o644))

	cfg := &config.Config{TemplateDir: "/srv/templates"}
	m, err := NewSessionManager(SessionConfig{MaxAge: time.Hour}, studio.NewStore(time.Hour))
	require.NoError(t, err)

	h, err := NewHandler(cfg, fsys, m, &stubPipeline{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/?tab=design", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "design", rec.Body.String())
}

func TestUploadReferenceStopsSlowBody(t *testing.T) {
	store := studio.NewStore(time.Hour)
	m, err := NewSessionManager(SessionConfig{MaxAge: time.Hour}, store)
	require.NoError(t, err)
	h := &Handler{cfg: &config.Config{ImageReadTimeout: 100 * time.Millisecond}, sessions: m}

	srv := httptest.NewServer(http.HandlerFunc(h.UploadReference))
	t.Cleanup(srv.Close)

	// 画像の先頭だけ送って止まるクライアント
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	mw := multipart.NewWriter(pw)
	go func() {
		fw, err := mw.CreateFormFile("image", "slow.png")
		if err != nil {
			return
		}
		_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\n"))
	}()

	req, err := http.NewRequest(http.MethodPost, srv.URL, pr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	client := &http.Client{
		Timeout: 5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	start := time.Now()
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Less(t, time.Since(start), 2*time.Second)

	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)
	preview := httptest.NewRequest(http.MethodGet, "/reference/preview", nil)
	preview.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	h.ReferencePreview(rec, preview)
	assert.Equal(t, http.StatusNotFound, rec.Code, "a timed out upload leaves no reference")
	assert.Equal(t, 1, store.Len())
}
