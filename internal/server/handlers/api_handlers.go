package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"post-tools-web/internal/domain"
	"post-tools-web/internal/pipeline"
)

const maxAPIBody = domain.MaxImageBytes*2 + multipartOverhead

// APIHandler は2つの生成器をワークスペースを介さずに公開します。
type APIHandler struct {
	pipeline pipeline.Pipeline
}

func NewAPIHandler(p pipeline.Pipeline) *APIHandler {
	return &APIHandler{pipeline: p}
}

type contentRequest struct {
	Niche  string `json:"niche"`
	Format string `json:"format"`
	Topic  string `json:"topic"`
	Style  string `json:"style"`
	// Image は base64 でエンコードされた参照画像です。
	Image     []byte `json:"image,omitempty"`
	ImageType string `json:"image_mime_type,omitempty"`
}

type imageRequest struct {
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// Content はコンテンツパッケージを JSON で返します。
func (a *APIHandler) Content(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, r, err)
		return
	}

	var img *domain.InlineImage
	if len(req.Image) > 0 {
		var err error
		img, err = domain.ReadInlineImage(r.Context(), bytes.NewReader(req.Image), req.ImageType)
		if err != nil {
			writeJSONError(w, r, err)
			return
		}
	}

	in, err := domain.NewUserInput(req.Niche, req.Format, req.Topic, req.Style, img)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	pkg, err := a.pipeline.GenerateContentPackage(r.Context(), in)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

// Image は prompt から画像を1枚生成し、base64 の JSON で返します。
func (a *APIHandler) Image(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, r, err)
		return
	}

	img, err := a.pipeline.GenerateVisual(r.Context(), req.Prompt)
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, imageResponse{MIMEType: img.MIMEType, Data: img.Data})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAPIBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %w", domain.ErrInvalidInput, err)
	}
	return nil
}
