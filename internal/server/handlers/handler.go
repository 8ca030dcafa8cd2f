package handlers

import (
	"fmt"
	"html/template"
	"path/filepath"

	"post-tools-web/internal/config"
	"post-tools-web/internal/pipeline"

	"github.com/spf13/afero"
)

const (
	titleSuffix  = " - POST Tools"
	layoutPage   = "layout.html"
	templateGlob = "*.html"
)

type Handler struct {
	cfg           *config.Config
	templateCache map[string]*template.Template
	sessions      *SessionManager
	pipeline      pipeline.Pipeline
}

// NewHandler は指定された構成に基づいて新しいハンドラーを初期化します。
// fsys の TemplateDir からテンプレートをコンパイルし、レイアウトファイルが存在することを確認します。
func NewHandler(
	cfg *config.Config,
	fsys afero.Fs,
	sessions *SessionManager,
	p pipeline.Pipeline,
) (*Handler, error) {
	cache, err := loadTemplates(fsys, cfg.TemplateDir)
	if err != nil {
		return nil, err
	}

	return &Handler{
		cfg:           cfg,
		templateCache: cache,
		sessions:      sessions,
		pipeline:      p,
	}, nil
}

func loadTemplates(fsys afero.Fs, dir string) (map[string]*template.Template, error) {
	layoutPath := filepath.Join(dir, layoutPage)
	layout, err := afero.ReadFile(fsys, layoutPath)
	if err != nil {
		return nil, fmt.Errorf("レイアウトテンプレートが見つかりません: %s: %w", layoutPath, err)
	}

	pagePaths, err := afero.Glob(fsys, filepath.Join(dir, templateGlob))
	if err != nil {
		return nil, fmt.Errorf("ページテンプレートの検索に失敗しました: %w", err)
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}

	cache := make(map[string]*template.Template)
	for _, pagePath := range pagePaths {
		pageName := filepath.Base(pagePath)
		if pageName == layoutPage {
			continue
		}

		page, err := afero.ReadFile(fsys, pagePath)
		if err != nil {
			return nil, fmt.Errorf("テンプレート %s の読み込みに失敗しました: %w", pageName, err)
		}

		tmpl, err := template.New(layoutPage).Funcs(funcMap).Parse(string(layout))
		if err != nil {
			return nil, fmt.Errorf("レイアウトテンプレートの解析に失敗しました: %w", err)
		}
		if _, err := tmpl.New(pageName).Parse(string(page)); err != nil {
			return nil, fmt.Errorf("テンプレート %s の解析に失敗しました: %w", pageName, err)
		}
		cache[pageName] = tmpl
	}

	if len(cache) == 0 {
		return nil, fmt.Errorf("ページテンプレートがありません: %s", dir)
	}
	return cache, nil
}
