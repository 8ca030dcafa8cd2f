package config

import "strings"

// CredentialSource は API キーを探索する環境変数名です。
type CredentialSource string

const (
	SourceGeminiAPIKey CredentialSource = "GEMINI_API_KEY"
	// SourceViteAPIKey はフロントエンドのビルド設定と同じキー名を受け付けるためのものです。
	SourceViteAPIKey CredentialSource = "VITE_API_KEY"
	SourceAPIKey     CredentialSource = "API_KEY"
)

// CredentialSources は探索順に並べた全ソースを返します。
func CredentialSources() []CredentialSource {
	return []CredentialSource{SourceGeminiAPIKey, SourceViteAPIKey, SourceAPIKey}
}

// Credential は API キーの解決結果です。Present が false の場合 Value は空です。
type Credential struct {
	Value   string
	Source  CredentialSource
	Present bool
}

// LookupFunc は os.LookupEnv と同じ形の探索関数です。
type LookupFunc func(key string) (string, bool)

// ResolveCredential は CredentialSources の順に lookup し、最初に見つかった空でない値を返します。
func ResolveCredential(lookup LookupFunc) Credential {
	for _, src := range CredentialSources() {
		val, ok := lookup(string(src))
		if !ok {
			continue
		}
		if val = strings.TrimSpace(val); val != "" {
			return Credential{Value: val, Source: src, Present: true}
		}
	}
	return Credential{}
}
