// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves paperdesk settings from flags, environment,
// .env files, the config file and the .secrets directory into a
// types.Config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paperdesk/pkg/types"
)

// EnvPrefix prefixes every environment variable, e.g. PAPERDESK_NOTES_DIR.
const EnvPrefix = "PAPERDESK"

// Setting keys, shared by the config file, environment and flags.
const (
	KeyRoot              = "root"
	KeyNotesDir          = "notes_dir"
	KeyPDFDir            = "pdf_dir"
	KeyBibFile           = "bib_file"
	KeyTemplateFile      = "template_file"
	KeySaveBibTeX        = "save_bibtex"
	KeyOpenPDF           = "open_pdf"
	KeySeparator         = "separator"
	KeyUserAgent         = "user_agent"
	KeyTimeout           = "timeout"
	KeyRequestsPerSecond = "requests_per_second"
	KeyS2APIKey          = "semantic_scholar_api_key"
	KeyMaxResults        = "max_results"
	KeyDebounce          = "debounce"
	KeyLogLevel          = "log_level"
)

// SecretS2APIKey is the .secrets file holding the Semantic Scholar key.
const SecretS2APIKey = "semantic-scholar-api-key"

const (
	defaultUserAgent         = "paperdesk/0.1"
	defaultTimeout           = 60 * time.Second
	defaultRequestsPerSecond = 1.0
	defaultMaxResults        = 20
	defaultDebounce          = 500 * time.Millisecond
	defaultLogLevel          = "info"
)

// SetDefaults registers default values and environment lookup on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyRoot, ".")
	v.SetDefault(KeyUserAgent, defaultUserAgent)
	v.SetDefault(KeyTimeout, defaultTimeout)
	v.SetDefault(KeyRequestsPerSecond, defaultRequestsPerSecond)
	v.SetDefault(KeyMaxResults, defaultMaxResults)
	v.SetDefault(KeyDebounce, defaultDebounce)
	v.SetDefault(KeyLogLevel, defaultLogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Resolve builds a Config from v. A Semantic Scholar key missing from v
// is taken from secrets.
func Resolve(v *viper.Viper, secrets map[string]string) (types.Config, error) {
	httpCfg := types.HTTPConfig{
		Timeout:           v.GetDuration(KeyTimeout),
		UserAgent:         strings.TrimSpace(v.GetString(KeyUserAgent)),
		RequestsPerSecond: v.GetFloat64(KeyRequestsPerSecond),
	}
	if httpCfg.Timeout < 0 {
		return types.Config{}, fmt.Errorf("%s must not be negative, got %s", KeyTimeout, httpCfg.Timeout)
	}
	if httpCfg.RequestsPerSecond < 0 {
		return types.Config{}, fmt.Errorf("%s must not be negative, got %g", KeyRequestsPerSecond, httpCfg.RequestsPerSecond)
	}

	debounce := v.GetDuration(KeyDebounce)
	if debounce < 0 {
		return types.Config{}, fmt.Errorf("%s must not be negative, got %s", KeyDebounce, debounce)
	}

	apiKey := strings.TrimSpace(v.GetString(KeyS2APIKey))
	if apiKey == "" {
		apiKey = secrets[SecretS2APIKey]
	}

	maxResults := v.GetInt(KeyMaxResults)
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	return types.Config{
		Sources: types.SourceConfig{
			HTTPConfig:            httpCfg,
			SemanticScholarAPIKey: apiKey,
			MaxResults:            maxResults,
		},
		Writer: types.WriterConfig{
			LocationConfig: types.LocationConfig{
				Root:         v.GetString(KeyRoot),
				NotesDir:     strings.TrimSpace(v.GetString(KeyNotesDir)),
				PDFDir:       strings.TrimSpace(v.GetString(KeyPDFDir)),
				BibFile:      strings.TrimSpace(v.GetString(KeyBibFile)),
				TemplateFile: strings.TrimSpace(v.GetString(KeyTemplateFile)),
				Separator:    v.GetString(KeySeparator),
			},
			HTTPConfig: httpCfg,
			SaveBibTeX: v.GetBool(KeySaveBibTeX),
			OpenPDF:    v.GetBool(KeyOpenPDF),
		},
		SearchDebounce: debounce,
		LogLevel:       v.GetString(KeyLogLevel),
	}, nil
}
