package enrich

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleTranslator implements Translator on the Google Cloud Translation
// v2 API.
type GoogleTranslator struct {
	client *translate.Client
}

// NewGoogleTranslator builds a client. credentialsFile may be empty, in
// which case application default credentials apply.
func NewGoogleTranslator(ctx context.Context, credentialsFile string) (*GoogleTranslator, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init translate client: %w", err)
	}
	return &GoogleTranslator{client: client}, nil
}

// DetectLanguage returns the detected language code for text.
func (g *GoogleTranslator) DetectLanguage(ctx context.Context, text string) (string, error) {
	detections, err := g.client.DetectLanguage(ctx, []string{text})
	if err != nil {
		return "", fmt.Errorf("detect language: %w", err)
	}
	if len(detections) == 0 || len(detections[0]) == 0 {
		return "", errors.New("no language detected")
	}
	return detections[0][0].Language.String(), nil
}

// Translate converts text from sourceLang to targetLang. Supplying the
// detected source language improves accuracy over auto-detection.
func (g *GoogleTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	target, err := language.Parse(targetLang)
	if err != nil {
		return "", fmt.Errorf("parse target language %q: %w", targetLang, err)
	}
	opts := &translate.Options{}
	if sourceLang != "" {
		if source, perr := language.Parse(sourceLang); perr == nil {
			opts.Source = source
		}
	}
	translations, err := g.client.Translate(ctx, []string{text}, target, opts)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	if len(translations) == 0 {
		return "", errors.New("empty translation response")
	}
	return translations[0].Text, nil
}

// Close releases the underlying client.
func (g *GoogleTranslator) Close() error {
	return g.client.Close()
}
