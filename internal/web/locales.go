package web

import (
	"context"
	"embed"

	"github.com/livroelivro/sebo/pkg/i18n"
)

//go:embed locales/*.yaml
var localesFS embed.FS

// NewTranslator loads the embedded pt-BR and en catalogs.
func NewTranslator(ctx context.Context, opts ...i18n.Option) (*i18n.Translator, error) {
	return i18n.NewTranslator(ctx, i18n.NewFSAdapter(localesFS, "locales"), opts...)
}
