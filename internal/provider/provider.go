package provider

import (
	"github.com/printstudio/docengine/internal/config"
	"github.com/printstudio/docengine/internal/domain/document"
	"github.com/printstudio/docengine/internal/httpclient"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/types"
)

// NewProvider returns the document provider selected by configuration
func NewProvider(cfg *config.Configuration, logger *logger.Logger) document.Provider {
	switch cfg.Provider.Kind {
	case types.ProviderKindHTTP:
		client := httpclient.NewClient(httpclient.ClientConfig{
			Timeout:  cfg.Provider.ProviderTimeout(),
			RetryMax: cfg.Provider.RetryMax,
		}, logger)
		logger.Infow("using http document provider", "base_url", cfg.Provider.BaseURL)
		return NewHTTPProvider(cfg.Provider, client, logger)
	default:
		logger.Infow("using sample document provider", "items", cfg.Provider.SampleItems)
		return NewSampleProvider(WithItemCount(cfg.Provider.SampleItems))
	}
}
