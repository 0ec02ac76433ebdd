package testutil

import (
	"context"
	"time"

	"github.com/printstudio/docengine/internal/config"
	"github.com/printstudio/docengine/internal/domain/branding"
	"github.com/printstudio/docengine/internal/domain/template"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/render"
	"github.com/printstudio/docengine/internal/repository"
	"github.com/printstudio/docengine/internal/types"
	"github.com/printstudio/docengine/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds the repositories and the key/value store behind them
type Stores struct {
	KV           *InMemoryKVStore
	TemplateRepo template.Repository
	BrandingRepo branding.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	stores       Stores
	pubsub       *InMemoryPubSub
	logger       *logger.Logger
	config       *config.Configuration
	renderer     *render.Renderer
	now          time.Time
	pdfGenerator *MockPDFGenerator
	provider     *MockProvider
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo
	cfg.Editor.DebounceMs = 20
	s.config = cfg

	var err error
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}

	s.renderer, err = render.New(s.logger, nil)
	if err != nil {
		s.T().Fatalf("failed to create renderer: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, time.July, 15, 9, 30, 0, 0, time.UTC)
	s.setupStores()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	kv := NewInMemoryKVStore()
	s.stores = Stores{
		KV:           kv,
		TemplateRepo: repository.NewTemplateRepository(kv, nil, s.logger),
		BrandingRepo: repository.NewBrandingRepository(kv, nil, s.logger),
	}
	s.pubsub = NewInMemoryPubSub()
	s.pdfGenerator = NewMockPDFGenerator()
	s.provider = NewMockProvider()
}

func (s *BaseServiceTestSuite) clearStores() {
	if s.stores.KV != nil {
		_ = s.stores.KV.Close()
	}
	if s.pubsub != nil {
		_ = s.pubsub.Close()
	}
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetPubSub returns the recording change bus
func (s *BaseServiceTestSuite) GetPubSub() *InMemoryPubSub {
	return s.pubsub
}

// GetRenderer returns the shared block renderer
func (s *BaseServiceTestSuite) GetRenderer() *render.Renderer {
	return s.renderer
}

// GetPDFGenerator returns the mocked PDF service
func (s *BaseServiceTestSuite) GetPDFGenerator() *MockPDFGenerator {
	return s.pdfGenerator
}

// GetProvider returns the mocked document provider
func (s *BaseServiceTestSuite) GetProvider() *MockProvider {
	return s.provider
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// Clock returns a clock pinned to the test time
func (s *BaseServiceTestSuite) Clock() func() time.Time {
	return func() time.Time { return s.now }
}

// Advance moves the test clock forward
func (s *BaseServiceTestSuite) Advance(d time.Duration) {
	s.now = s.now.Add(d)
}
