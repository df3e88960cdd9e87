package cli

import (
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/owzim/blick/internal/asset"
	"github.com/owzim/blick/internal/config"
	"github.com/owzim/blick/internal/imaging"
	"github.com/owzim/blick/internal/ledger"
	"github.com/owzim/blick/internal/metrics"
	"github.com/owzim/blick/internal/storage"
	"github.com/owzim/blick/internal/strfmt"
)

// session wires the configuration, filesystem and resolvers of one command.
type session struct {
	conf       *config.Config
	fs         storage.FileSystem
	logger     *zap.Logger
	registry   *prometheus.Registry
	factory    *asset.Factory
	images     *imaging.Resolver
	ledgerPath string
}

func newSession(g *globalFlags) (*session, error) {
	return openSession(g.configPath, g.verbose, storage.OSFileSystem{}, nil)
}

// openSession is the testable core of newSession. The site root defaults to
// the directory holding the configuration file; a nil resizer uses the
// default one.
func openSession(configPath string, verbose bool, fsys storage.FileSystem, resizer imaging.Resizer) (*session, error) {
	rootDir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("resolving site root: %w", err)
	}

	conf, err := config.Load(configPath, config.SiteRoots{Path: filepath.ToSlash(rootDir), URL: "/"})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := zap.NewNop()
	if verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg))

	return &session{
		conf:     conf,
		fs:       fsys,
		logger:   logger,
		registry: reg,
		factory:  asset.NewFactory(fsys, conf.Root, asset.WithLogger(logger), asset.WithMetrics(m)),
		images: imaging.NewResolver(fsys, resizer, imaging.Config{
			Logger:       logger,
			Metrics:      m,
			SizerOptions: conf.ImageSizerOptions,
		}),
		ledgerPath: filepath.Join(filepath.Dir(configPath), ledger.DefaultLedgerFile),
	}, nil
}

// asset resolves ref through the session's cache.
func (s *session) asset(t config.AssetType, ref string, args strfmt.Values) *asset.Asset {
	return s.factory.Get(ref, t, s.conf.For(t), args, false)
}

// recordVariant adds a freshly generated variant to the ledger.
func (s *session) recordVariant(v imaging.Variant) error {
	if !v.Generated {
		return nil
	}

	l, err := ledger.Load(s.fs, s.ledgerPath)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	_, mtime := s.fs.Stat(v.Source)
	content, err := s.fs.ReadFile(v.Path())
	if err != nil {
		return fmt.Errorf("reading variant: %w", err)
	}
	l.Record(v.Path(), v.Source, mtime, v.Width, v.Height, content)

	if err := l.Save(s.fs, s.ledgerPath); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	s.logger.Debug("recorded variant", zap.String("variant", v.Path()), zap.String("ledger", s.ledgerPath))
	return nil
}

// close logs the collected counters and flushes the logger.
func (s *session) close() {
	if families, err := s.registry.Gather(); err == nil {
		for _, f := range families {
			for _, m := range f.GetMetric() {
				fields := []zap.Field{zap.Float64("value", m.GetCounter().GetValue())}
				for _, l := range m.GetLabel() {
					fields = append(fields, zap.String(l.GetName(), l.GetValue()))
				}
				s.logger.Debug(f.GetName(), fields...)
			}
		}
	}
	_ = s.logger.Sync()
}
