// Package orchestrator drives the full per-pair pipeline (C12): listing
// changed files, materializing old/new blobs to disk for clone detection,
// parsing patches into hunks, and handing everything to the aggregator to
// build the result tree's TreeEntryContributions.
package orchestrator

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mrshoenel/git-density/internal/aggregate"
	"github.com/mrshoenel/git-density/internal/clone"
	"github.com/mrshoenel/git-density/internal/clonerunner"
	"github.com/mrshoenel/git-density/internal/patch"
	"github.com/mrshoenel/git-density/internal/pool"
	"github.com/mrshoenel/git-density/internal/tmpwriter"
	"github.com/mrshoenel/git-density/internal/vcs"
	"github.com/mrshoenel/git-density/pkg/config"
	"github.com/mrshoenel/git-density/pkg/models"
	"github.com/mrshoenel/git-density/pkg/source"
)

// Orchestrator drives C12 over a set of commit pairs.
type Orchestrator struct {
	repo     vcs.Repository
	cfg      *config.Config
	writer   *tmpwriter.Writer
	cloneCfg clonerunner.Config
	logger   *logrus.Logger
}

// New creates an Orchestrator bound to repo and cfg.
func New(repo vcs.Repository, cfg *config.Config, logger *logrus.Logger) *Orchestrator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Orchestrator{
		repo:   repo,
		cfg:    cfg,
		writer: tmpwriter.New(cfg.TempDir),
		cloneCfg: clonerunner.Config{
			Binary: cfg.CloneDetector.BinaryPath,
			Args:   cfg.CloneDetector.Args,
		},
		logger: logger,
	}
}

// Run processes every pair, honoring ExecutionPolicy for its parallel
// section, and returns one CommitPairResult per pair that did not fail at
// the whole-pair level. Cancellation is checked before each pair.
func (o *Orchestrator) Run(ctx context.Context, pairs []*models.CommitPair) ([]*models.CommitPairResult, error) {
	measurements, err := o.cfg.EnabledMeasurements()
	if err != nil {
		return nil, err
	}
	// EnabledMeasurements always prepends None; aggregate re-adds it, so
	// strip it here to avoid passing it twice.
	enabled := measurements[1:]

	maxParallel := pool.MaxParallelism(o.cfg.ExecutionPolicy == config.Linear, len(pairs))

	results, itemErrs := pool.Map(ctx, pairs, maxParallel, func(ctx context.Context, p *models.CommitPair) (*models.CommitPairResult, error) {
		return o.processPair(ctx, p, enabled)
	})

	for _, ie := range itemErrs {
		o.logger.WithFields(logrus.Fields{"pair": ie.Item.ID, "error": ie.Err}).Warn("skipping pair")
	}

	out := make([]*models.CommitPairResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (o *Orchestrator) processPair(ctx context.Context, p *models.CommitPair, enabled []models.MeasurementType) (*models.CommitPairResult, error) {
	defer p.Release()

	select {
	case <-ctx.Done():
		return nil, models.NewError(models.Cancelled, "processPair", ctx.Err()).WithPair(p.ID)
	default:
	}

	changes, err := p.TreeChanges()
	if err != nil {
		return nil, err
	}

	relevant := make([]vcs.TreeEntryChange, 0, len(changes))
	for _, c := range changes {
		if !isAnalyzableKind(c.Kind) {
			continue
		}
		if !o.languageAllowed(c) {
			continue
		}
		relevant = append(relevant, c)
	}

	oldDir, newDir, err := o.writer.Prepare(p.ID)
	if err != nil {
		o.logger.WithFields(logrus.Fields{"pair": p.ID, "error": err}).Warn("temp-dir preparation failed, skipping pair")
		return nil, err
	}
	defer func() { _ = o.writer.Cleanup(p.ID) }()

	if err := o.materialize(p, relevant, oldDir, newDir); err != nil {
		o.logger.WithFields(logrus.Fields{"pair": p.ID, "error": err}).Warn("blob materialization failed, skipping pair")
		return nil, err
	}

	records, err := clonerunner.Run(ctx, o.cloneCfg, o.writer.PairDir(p.ID))
	if err != nil {
		o.logger.WithFields(logrus.Fields{"pair": p.ID, "error": err}).Warn("clone detection failed, continuing in degraded mode")
		records = nil
	}

	diffs, err := p.Patch()
	if err != nil {
		return nil, err
	}
	diffByPath := make(map[string]vcs.FileDiff, len(diffs))
	for _, d := range diffs {
		key := d.NewPath
		if key == "" {
			key = d.OldPath
		}
		diffByPath[key] = d
	}

	contributions := make([]models.TreeEntryContribution, 0, len(relevant))
	for _, c := range relevant {
		contrib, err := o.buildContribution(p, c, diffByPath, records, enabled)
		if err != nil {
			o.logger.WithFields(logrus.Fields{"pair": p.ID, "path": changePath(c), "error": err}).Warn("skipping file")
			continue
		}
		contributions = append(contributions, contrib)
	}

	return &models.CommitPairResult{
		PairID:           p.ID,
		Child:            p.Child,
		Parent:           p.Parent,
		TreeEntryChanges: contributions,
	}, nil
}

func (o *Orchestrator) buildContribution(p *models.CommitPair, c vcs.TreeEntryChange, diffByPath map[string]vcs.FileDiff, records []clonerunner.Record, enabled []models.MeasurementType) (models.TreeEntryContribution, error) {
	key := c.NewPath
	if key == "" {
		key = c.OldPath
	}

	oldSrc := source.NewRepository(o.repo, parentSHA(p))
	newSrc := source.NewRepository(o.repo, p.Child.SHA)

	var oldLines, newLines []string
	if c.Kind != vcs.Added {
		content, err := oldSrc.Read(c.OldPath)
		if err == nil {
			oldLines = splitLines(content)
		}
	}
	if c.Kind != vcs.Deleted {
		content, err := newSrc.Read(c.NewPath)
		if err == nil {
			newLines = splitLines(content)
		}
	}

	d := diffByPath[key]
	shape := patch.NotEmpty
	if d.UnifiedText == "" {
		switch c.Kind {
		case vcs.Added:
			shape = patch.NewEmptyFile
		case vcs.Renamed:
			shape = patch.PureRename
		case vcs.Deleted:
			shape = patch.WholeFileDeletion
		}
	}
	hunks, err := patch.Parse(d.UnifiedText, shape)
	if err != nil {
		return models.TreeEntryContribution{}, err
	}

	clonePairs, _ := clone.Filter(records, c.OldPath, c.NewPath)

	return aggregate.Build(aggregate.FileInput{
		Change:       c,
		Hunks:        hunks,
		OldFileLines: oldLines,
		NewFileLines: newLines,
		ClonePairs:   clonePairs,
		Measurements: enabled,
	}), nil
}

func (o *Orchestrator) materialize(p *models.CommitPair, changes []vcs.TreeEntryChange, oldDir, newDir string) error {
	oldSrc := source.NewRepository(o.repo, parentSHA(p))
	newSrc := source.NewRepository(o.repo, p.Child.SHA)

	for _, c := range changes {
		if c.Kind != vcs.Added && c.OldPath != "" {
			content, err := oldSrc.Read(c.OldPath)
			if err == nil {
				if err := tmpwriter.WriteFile(oldDir, c.OldPath, content); err != nil {
					return err
				}
			}
		}
		if c.Kind != vcs.Deleted && c.NewPath != "" {
			content, err := newSrc.Read(c.NewPath)
			if err == nil {
				if err := tmpwriter.WriteFile(newDir, c.NewPath, content); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func isAnalyzableKind(k vcs.TreeEntryChangeKind) bool {
	switch k {
	case vcs.Added, vcs.Modified, vcs.Deleted, vcs.Renamed:
		return true
	default:
		return false
	}
}

func (o *Orchestrator) languageAllowed(c vcs.TreeEntryChange) bool {
	if len(o.cfg.Languages) == 0 {
		return true
	}
	path := c.NewPath
	if path == "" {
		path = c.OldPath
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, lang := range o.cfg.Languages {
		if strings.ToLower(lang) == ext {
			return true
		}
	}
	return false
}

func parentSHA(p *models.CommitPair) string {
	if p.Parent == nil {
		return ""
	}
	return p.Parent.SHA
}

func changePath(c vcs.TreeEntryChange) string {
	if c.NewPath != "" {
		return c.NewPath
	}
	return c.OldPath
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}
