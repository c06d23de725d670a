package app_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stale/internal/adapters/telemetry"
	"go.trai.ch/stale/internal/adapters/telemetry/progrock"
	"go.trai.ch/stale/internal/app"
	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/stale/internal/core/ports"
	"go.trai.ch/stale/internal/core/ports/mocks"
	"go.trai.ch/stale/internal/engine/staleness"
	"go.uber.org/mock/gomock"
)

var (
	older = time.Unix(100, 0)
	newer = time.Unix(200, 0)

	sourceA = filepath.Join("src", "a", "main.scss")
	sourceB = filepath.Join("src", "b", "main.scss")
)

type fixture struct {
	loader  *mocks.MockConfigLoader
	factory *mocks.MockFileSystemFactory
	fsys    *mocks.MockFileSystem
	logger  *mocks.MockLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		loader:  mocks.NewMockConfigLoader(ctrl),
		factory: mocks.NewMockFileSystemFactory(ctrl),
		fsys:    mocks.NewMockFileSystem(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
	}
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return f
}

func (f *fixture) app(tel ports.Telemetry) *app.App {
	return app.New(f.loader, staleness.NewEngine(f.factory), tel, f.logger)
}

func stylesConfig(missing domain.MissingPolicy) *domain.Config {
	cfg := domain.NewConfig(".")
	cfg.Ignore = []string{"vendor/"}
	cfg.AddRule(&domain.Rule{
		Name:     "styles",
		Sources:  []string{filepath.Join("src", "*", "*.scss")},
		Template: domain.Template(filepath.Join("public", ":dirname.css")),
		Missing:  missing,
	})
	return cfg
}

// expectStyles sets up src/a as fresh and src/b without an artifact.
func (f *fixture) expectStyles() {
	f.fsys.EXPECT().Glob(filepath.Join("src", "*", "*.scss")).Return([]string{sourceA, sourceB}, nil)

	f.fsys.EXPECT().Timestamp(filepath.Join("public", "a.css")).Return(newer, nil)
	f.fsys.EXPECT().ListFiles(filepath.Join("src", "a"), ".scss").Return([]string{sourceA}, nil)
	f.fsys.EXPECT().Timestamp(sourceA).Return(older, nil)
	f.fsys.EXPECT().Timestamp(filepath.Join("src", "a")).Return(older, nil)

	f.fsys.EXPECT().Timestamp(filepath.Join("public", "b.css")).Return(time.Time{}, domain.ErrPathNotFound)
}

func TestApp_Check(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load("stale.yaml").Return(stylesConfig(domain.MissingStale), nil)
	f.factory.EXPECT().New(ports.FileSystemOptions{
		Timestamp: domain.TimestampModTime,
		Ignore:    []string{"vendor/"},
	}).Return(f.fsys, nil)
	f.expectStyles()

	verdicts, err := f.app(telemetry.NewNoOp()).Check(context.Background(), app.CheckOptions{
		ConfigPath:  "stale.yaml",
		Concurrency: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.Verdict{
		{
			Rule:     "styles",
			Source:   sourceA,
			Stale:    false,
			Reason:   domain.ReasonFresh,
			Artifact: filepath.Join("public", "a.css"),
		},
		{
			Rule:     "styles",
			Source:   sourceB,
			Stale:    true,
			Reason:   domain.ReasonArtifactMissing,
			Artifact: filepath.Join("public", "b.css"),
		},
	}, verdicts)
}

func TestApp_Check_Telemetry(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	tel := mocks.NewMockTelemetry(ctrl)
	freshVertex := mocks.NewMockVertex(ctrl)
	staleVertex := mocks.NewMockVertex(ctrl)

	f.loader.EXPECT().Load(gomock.Any()).Return(stylesConfig(domain.MissingStale), nil)
	f.factory.EXPECT().New(gomock.Any()).Return(f.fsys, nil)
	f.expectStyles()

	tel.EXPECT().Record(gomock.Any(), "styles: "+sourceA).Return(context.Background(), freshVertex)
	freshVertex.EXPECT().Log(string(domain.ReasonFresh))
	freshVertex.EXPECT().Cached()
	freshVertex.EXPECT().Complete(nil)

	tel.EXPECT().Record(gomock.Any(), "styles: "+sourceB).Return(context.Background(), staleVertex)
	staleVertex.EXPECT().Log(string(domain.ReasonArtifactMissing))
	staleVertex.EXPECT().Complete(nil)

	_, err := f.app(tel).Check(context.Background(), app.CheckOptions{Concurrency: 1})
	require.NoError(t, err)
}

func TestApp_Check_SelectedRule(t *testing.T) {
	f := newFixture(t)
	cfg := stylesConfig(domain.MissingStale)
	cfg.AddRule(&domain.Rule{Name: "scripts", Sources: []string{"*.js"}, Template: "out.js"})

	f.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)
	f.factory.EXPECT().New(gomock.Any()).Return(f.fsys, nil)
	f.expectStyles()

	verdicts, err := f.app(telemetry.NewNoOp()).Check(context.Background(), app.CheckOptions{
		Rules: []string{"styles", "styles"},
	})
	require.NoError(t, err)
	assert.Len(t, verdicts, 2)
}

func TestApp_Check_Errors(t *testing.T) {
	t.Run("config load failure", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load(gomock.Any()).Return(nil, domain.ErrConfigNotFound)

		_, err := f.app(telemetry.NewNoOp()).Check(context.Background(), app.CheckOptions{})
		assert.True(t, errors.Is(err, domain.ErrConfigNotFound))
	})

	t.Run("unknown rule", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load(gomock.Any()).Return(stylesConfig(domain.MissingStale), nil)

		_, err := f.app(telemetry.NewNoOp()).Check(context.Background(), app.CheckOptions{Rules: []string{"nope"}})
		assert.True(t, errors.Is(err, domain.ErrRuleNotFound))
	})

	t.Run("invalid ignore rules", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load(gomock.Any()).Return(stylesConfig(domain.MissingStale), nil)
		f.factory.EXPECT().New(gomock.Any()).Return(nil, domain.ErrInvalidIgnoreRule)

		_, err := f.app(telemetry.NewNoOp()).Check(context.Background(), app.CheckOptions{})
		assert.True(t, errors.Is(err, domain.ErrInvalidIgnoreRule))
	})

	t.Run("no sources", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load(gomock.Any()).Return(stylesConfig(domain.MissingStale), nil)
		f.factory.EXPECT().New(gomock.Any()).Return(f.fsys, nil)
		f.fsys.EXPECT().Glob(gomock.Any()).Return(nil, nil)

		_, err := f.app(telemetry.NewNoOp()).Check(context.Background(), app.CheckOptions{})
		assert.True(t, errors.Is(err, domain.ErrNoSourcesMatched))
	})

	t.Run("missing artifact with error policy", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load(gomock.Any()).Return(stylesConfig(domain.MissingError), nil)
		f.factory.EXPECT().New(gomock.Any()).Return(f.fsys, nil)
		f.fsys.EXPECT().Glob(gomock.Any()).Return([]string{sourceB}, nil)
		f.fsys.EXPECT().Timestamp(filepath.Join("public", "b.css")).Return(time.Time{}, domain.ErrPathNotFound)

		_, err := f.app(telemetry.NewNoOp()).Check(context.Background(), app.CheckOptions{})
		assert.True(t, errors.Is(err, domain.ErrArtifactMissing))
		assert.Contains(t, err.Error(), "check failed")
	})

	t.Run("canceled context", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load(gomock.Any()).Return(stylesConfig(domain.MissingStale), nil)
		f.factory.EXPECT().New(gomock.Any()).Return(f.fsys, nil)
		f.fsys.EXPECT().Glob(gomock.Any()).Return([]string{sourceA}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.app(telemetry.NewNoOp()).Check(ctx, app.CheckOptions{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestApp_Resolve(t *testing.T) {
	a := newFixture(t).app(telemetry.NewNoOp())

	resolved, err := a.Resolve("public/css/:dirname:ext", filepath.Join("styles", "styles.scss"), domain.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "public/css/styles.scss", resolved)

	_, err = a.Resolve("", filepath.Join("styles", "styles.scss"), domain.Overrides{})
	assert.True(t, errors.Is(err, domain.ErrInvalidTemplate))
}

func TestApp_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	tel := mocks.NewMockTelemetry(ctrl)
	tel.EXPECT().Close().Return(nil)

	assert.NoError(t, newFixture(t).app(tel).Close())
}

func TestApp_Summary(t *testing.T) {
	_, ok := newFixture(t).app(telemetry.NewNoOp()).Summary()
	assert.False(t, ok)

	recorder := progrock.New()
	_, v := recorder.Record(context.Background(), "styles: src/app.scss")
	v.Complete(nil)

	summary, ok := newFixture(t).app(telemetry.NewFanout(recorder)).Summary()
	require.True(t, ok)
	assert.Equal(t, domain.RunSummary{Total: 1, Stale: 1, Duration: summary.Duration}, summary)
}
