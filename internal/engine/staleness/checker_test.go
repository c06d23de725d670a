package staleness_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/stale/internal/engine/staleness"
)

var (
	older = time.Unix(100, 0)
	newer = time.Unix(200, 0)
)

func TestChecker_ResolvesTemplate(t *testing.T) {
	source := domain.NewSourceFile(filepath.Join("foo", "bar.js"))

	tests := []struct {
		name     string
		template domain.Template
		opts     staleness.CheckerOptions
		artifact string
		dir      string
	}{
		{
			name:     "returns the compiled path as is",
			template: "styles.css",
			artifact: "styles.css",
			dir:      "foo",
		},
		{
			name:     "replaces :name with the file name",
			template: ":name.css",
			artifact: "bar.css",
			dir:      "foo",
		},
		{
			name:     "replaces :dirname with the parent directory name",
			template: ":dirname.css",
			artifact: "foo.css",
			dir:      "foo",
		},
		{
			name:     "replaces :ext with the file extension",
			template: ":name:ext",
			artifact: "bar.js",
			dir:      "foo",
		},
		{
			name:     "replaces :dirname and :ext",
			template: ":dirname:ext",
			artifact: "foo.js",
			dir:      "foo",
		},
		{
			name:     "uses the parent name override",
			template: ":dirname.js",
			opts: staleness.CheckerOptions{Overrides: domain.Overrides{
				ParentName: func(string) string { return "baz" },
			}},
			artifact: "baz.js",
			dir:      "foo",
		},
		{
			name:     "uses the parent dir override",
			template: ":dirname.js",
			opts: staleness.CheckerOptions{Overrides: domain.Overrides{
				ParentDir: func(string) string { return filepath.Join("baz", "qux") },
			}},
			artifact: "foo.js",
			dir:      filepath.Join("baz", "qux"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluator, fsys := newEvaluator(t)

			fsys.EXPECT().Timestamp(tt.artifact).Return(newer, nil)
			fsys.EXPECT().ListFiles(tt.dir, ".js").Return(nil, nil)
			fsys.EXPECT().Timestamp(tt.dir).Return(older, nil)

			verdict, err := staleness.NewChecker(evaluator, tt.template, tt.opts).Explain(source)
			require.NoError(t, err)
			assert.False(t, verdict.Stale)
			assert.Equal(t, domain.ReasonFresh, verdict.Reason)
			assert.Equal(t, tt.artifact, verdict.Artifact)
			assert.Equal(t, source.Path, verdict.Source)
		})
	}
}

func TestChecker_Evaluate(t *testing.T) {
	source := domain.NewSourceFile(filepath.Join("foo", "bar.js"))

	t.Run("is stale when a source file is newer", func(t *testing.T) {
		evaluator, fsys := newEvaluator(t)

		fsys.EXPECT().Timestamp("bar.css").Return(older, nil)
		fsys.EXPECT().ListFiles("foo", ".js").Return([]string{source.Path}, nil)
		fsys.EXPECT().Timestamp(source.Path).Return(newer, nil)

		checker := staleness.NewChecker(evaluator, ":name.css", staleness.CheckerOptions{})
		verdict, err := checker.Explain(source)
		require.NoError(t, err)
		assert.True(t, verdict.Stale)
		assert.Equal(t, domain.ReasonSourcesModified, verdict.Reason)

		// The second evaluation is answered from the cache, except for the artifact stat.
		fsys.EXPECT().Timestamp("bar.css").Return(older, nil)
		stale, err := checker.Evaluate(source)
		require.NoError(t, err)
		assert.True(t, stale)
	})

	t.Run("is stale when the folder is newer", func(t *testing.T) {
		evaluator, fsys := newEvaluator(t)

		fsys.EXPECT().Timestamp("bar.css").Return(older, nil)
		fsys.EXPECT().ListFiles("foo", ".js").Return([]string{source.Path}, nil)
		fsys.EXPECT().Timestamp(source.Path).Return(older, nil)
		fsys.EXPECT().Timestamp("foo").Return(newer, nil)

		verdict, err := staleness.NewChecker(evaluator, ":name.css", staleness.CheckerOptions{}).Explain(source)
		require.NoError(t, err)
		assert.True(t, verdict.Stale)
		assert.Equal(t, domain.ReasonFolderModified, verdict.Reason)
	})

	t.Run("is fresh when timestamps are equal", func(t *testing.T) {
		evaluator, fsys := newEvaluator(t)

		fsys.EXPECT().Timestamp("bar.css").Return(older, nil)
		fsys.EXPECT().ListFiles("foo", ".js").Return([]string{source.Path}, nil)
		fsys.EXPECT().Timestamp(source.Path).Return(older, nil)
		fsys.EXPECT().Timestamp("foo").Return(older, nil)

		stale, err := staleness.NewChecker(evaluator, ":name.css", staleness.CheckerOptions{}).Evaluate(source)
		require.NoError(t, err)
		assert.False(t, stale)
	})
}

func TestChecker_MissingArtifact(t *testing.T) {
	source := domain.NewSourceFile(filepath.Join("foo", "bar.js"))

	t.Run("literal path is stale by default", func(t *testing.T) {
		evaluator, fsys := newEvaluator(t)
		fsys.EXPECT().Timestamp("bar.css").Return(time.Time{}, domain.ErrPathNotFound)

		verdict, err := staleness.NewChecker(evaluator, ":name.css", staleness.CheckerOptions{}).Explain(source)
		require.NoError(t, err)
		assert.True(t, verdict.Stale)
		assert.Equal(t, domain.ReasonArtifactMissing, verdict.Reason)
		assert.Equal(t, "bar.css", verdict.Artifact)
	})

	t.Run("glob without matches is stale by default", func(t *testing.T) {
		evaluator, fsys := newEvaluator(t)
		fsys.EXPECT().Glob("dist/bar.*.css").Return(nil, nil)

		verdict, err := staleness.NewChecker(evaluator, "dist/:name.*.css", staleness.CheckerOptions{Glob: true}).Explain(source)
		require.NoError(t, err)
		assert.True(t, verdict.Stale)
		assert.Equal(t, domain.ReasonArtifactMissing, verdict.Reason)
	})

	t.Run("error policy fails", func(t *testing.T) {
		evaluator, fsys := newEvaluator(t)
		fsys.EXPECT().Timestamp("bar.css").Return(time.Time{}, domain.ErrPathNotFound)

		_, err := staleness.NewChecker(evaluator, ":name.css", staleness.CheckerOptions{Missing: domain.MissingError}).Evaluate(source)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrArtifactMissing))
	})
}

func TestChecker_Glob(t *testing.T) {
	source := domain.NewSourceFile(filepath.Join("foo", "bar.js"))

	t.Run("is stale when any match is stale", func(t *testing.T) {
		evaluator, fsys := newEvaluator(t)

		fsys.EXPECT().Glob("dist/bar.*.js").Return([]string{"dist/bar.1.js", "dist/bar.2.js"}, nil)
		fsys.EXPECT().Timestamp("dist/bar.1.js").Return(newer, nil)
		fsys.EXPECT().Timestamp("dist/bar.2.js").Return(older, nil)
		fsys.EXPECT().ListFiles("foo", ".js").Return([]string{source.Path}, nil).Times(2)
		fsys.EXPECT().Timestamp(source.Path).Return(time.Unix(150, 0), nil).Times(2)
		fsys.EXPECT().Timestamp("foo").Return(older, nil)

		verdict, err := staleness.NewChecker(evaluator, "dist/:name.*:ext", staleness.CheckerOptions{Glob: true}).Explain(source)
		require.NoError(t, err)
		assert.True(t, verdict.Stale)
		assert.Equal(t, "dist/bar.2.js", verdict.Artifact)
		assert.Equal(t, domain.ReasonSourcesModified, verdict.Reason)
	})

	t.Run("is fresh when every match is fresh", func(t *testing.T) {
		evaluator, fsys := newEvaluator(t)

		fsys.EXPECT().Glob("dist/bar.*.js").Return([]string{"dist/bar.1.js", "dist/bar.2.js"}, nil)
		fsys.EXPECT().Timestamp("dist/bar.1.js").Return(newer, nil)
		fsys.EXPECT().Timestamp("dist/bar.2.js").Return(newer, nil)
		fsys.EXPECT().ListFiles("foo", ".js").Return(nil, nil)
		fsys.EXPECT().Timestamp("foo").Return(older, nil)

		stale, err := staleness.NewChecker(evaluator, "dist/:name.*:ext", staleness.CheckerOptions{Glob: true}).Evaluate(source)
		require.NoError(t, err)
		assert.False(t, stale)
	})
}

func TestChecker_Errors(t *testing.T) {
	t.Run("empty template", func(t *testing.T) {
		evaluator, _ := newEvaluator(t)

		_, err := staleness.NewChecker(evaluator, "", staleness.CheckerOptions{}).
			Evaluate(domain.NewSourceFile(filepath.Join("foo", "bar.js")))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidTemplate))
	})

	t.Run("source without parent", func(t *testing.T) {
		evaluator, _ := newEvaluator(t)

		_, err := staleness.NewChecker(evaluator, ":dirname.css", staleness.CheckerOptions{}).
			Evaluate(domain.NewSourceFile("bar.js"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidTemplate))
	})

	t.Run("folder cannot be read", func(t *testing.T) {
		evaluator, fsys := newEvaluator(t)
		fsys.EXPECT().Timestamp("bar.css").Return(newer, nil)
		fsys.EXPECT().ListFiles("foo", ".js").Return(nil, domain.ErrPathNotFound)

		_, err := staleness.NewChecker(evaluator, ":name.css", staleness.CheckerOptions{}).
			Evaluate(domain.NewSourceFile(filepath.Join("foo", "bar.js")))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrFilesystemAccess))
	})

	t.Run("artifact stat fails", func(t *testing.T) {
		evaluator, fsys := newEvaluator(t)
		fsys.EXPECT().Timestamp("bar.css").Return(time.Time{}, domain.ErrFilesystemAccess)

		_, err := staleness.NewChecker(evaluator, ":name.css", staleness.CheckerOptions{}).
			Evaluate(domain.NewSourceFile(filepath.Join("foo", "bar.js")))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrFilesystemAccess))
	})
}
