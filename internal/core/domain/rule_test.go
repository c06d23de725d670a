package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stale/internal/core/domain"
)

func TestRule_Overrides(t *testing.T) {
	r := &domain.Rule{Name: "styles", ParentName: "theme", ParentDir: "src/:dirname/scss"}
	o := r.Overrides()

	require.NotNil(t, o.ParentName)
	require.NotNil(t, o.ParentDir)
	assert.Equal(t, "theme", o.ParentName("anything/a.scss"))
	assert.Equal(t, "src/theme/scss", o.ParentDir("theme"))
}

func TestRule_Overrides_Empty(t *testing.T) {
	o := (&domain.Rule{Name: "styles"}).Overrides()

	assert.Nil(t, o.ParentName)
	assert.Nil(t, o.ParentDir)
}

func TestConfig_Rules(t *testing.T) {
	cfg := domain.NewConfig("/project")
	cfg.AddRule(&domain.Rule{Name: "styles"})
	cfg.AddRule(&domain.Rule{Name: "scripts"})

	assert.Equal(t, []string{"scripts", "styles"}, cfg.RuleNames())

	r, ok := cfg.Rule("styles")
	require.True(t, ok)
	assert.Equal(t, "styles", r.Name)

	_, ok = cfg.Rule("missing")
	assert.False(t, ok)
}

func TestParseTimestampSource(t *testing.T) {
	src, err := domain.ParseTimestampSource("")
	require.NoError(t, err)
	assert.Equal(t, domain.TimestampModTime, src)

	src, err = domain.ParseTimestampSource("CTime")
	require.NoError(t, err)
	assert.Equal(t, domain.TimestampChangeTime, src)
	assert.Equal(t, "ctime", src.String())

	_, err = domain.ParseTimestampSource("atime")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTimestampSource))
}

func TestParseMissingPolicy(t *testing.T) {
	p, err := domain.ParseMissingPolicy("")
	require.NoError(t, err)
	assert.Equal(t, domain.MissingStale, p)

	p, err = domain.ParseMissingPolicy("error")
	require.NoError(t, err)
	assert.Equal(t, domain.MissingError, p)
	assert.Equal(t, "error", p.String())

	_, err = domain.ParseMissingPolicy("ignore")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidMissingPolicy))
}
