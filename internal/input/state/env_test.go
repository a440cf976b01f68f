package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformPath(t *testing.T) {
	p, err := PlatformPath("")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())

	p, err = PlatformPath("linux/gtk")
	require.NoError(t, err)
	assert.Equal(t, []string{"linux", "gtk"}, p.Tokens())
}

func TestLocalePath(t *testing.T) {
	tests := []struct {
		locale string
		want   []string
	}{
		{"", nil},
		{"en", []string{"en"}},
		{"en_US", []string{"en", "US"}},
		{"en-US", []string{"en", "US"}},
		{"de-CH-1996", []string{"de", "CH", "1996"}},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			p, err := LocalePath(tt.locale)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), p.Len())
			if len(tt.want) > 0 {
				assert.Equal(t, tt.want, p.Tokens())
			}
		})
	}
}

func TestEnvStateMatch(t *testing.T) {
	active, err := EnvState("linux", "en_US")
	require.NoError(t, err)

	anywhere, err := EnvState("", "")
	require.NoError(t, err)
	english, err := EnvState("linux", "en")
	require.NoError(t, err)
	windows, err := EnvState("windows", "")
	require.NoError(t, err)

	assert.Equal(t, 1<<4+2, anywhere.Match(active))
	assert.Equal(t, 1, english.Match(active))
	assert.Equal(t, -1, windows.Match(active))
}

func TestCanonicalEnv(t *testing.T) {
	for _, in := range []string{"en-US", "en_us", "EN-us"} {
		got, err := CanonicalLocale(in)
		require.NoError(t, err)
		assert.Equal(t, "en_US", got, in)
	}

	got, err := CanonicalPlatform(" linux//gtk ")
	require.NoError(t, err)
	assert.Equal(t, "linux/gtk", got)
}
