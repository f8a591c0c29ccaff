package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBannerAppendsSubtitle(t *testing.T) {
	plain := RenderBanner("hm", "")
	withSub := RenderBanner("hm", "engine -> statsd")

	require.NotEmpty(t, plain)
	assert.Len(t, withSub, len(plain)+1)
	assert.Equal(t, "engine -> statsd", withSub[len(withSub)-1])
}

func TestWriteBannerColorsEveryLine(t *testing.T) {
	var buf bytes.Buffer
	WriteBanner(&buf, "hm", "sub", "ColorBlue")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.NotEmpty(t, lines)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, ColorBlue))
		assert.True(t, strings.HasSuffix(l, ColorReset))
	}
}

func TestUnknownColorFallsBackToReset(t *testing.T) {
	assert.Equal(t, ColorReset, colorCode("ColorPurple"))
	assert.Equal(t, ColorCyan, colorCode("ColorCyan"))
}
