package integration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out, err := render("/bin/zsh", "dirscan")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "#!/bin/zsh\n"))
	assert.Contains(t, out, "dirscan() {")
	assert.Contains(t, out, "--format flat")
	assert.NotContains(t, out, "{{")
}
