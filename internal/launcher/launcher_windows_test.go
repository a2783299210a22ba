//go:build windows

package launcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/dock/internal/domain"
)

func TestExecCommandLineIsPassedVerbatim(t *testing.T) {
	cmd, err := NewOS().Command(domain.Action{Action: domain.ActionExec, Target: `wt --profile "Claude"`})
	require.NoError(t, err)
	require.NotNil(t, cmd.SysProcAttr)
	assert.Equal(t, `cmd /d /s /c "wt --profile "Claude""`, cmd.SysProcAttr.CmdLine)
}

func TestOpenCommandLineIsEscaped(t *testing.T) {
	cmd, err := NewOS().Command(domain.Action{Action: domain.ActionOpenPath, Target: `C:\Users\me\notes`})
	require.NoError(t, err)
	assert.Empty(t, cmd.SysProcAttr.CmdLine)
}
