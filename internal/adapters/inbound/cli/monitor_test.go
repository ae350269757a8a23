package cli_test

import (
	"bytes"
	"testing"

	"github.com/donegate/donegate/internal/adapters/inbound/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorCommand_StopsAfterDuration(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"monitor", "--path", t.TempDir(), "--duration", "50ms"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "monitoring every")
}
