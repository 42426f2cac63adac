package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/govtool/src/proposals"
)

func TestDRepIDCommand(t *testing.T) {
	pub := strings.Repeat("11", 32)

	var out bytes.Buffer
	cmd := newDRepIDCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{pub})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "drep id:  drep1")

	id := strings.Fields(strings.Split(out.String(), "\n")[0])[2]
	var again bytes.Buffer
	cmd = newDRepIDCommand()
	cmd.SetOut(&again)
	cmd.SetArgs([]string{id})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, out.String(), again.String())
}

func TestPrintGroups(t *testing.T) {
	var out bytes.Buffer
	printGroups(&out, nil)
	assert.Equal(t, "no proposals\n", out.String())

	out.Reset()
	expiry := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	printGroups(&out, []proposals.Group{{
		Title:   proposals.TypeInfoAction,
		Actions: []proposals.Proposal{{Type: proposals.TypeInfoAction, TxHash: "aa", Index: 2, ExpiryDate: expiry}},
	}})
	assert.Equal(t, "Info Action (1)\n  aa#2  (untitled)  expires 3rd May 2024\n", out.String())
}
