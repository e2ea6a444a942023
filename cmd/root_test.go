package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonion0/n3map/config"
)

func TestRegisterFlagsAndResolveOptions(t *testing.T) {
	c := NewRootCommand()

	require.NoError(t, c.Flags().Parse([]string{
		"-a", "-M", "-l", "ns1.example.com", "example.com",
	}))

	require.NoError(t, resolveOptions([]string{"ns1.example.com", "example.com"}))

	assert.True(t, opts.Auto)
	assert.Equal(t, config.WalkModeMixed, opts.WalkMode)
	assert.Equal(t, "ldh", opts.Alphabet)
	assert.Equal(t, []string{"ns1.example.com"}, opts.Nameservers)
	assert.Equal(t, "example.com", opts.Zone)
}

func TestResolveOptionsParsesModeFlag(t *testing.T) {
	NewRootCommand()

	flagMixed, flagAMode, flagNSECMode = false, false, false
	flagModeRaw = "NSEC"

	require.NoError(t, resolveOptions([]string{"example.com"}))
	assert.Equal(t, config.WalkModeNsec, opts.WalkMode)
}

func TestResolveOptionsRejectsUnknownMode(t *testing.T) {
	NewRootCommand()

	flagMixed, flagAMode, flagNSECMode = false, false, false
	flagModeRaw = "bogus"

	assert.Error(t, resolveOptions([]string{"example.com"}))
}
