package slugid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	require.Equal(t, "acme-gate", Make("Acme Gate"))
	require.Equal(t, "front-door-2", Make("  Front Door 2! "))
	require.Equal(t, "", Make("!!!"))
}

func TestMakeIsDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		require.Equal(t, Make("Garage Ouest"), Make("Garage Ouest"))
	}
}

func TestWithSuffix(t *testing.T) {
	re := regexp.MustCompile(`^acme-gate-\d{3}$`)
	for i := 0; i < 20; i++ {
		require.Regexp(t, re, WithSuffix("acme-gate"))
	}
}
