package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetEnvInt(t *testing.T) {
	defer os.Unsetenv("PIT_TEST_INT")

	require.Equal(t, 7, getEnvInt("PIT_TEST_INT", 7))

	os.Setenv("PIT_TEST_INT", "12")
	require.Equal(t, 12, getEnvInt("PIT_TEST_INT", 7))

	os.Setenv("PIT_TEST_INT", "twelve")
	require.Equal(t, 7, getEnvInt("PIT_TEST_INT", 7))

	os.Setenv("PIT_TEST_INT", "99999999999")
	require.Equal(t, 7, getEnvInt("PIT_TEST_INT", 7))
}
