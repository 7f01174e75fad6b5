package browser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLaunchFlagsDefaults(t *testing.T) {
	flags := launchFlags(ChromeOptions{})

	require.Equal(t, "1920,1080", flags["window-size"])
	require.Equal(t, true, flags["no-first-run"])
	require.NotContains(t, flags, "headless")
	require.NotContains(t, flags, "user-agent")
}

func TestLaunchFlagsOptional(t *testing.T) {
	flags := launchFlags(ChromeOptions{Headless: true, UserAgent: "ecommerce-scraper/1.0"})

	require.Equal(t, "new", flags["headless"])
	require.Equal(t, "ecommerce-scraper/1.0", flags["user-agent"])
}

func TestAllocatorOptionsOnePerFlag(t *testing.T) {
	require.Len(t, AllocatorOptions(ChromeOptions{}), len(launchFlags(ChromeOptions{})))
	require.Len(t, AllocatorOptions(ChromeOptions{Headless: true, UserAgent: "x"}), len(launchFlags(ChromeOptions{}))+2)
}
