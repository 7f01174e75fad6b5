package webscraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ecommerce-scraper/browser/browsertest"
)

func TestDismissBanner(t *testing.T) {
	tests := []struct {
		name      string
		banner    bool
		dismissed bool
		clicks    []string
	}{
		{name: "present", banner: true, dismissed: true, clicks: []string{"button.acceptCookies"}},
		{name: "absent", banner: false, dismissed: false, clicks: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			d := browsertest.NewDriver()
			d.AddPage(testURL, browsertest.Catalog(nil, nil, browsertest.CatalogOptions{Banner: tt.banner}))
			require.NoError(t, d.Navigate(ctx, testURL))

			dismissed, err := DismissBanner(ctx, d, DefaultSelectors().CookieAccept)
			require.NoError(t, err)
			require.Equal(t, tt.dismissed, dismissed)
			require.Equal(t, tt.clicks, d.Clicks())

			again, err := DismissBanner(ctx, d, DefaultSelectors().CookieAccept)
			require.NoError(t, err)
			require.False(t, again)
		})
	}
}

func TestDismissBannerHonorsCancellation(t *testing.T) {
	d := browsertest.NewDriver()
	d.AddPage(testURL, browsertest.Catalog(nil, nil, browsertest.CatalogOptions{Banner: true}))
	require.NoError(t, d.Navigate(context.Background(), testURL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dismissed, err := DismissBanner(ctx, d, DefaultSelectors().CookieAccept)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, dismissed)
}
