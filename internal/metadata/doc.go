// Package metadata resolves the final destination of a URL and the preview
// information a chat client or link unfurler would show for it.
//
// Resolve probes the URL with HEAD (falling back to GET on transport
// errors), follows redirects, and then either treats the destination as a
// direct image or downloads the page once and reads its title, description,
// preview image and favicon.
//
// Any failure is reported as a *FetchError, which matches ErrFetchFailure.
// No partial metadata is returned.
package metadata
