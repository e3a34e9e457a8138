// Package zippyshare resolves Zippyshare share pages into direct
// download links.
//
// The package handles three concerns:
//
//  1. Resolving: fetching a share page, detecting the site's failure
//     markers, and driving the parser and finalizer (Resolver)
//  2. Parsing: extracting the direct URL and display metadata from the
//     download-button JavaScript and the page's info cells (PageParser)
//  3. Finalizing: correcting parsed fields before they are considered
//     authoritative (StandardFinalizer)
//
// # Resolving
//
//	resolver := zippyshare.NewResolver(client)
//	info, err := resolver.Resolve(ctx, "https://www11.zippyshare.com/v/abc123/file.html")
//	switch {
//	case errors.Is(err, zippyshare.ErrFileExpired):
//	    // the file is gone for good
//	case errors.Is(err, zippyshare.ErrFileNotFound):
//	    // the link never pointed at a live file
//	}
//
// ResolveAsync performs the identical sequence without blocking the
// caller:
//
//	res := <-resolver.ResolveAsync(ctx, url)
//
// # Page format
//
// The site does not expose the direct URL in the page markup; a script
// attached to the download button assembles it at click time from a
// path prefix, a small arithmetic expression and a path suffix. The
// parser recognizes the three script shapes the site has used and
// evaluates the arithmetic with a JS engine.
//
// Failure detection is deliberately a literal substring search over the
// raw body: the marker sentences are stable while the surrounding
// markup is not.
package zippyshare
