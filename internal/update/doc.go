// Package update finds, downloads and installs newer releases of the running program.
//
// The package has three stages:
//   - Resolver pages through a Backend, filters releases by Criteria and picks the
//     newest under a Comparator (GetIfNewer compares it to the running version)
//   - Downloader streams a release Asset into a fresh temporary directory while
//     reporting progress as a fraction
//   - Installer swaps the running executable for the download, keeping the
//     previous binary as <stem>.exe.old
//
// Release hosting is abstracted behind Backend; see internal/provider for the
// GitHub and GitLab implementations.
//
// Example usage:
//
//	resolver := update.NewResolver(backend)
//	release, err := resolver.GetIfNewer(ctx, update.Criteria{Baseline: version}, nil)
//	if err != nil || release == nil {
//	    return err
//	}
//	asset, err := update.SelectAsset(*release, "")
//	if err != nil {
//	    return err
//	}
//	path, err := update.NewDownloader().Download(ctx, asset, nil, nil)
//	if err != nil {
//	    return err
//	}
//	defer func() { _ = update.Cleanup(path) }()
//	return update.NewInstaller().Replace(path)
package update
