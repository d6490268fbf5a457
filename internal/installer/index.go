package installer

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/go-pym/pym/internal/pkgref"
	"github.com/go-pym/pym/internal/semver"
	"github.com/go-pym/pym/usefulerror"
)

// Index installs packages by scraping a legacy-simple-index-style HTML page
// for a wheel link, downloading the wheel, and extracting it. It accepts
// any reference the Git installer does not, so it belongs after Git in a
// dispatch list.
type Index struct {
	BaseURL string
	Client  *http.Client
	Logger  *zap.SugaredLogger
}

var _ Installer = (*Index)(nil)

func (i *Index) client() *http.Client {
	if i.Client != nil {
		return i.Client
	}
	return http.DefaultClient
}

// CanInstallReference accepts every reference, stripping an optional
// "pypi+" scheme prefix, and parses at '@' (name[@version-or-range]).
func (i *Index) CanInstallReference(reference string) (pkgref.PackageInfo, bool) {
	trimmed := strings.TrimPrefix(reference, "pypi+")
	info := pkgref.Parse(trimmed, '@')
	info.Reference = reference
	info.Name = info.Source
	return info, true
}

// CanInstall accepts every (name, constraint) manifest entry.
func (i *Index) CanInstall(name, versionOrRef string) (pkgref.PackageInfo, bool) {
	return pkgref.PackageInfo{
		Reference: name + "@" + versionOrRef,
		Name:      name,
		Source:    name,
		Version:   versionOrRef,
	}, true
}

// MaxVersion implements the best-effort max-version probe described for the
// index installer: starting from the range's lower bound, try a single
// increment of major, then minor, then patch, keeping each increment that is
// both still within range and resolvable against the index.
func (i *Index) MaxVersion(ctx context.Context, name string, rng semver.VersionRange) (semver.Version, error) {
	if rng.Lower == nil {
		return semver.Version{}, fmt.Errorf("range has no lower bound to probe from")
	}

	current := rng.Lower.Version
	for _, segment := range []string{"major", "minor", "patch"} {
		candidate := current
		candidate.Bump(segment)
		if !rng.Contains(candidate) {
			continue
		}
		if _, ok := i.probePage(ctx, name, candidate.String()); ok {
			current = candidate
		}
	}
	return current, nil
}

// Install resolves a download page for info.Name/info.Version, scrapes the
// first wheel anchor, downloads and extracts it into dest, and reads the
// resulting package's own dependency metadata.
func (i *Index) Install(ctx context.Context, info pkgref.PackageInfo, dest string) (pkgref.PackageInfo, error) {
	version := info.Version
	if version == "" {
		return info, usefulerror.Useful().
			WithCode(usefulerror.ErrCodeVersionNotFound).
			WithHumanError(fmt.Sprintf("no version resolved for %s", info.Name)).
			WithHelp("Specify an exact version or a satisfiable range.")
	}

	pageURL, ok := i.probePage(ctx, info.Name, version)
	if !ok {
		return info, usefulerror.Useful().
			WithCode(usefulerror.ErrCodePackageUrl).
			WithHumanError(fmt.Sprintf("no index page found for %s %s", info.Name, version)).
			WithHelp("Verify the package name and version.")
	}

	wheelURL, err := i.findWheelLink(ctx, pageURL)
	if err != nil {
		return info, usefulerror.Useful().
			Wrap(err).
			WithCode(usefulerror.ErrCodePackageUrl).
			WithHumanError(fmt.Sprintf("no wheel link found on %s", pageURL)).
			WithHelp("Verify the package publishes a wheel for this version.")
	}

	archivePath := filepath.Join(dest, uuid.NewString()+".whl")
	if err := downloadFile(ctx, i.client(), wheelURL, archivePath); err != nil {
		return info, usefulerror.Useful().
			Wrap(err).
			WithCode(usefulerror.ErrCodePackageUrl).
			WithHumanError(fmt.Sprintf("failed to download %s", wheelURL))
	}
	defer os.Remove(archivePath)

	targetDir := filepath.Join(dest, strings.ToLower(info.Name))
	if err := extractWheel(archivePath, targetDir); err != nil {
		return info, usefulerror.Useful().
			Wrap(err).
			WithCode(usefulerror.ErrCodePackageUrl).
			WithHumanError(fmt.Sprintf("failed to extract wheel for %s", info.Name))
	}

	info.Path = targetDir
	info.Version = version
	info.VersionRange = "^" + version

	if meta, err := readWheelMetadata(targetDir); err == nil {
		info.Dependencies = translateRunRequires(meta, i.Logger)
	} else if i.Logger != nil {
		i.Logger.Warnw("could not read wheel metadata", "package", info.Name, "error", err)
	}

	return info, nil
}

// probePage probes {BaseURL}/{name}/{version}, stripping trailing ".0"
// segments from version and retrying until the GET succeeds or the
// version string can't be shortened further. This is a heuristic, not a
// guaranteed-correct index protocol.
func (i *Index) probePage(ctx context.Context, name, version string) (string, bool) {
	v := version
	for {
		url := fmt.Sprintf("%s/%s/%s", strings.TrimRight(i.BaseURL, "/"), name, v)
		if i.getOK(ctx, url) {
			return url, true
		}
		shortened, shortenedOK := stripTrailingZeroSegment(v)
		if !shortenedOK {
			return "", false
		}
		v = shortened
	}
}

func (i *Index) getOK(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := i.client().Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func stripTrailingZeroSegment(v string) (string, bool) {
	parts := strings.Split(v, ".")
	if len(parts) <= 1 || parts[len(parts)-1] != "0" {
		return v, false
	}
	return strings.Join(parts[:len(parts)-1], "."), true
}

func (i *Index) findWheelLink(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := i.client().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	var href string
	doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.HasSuffix(strings.TrimSpace(sel.Text()), ".whl") {
			if h, ok := sel.Attr("href"); ok {
				href = h
				return false
			}
		}
		return true
	})
	if href == "" {
		return "", fmt.Errorf("no .whl anchor found on %s", pageURL)
	}
	return resolveURL(pageURL, href), nil
}

func resolveURL(base, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	idx := strings.LastIndex(base, "/")
	if idx < 0 {
		return ref
	}
	return base[:idx+1] + ref
}

func downloadFile(ctx context.Context, client *http.Client, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

// extractWheel unpacks a wheel (a zip archive) into destDir, flattening the
// "<name>-<version>.data/{purelib,platlib}/" prefix the way a real install
// overrides both the pure and platform install locations into one tree.
func extractWheel(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		rel := flattenWheelDataPath(f.Name)
		if rel == "" {
			continue
		}
		target := filepath.Join(destDir, rel)

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, f.Mode())
		if err != nil {
			rc.Close()
			return err
		}
		_, copyErr := io.Copy(out, rc)
		rc.Close()
		out.Close()
		if copyErr != nil {
			return copyErr
		}
	}
	return nil
}

func flattenWheelDataPath(name string) string {
	for _, marker := range []string{".data/purelib/", ".data/platlib/"} {
		if idx := strings.Index(name, marker); idx >= 0 {
			return name[idx+len(marker):]
		}
	}
	return name
}

type wheelMetadata struct {
	RunRequires []runRequiresEntry `json:"run_requires"`
}

type runRequiresEntry struct {
	Requires    []string `json:"requires"`
	Extra       *string  `json:"extra"`
	Environment *string  `json:"environment"`
}

func readWheelMetadata(dir string) (wheelMetadata, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return wheelMetadata{}, err
	}

	var distInfoDir string
	for _, e := range entries {
		if e.IsDir() && strings.HasSuffix(e.Name(), ".dist-info") {
			distInfoDir = e.Name()
			break
		}
	}
	if distInfoDir == "" {
		return wheelMetadata{}, fmt.Errorf("no .dist-info directory found under %s", dir)
	}

	data, err := os.ReadFile(filepath.Join(dir, distInfoDir, "metadata.json"))
	if err != nil {
		return wheelMetadata{}, err
	}

	var meta wheelMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return wheelMetadata{}, err
	}
	return meta, nil
}

// translateRunRequires turns the run_requires entries with no extra and no
// environment into a {package: range} map. Entries whose constraint doesn't
// parse under this package's range grammar pass through as the raw literal
// with a logged warning, rather than failing the whole install.
func translateRunRequires(meta wheelMetadata, logger *zap.SugaredLogger) map[string]string {
	deps := map[string]string{}

	for _, entry := range meta.RunRequires {
		if entry.Extra != nil || entry.Environment != nil {
			continue
		}
		for _, req := range entry.Requires {
			name, literal, ok := splitRequirement(req)
			if !ok {
				continue
			}
			if literal == "" {
				literal = "*"
			}
			if _, err := semver.ParseRange(literal); err != nil && logger != nil {
				logger.Warnw("unparseable sub-dependency constraint, keeping raw literal",
					"package", name, "constraint", literal, "error", err)
			}
			deps[name] = literal
		}
	}

	return deps
}

// splitRequirement parses "name (lower[,upper])" or a bare "name" into the
// package name and a range literal built from the comma-separated bound
// expressions, reusing this package's own grammar (a single comparator, or
// two space-separated comparators).
func splitRequirement(req string) (name, rangeLiteral string, ok bool) {
	req = strings.TrimSpace(req)
	if req == "" {
		return "", "", false
	}

	open := strings.IndexByte(req, '(')
	if open < 0 {
		return req, "", true
	}

	name = strings.TrimSpace(req[:open])
	rest := req[open+1:]
	closeIdx := strings.IndexByte(rest, ')')
	if closeIdx < 0 {
		return name, "", false
	}

	bounds := strings.Split(rest[:closeIdx], ",")
	for idx := range bounds {
		bounds[idx] = strings.TrimSpace(bounds[idx])
	}
	return name, strings.Join(bounds, " "), true
}
