// Package version looks up the latest release and tells the user when they are behind.
package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/spacedl/spacedl/filesystem"
	"github.com/spacedl/spacedl/network"
	"github.com/spacedl/spacedl/util"
	"github.com/spacedl/spacedl/where"
)

var releasesURL = "https://api.github.com/repos/spacedl/spacedl/releases/latest"

var versionCacher = gache.New[string](&gache.Options{
	Path:       where.Version(),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the version of the latest release. Lookups are cached for two days.
func Latest() (string, error) {
	cached, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && cached != "" {
		return cached, nil
	}

	resp, err := network.Client.Get(releasesURL)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("release lookup returned status code %d", resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	version := strings.TrimPrefix(release.TagName, "v")
	_ = versionCacher.Set(version)
	return version, nil
}
