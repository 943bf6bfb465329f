package cmd

import (
	"io"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/spacedl/spacedl/archive"
	"github.com/spacedl/spacedl/auth"
	"github.com/spacedl/spacedl/batch"
	"github.com/spacedl/spacedl/download"
	"github.com/spacedl/spacedl/ffmpeg"
	"github.com/spacedl/spacedl/hook"
	"github.com/spacedl/spacedl/key"
	"github.com/spacedl/spacedl/network"
	"github.com/spacedl/spacedl/space"
	"github.com/spacedl/spacedl/twitter"
	"github.com/spacedl/spacedl/where"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newAPI() *twitter.Client {
	return twitter.New(network.For(viper.GetBool(key.APIImpersonate)))
}

func resolverOptions() space.Options {
	return space.Options{
		Attempts: viper.GetInt(key.APIRetryAttempts),
		Backoff:  time.Duration(viper.GetInt(key.APIRetryBackoff)) * time.Millisecond,
		Bearer:   auth.Bearer(),
	}
}

// loadHooks returns the configured hooks and a func releasing them.
func loadHooks(cmd *cobra.Command) (hook.Hooks, func()) {
	if !viper.GetBool(key.HooksEnable) || lo.Must(cmd.Flags().GetBool("no-hooks")) {
		return hook.Nop{}, func() {}
	}

	hooks, scripts, err := hook.Load(where.Hooks())
	handleErr(err)

	return hooks, func() {
		for _, s := range scripts {
			s.Close()
		}
	}
}

func downloadOptions(cmd *cobra.Command) download.Options {
	return download.Options{
		Dir:           where.Save(viper.GetString(key.DownloadDir)),
		Template:      viper.GetString(key.DownloadTemplate),
		KeepRecorded:  viper.GetBool(key.DownloadKeepRecorded),
		WritePlaylist: viper.GetBool(key.DownloadWritePlaylist),
		Strict:        viper.GetBool(key.DownloadStrict),
		WriteMetadata: lo.Must(cmd.Flags().GetBool("write-metadata")),
		SkipDownload:  lo.Must(cmd.Flags().GetBool("skip-download")),
		PrintURL:      lo.Must(cmd.Flags().GetBool("print-url")),
	}
}

func newRunner() ffmpeg.Exec {
	var output io.Writer
	if viper.GetBool(key.DownloadForwardOutput) {
		output = os.Stderr
	}

	return ffmpeg.Exec{
		Path:   viper.GetString(key.FFmpegPath),
		Output: output,
	}
}

func newDriver(hooks hook.Hooks, options download.Options) *batch.Driver {
	driver := &batch.Driver{
		API:      newAPI(),
		Hooks:    hooks,
		Composer: download.NewComposer(newRunner(), options),
		Resolver: resolverOptions(),
		Parallel: viper.GetInt(key.DownloadParallel),
	}

	if viper.GetBool(key.ArchiveEnable) && !options.PrintURL && !options.SkipDownload {
		driver.Archive = archive.Registry{}
	}

	return driver
}

// recordOnly records finished spaces but never skips one. Spaces named
// explicitly are downloaded again.
type recordOnly struct {
	batch.Store
}

func (recordOnly) Has(string) (bool, error) { return false, nil }
