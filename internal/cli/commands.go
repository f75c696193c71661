package cli

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jassielof/typm/internal/version"
	"github.com/jassielof/typm/pkg/cobrax/topics"
	"github.com/jassielof/typm/pkg/commands/build"
	"github.com/jassielof/typm/pkg/commands/install"
	"github.com/jassielof/typm/pkg/commands/list"
	"github.com/jassielof/typm/pkg/config"
	"github.com/jassielof/typm/pkg/gitrun"
	"github.com/jassielof/typm/pkg/logging"
	"github.com/jassielof/typm/pkg/paths"
	"github.com/jassielof/typm/pkg/style"
	"github.com/jassielof/typm/pkg/typstbin"
	"github.com/jassielof/typm/pkg/ui"
)

//go:embed help/*.md
var helpFiles embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		quiet     bool
	)

	cfg := loadConfig()

	rootCmd := &cobra.Command{
		Use:   "typm",
		Short: "A package manager for Typst",
		Long: `typm builds and installs Typst packages and templates. It validates a
package against its typst.toml manifest, materializes it into the
directory layout the compiler imports from, and can fetch packages
straight from their git hosting.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			if quiet {
				verbosity = -1
			}
			logging.SetupLogger(verbosity)
			if ui.DetectFormat(os.Stdout) == ui.FormatText {
				style.DisableColors()
			}
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Only log errors")

	// Add all commands
	rootCmd.AddCommand(newVersionCmd(cfg))
	rootCmd.AddCommand(newBuildCmd(cfg))
	rootCmd.AddCommand(newInstallCmd(cfg))
	rootCmd.AddCommand(newListCmd())

	// Topic-based help from the embedded pages
	var renderer topics.Renderer = topics.NewGlamourRenderer()
	if ui.DetectFormat(os.Stdout) == ui.FormatText {
		renderer = &topics.PlainRenderer{}
	}
	if helpFS, err := fs.Sub(helpFiles, "help"); err == nil {
		_ = topics.Initialize(rootCmd, helpFS, renderer)
	}

	return rootCmd
}

// loadConfig reads the user config file, falling back to the built-in
// defaults when it cannot be used.
func loadConfig() *config.Config {
	cfg, err := config.Load(paths.New().ConfigFilePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring configuration: %v\n", err)
		return config.Default()
	}
	return cfg
}

func newVersionCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including commit hash and build date`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("typm version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Printf("Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Printf("Built:  %s\n", version.Date)
			}
			if v, err := typstbin.New(cfg.Tools.Typst).Version(); err == nil {
				fmt.Printf("Typst:  %s\n", v)
			}
		},
	}
}

func newBuildCmd(cfg *config.Config) *cobra.Command {
	var (
		outputDir string
		namespace string
	)

	cmd := &cobra.Command{
		Use:   "build <path>",
		Short: "Build a Typst package from its typst.toml",
		Long: `Build validates a package source against its typst.toml manifest,
compiles the declared template if there is one, and copies the package
files into <output-dir>/<name>/<version> with imports of the package
entrypoint rewritten to the published import spec.`,
		Args: cobra.ExactArgs(1),
		Example: `  # Build the package in the current directory
  typm build .

  # Build into a custom directory under a custom namespace
  typm build path/to/package --output-dir dist --namespace local`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := build.BuildPackage(build.BuildPackageOptions{
				ManifestPath: args[0],
				OutputDir:    outputDir,
				Namespace:    namespace,
				Compiler:     typstbin.New(cfg.Tools.Typst),
			})
			if err != nil {
				return err
			}

			fmt.Println(style.StatusLine(style.StatusSuccess, fmt.Sprintf(
				"Package '%s' v%s built successfully to %s",
				result.PackageName, result.Version, result.OutputDir)))
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", cfg.Build.Output,
		"The output directory where the built package will be placed")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", cfg.Build.Namespace,
		"Namespace for the package (e.g. 'preview' for official, 'local' for self-hosted, or any custom namespace)")

	return cmd
}

func newInstallCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "install <source>",
		Short: "Install a Typst package from a git repository",
		Long: `Install clones the given repository, finds the package manifest inside
it and copies the package into the Typst data directory under a
namespace derived from the hosting provider and repository owner.`,
		Args: cobra.ExactArgs(1),
		Example: `  # Install from a provider alias
  typm install gh/typst/packages/packages/preview/cetz/0.2.2

  # Install from a full URL, pinned to a branch or tag
  typm install https://github.com/user/repo/tree/v1.0/path/to/package`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := install.InstallPackage(install.InstallPackageOptions{
				Source:   args[0],
				Runner:   gitrun.NewRunner(cfg.Tools.Git),
				Compiler: typstbin.New(cfg.Tools.Typst),
			})
			if err != nil {
				return err
			}

			fmt.Println()
			fmt.Println(style.StatusLine(style.StatusSuccess, fmt.Sprintf(
				"Package '%s' v%s installed successfully.",
				result.PackageName, result.Version)))
			fmt.Printf("You can now import it using: %s\n", style.ImportHint(result.ImportSpec))
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var (
		localOnly   bool
		previewOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed Typst packages",
		Long: `List shows the packages installed under the Typst data directory and
the preview packages the compiler has cached under the cache directory.`,
		Example: `  # List everything
  typm list

  # Only locally installed packages
  typm list --local`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := list.ListPackages(list.ListPackagesOptions{
				LocalOnly:   localOnly,
				PreviewOnly: previewOnly,
			})
			if err != nil {
				return err
			}

			fmt.Println(style.Get("Title").Render("Installed Typst packages:"))
			for _, root := range result.Roots {
				fmt.Printf("\n%s\n", style.Get("SectionHeader").Render(rootHeader(root.Kind)))
				if !root.Exists {
					fmt.Printf("  No packages found in %s directory (%s does not exist).\n",
						root.DirType, root.Path)
					continue
				}
				for _, pkg := range root.Packages {
					fmt.Printf("  %s\n", style.PackageSpec(pkg.Namespace, pkg.Name, pkg.Version))
				}
			}

			if result.Total == 0 {
				switch {
				case localOnly && !previewOnly:
					fmt.Println("  No local packages found.")
				case previewOnly && !localOnly:
					fmt.Println("  No preview packages found.")
				default:
					fmt.Println("  No packages found in standard Typst data or cache directories.")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&localOnly, "local", false, "List only local (data) packages")
	cmd.Flags().BoolVar(&previewOnly, "preview", false, "List only preview (cache) packages")

	return cmd
}

func rootHeader(kind list.Kind) string {
	if kind == list.KindPreview {
		return "Preview packages (cache directory):"
	}
	return "Local packages (data directory):"
}
