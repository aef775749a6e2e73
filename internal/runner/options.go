package runner

import (
	"os"
	"time"

	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/arptable/pkg/version"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	envutil "github.com/projectdiscovery/utils/env"
	fileutil "github.com/projectdiscovery/utils/file"
	updateutils "github.com/projectdiscovery/utils/update"
)

var au = aurora.New(aurora.WithColors(true))

var (
	OutputEnv = envutil.GetEnvOrDefault("ARPTABLE_OUTPUT", "")
	JSONEnv   = envutil.GetEnvOrDefault("ARPTABLE_JSON", "")
)

// Options contains the configuration options for reading the ARP cache.
type Options struct {
	ConfigFile string

	Targets          goflags.StringSlice
	CacheTTL         time.Duration
	ResolvedOnly     bool
	ExcludeBroadcast bool
	InterfaceName    bool

	Output string
	JSON   bool

	Verbose bool
	Debug   bool
	Silent  bool
	NoColor bool
	Version bool
	Stats   bool

	DisableUpdateCheck bool
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}
	flagSet := goflags.NewFlagSet()

	flagSet.SetDescription(`arptable reads the kernel ARP cache and prints IP to link-layer address mappings`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVar(&options.ConfigFile, "config", "", "cli flag configuration file"),
		flagSet.StringSliceVarP(&options.Targets, "target", "ip", nil, "only show the given ips or cidrs (comma separated)", goflags.NormalizedStringSliceOptions),
		flagSet.DurationVarP(&options.CacheTTL, "cache-ttl", "ttl", 30*time.Second, "how long a snapshot answers target lookups"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&options.Output, "output", "o", OutputEnv, "file to write output to"),
		flagSet.BoolVarP(&options.JSON, "json", "j", JSONEnv == "1" || JSONEnv == "true", "write output in JSON lines format"),
		flagSet.BoolVarP(&options.ResolvedOnly, "resolved-only", "ro", false, "skip entries without a link-layer address"),
		flagSet.BoolVarP(&options.ExcludeBroadcast, "exclude-broadcast", "eb", false, "skip multicast and subnet broadcast entries"),
		flagSet.BoolVarP(&options.InterfaceName, "interface-name", "in", false, "show the interface each neighbor was learned on"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVar(&options.Debug, "debug", false, "show record level decode diagnostics"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only results in output"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable output content coloring (ANSI escape codes)"),
		flagSet.BoolVar(&options.Stats, "stats", false, "show snapshot statistics"),
	)

	flagSet.CreateGroup("update", "Update",
		flagSet.BoolVarP(&options.DisableUpdateCheck, "disable-update-check", "duc", false, "disable automatic arptable update check"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	if options.ConfigFile != "" {
		if !fileutil.FileExists(options.ConfigFile) {
			gologger.Fatal().Msgf("config file %s does not exist\n", options.ConfigFile)
		}
		if err := flagSet.MergeConfigFile(options.ConfigFile); err != nil {
			gologger.Fatal().Msgf("could not read config file %s: %s\n", options.ConfigFile, err)
		}
	}

	options.configureOutput()

	showBanner()

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", version.GetVersion())
		os.Exit(0)
	}

	if !options.DisableUpdateCheck {
		latestVersion, err := updateutils.GetToolVersionCallback("arptable", version.GetVersion())()
		if err != nil {
			if options.Verbose {
				gologger.Error().Msgf("arptable version check failed: %v", err.Error())
			}
		} else {
			gologger.Info().Msgf("Current arptable version %v %v", version.GetVersion(), updateutils.GetVersionDescription(version.GetVersion(), latestVersion))
		}
	}

	return options
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.Debug {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
		au = aurora.New(aurora.WithColors(false))
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}
