// uilingo — AI-powered localization pipeline for React, Vue, and Angular projects.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/uilingo/uilingo/config"
	"github.com/uilingo/uilingo/i18n"
	"github.com/uilingo/uilingo/lockfile"
	"github.com/uilingo/uilingo/phrase"
	"github.com/uilingo/uilingo/resource"
	"github.com/uilingo/uilingo/scan"
	"github.com/uilingo/uilingo/settings"
	"github.com/uilingo/uilingo/translate"
	"github.com/uilingo/uilingo/uifix"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "uilingo",
		Short: "AI-powered localization pipeline for web UI projects",
		Long: `uilingo — AI-powered localization pipeline for web UI projects.

Scans React, Vue, and Angular sources for user-visible text, classifies
phrases into namespaces, and translates them in batches through an AI
provider. Translations are merged into a single JSON localization
resource with a timestamped backup taken before every write.

Commands:
  status      Show project info and translation coverage
  init        Scan sources and seed the localization resource
  extract     Scan sources and list extracted phrases
  translate   Translate extracted phrases using AI
  restore     Restore the resource from its latest backup
  auth        Manage provider API keys

AI Providers:
  google      Google AI (Gemini) — API key
  openai      OpenAI (not yet implemented)
  deepl       DeepL (not yet implemented)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.AddCommand(
		newStatusCmd(),
		newInitCmd(),
		newExtractCmd(),
		newTranslateCmd(),
		newRestoreCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")

	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("uilingo version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// status (read-only: project info + coverage)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show project info and translation coverage",
		Long: `Show auto-detected project structure and translation coverage.

Displays the detected framework, source directories, localization
resource path, and per-language coverage against the source language.
Does not modify any files.`,
		Run: func(cmd *cobra.Command, args []string) {
			runStatus()
		},
	}

	return cmd
}

func runStatus() {
	proj, err := config.Detect(rootDir)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	// Project info header
	fmt.Fprintf(os.Stderr, "\n%sProject%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	fmt.Fprintf(os.Stderr, "  Name:       %s\n", proj.Name)
	fmt.Fprintf(os.Stderr, "  Root:       %s\n", proj.Root)
	fmt.Fprintf(os.Stderr, "  Framework:  %s\n", frameworkLabel(proj.Framework))
	fmt.Fprintf(os.Stderr, "  Sources:    %s\n", strings.Join(proj.SourceDirs, ", "))
	fmt.Fprintf(os.Stderr, "  Resource:   %s\n", proj.LocalesPath)
	fmt.Fprintf(os.Stderr, "  Source lang: %s\n", proj.SourceLang)
	fmt.Fprintln(os.Stderr)

	res, err := resource.Load(proj.AbsLocalesPath())
	if err != nil {
		logInfo("No localization resource yet. Run 'uilingo init' to create one.")
		return
	}

	srcTable, ok := res.Language(proj.SourceLang)
	if !ok {
		logWarning("Resource has no %q table; coverage cannot be computed", proj.SourceLang)
		return
	}
	total := srcTable.Count()

	fmt.Fprintf(os.Stderr, "%sTranslation Coverage%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "\n%-10s %-10s %-24s %s\n", "Lang", "Keys", "Progress", "")
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 52))

	for _, lang := range res.Languages() {
		if lang == proj.SourceLang {
			continue
		}
		table, _ := res.Language(lang)
		count := table.Count()
		percent := 0
		if total > 0 {
			percent = count * 100 / total
		}
		fmt.Fprintf(os.Stderr, "%-10s %-10d %s\n", lang, count, progressBar(percent, 16))
	}

	fmt.Fprintln(os.Stderr, strings.Repeat("─", 52))
	fmt.Fprintf(os.Stderr, "Source keys (%s): %d\n\n", proj.SourceLang, total)
}

func frameworkLabel(fw config.Framework) string {
	switch fw {
	case config.FrameworkReact:
		return "React (JSX/TSX)"
	case config.FrameworkVue:
		return "Vue (single-file components)"
	case config.FrameworkAngular:
		return "Angular (HTML templates)"
	default:
		return "Unknown"
	}
}

// progressBar renders a colored block bar for a percentage, clamped to
// [0, 100].
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := width * percent / 100
	color := colorGreen
	switch {
	case percent < 30:
		color = colorRed
	case percent < 80:
		color = colorYellow
	}

	return color + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) +
		colorReset + fmt.Sprintf(" %3d%%", percent)
}

// ---------------------------------------------------------------------------
// init (scan + seed the resource with the source language)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	var (
		srcDirs string
		locales string
		langs   string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scan sources and seed the localization resource",
		Long: `Extract UI phrases and seed the localization resource.

Scans the project's source files, classifies every phrase into a
namespace, derives a key for it, and merges the result into the
resource under the source language. Also writes a .uilingo.yaml config
file when one does not exist yet.

This command is idempotent — safe to run multiple times. Existing
entries are preserved; only new keys are added.`,
		Run: func(cmd *cobra.Command, args []string) {
			proj := detectProject()

			if srcDirs != "" {
				proj.SourceDirs = strings.Split(srcDirs, ",")
			}
			if locales != "" {
				proj.LocalesPath = locales
			}
			if langs != "" {
				proj.Languages = parseLangList(langs)
			}

			runInit(proj)
		},
	}

	// Low-level override flags (hidden — auto-detection handles these)
	cmd.Flags().StringVar(&srcDirs, "src", "", "Source directories to scan (comma-separated)")
	cmd.Flags().StringVar(&locales, "locales", "", "Localization resource path")
	cmd.Flags().StringVar(&langs, "lang", "", "Target languages (comma-separated)")

	_ = cmd.Flags().MarkHidden("src")
	_ = cmd.Flags().MarkHidden("locales")

	return cmd
}

func runInit(proj *config.Project) {
	logInfo("Scanning %s project %s...", frameworkLabel(proj.Framework), proj.Name)

	result, err := scan.Scan(proj)
	if err != nil {
		logError("Scan failed: %v", err)
		os.Exit(1)
	}

	if len(result.Phrases) == 0 {
		logWarning("No translatable phrases found in %s", strings.Join(proj.SourceDirs, ", "))
		return
	}

	table, _ := sourceEntries(result.Phrases)
	logInfo("Found %d phrases in %d files (%d keys)", len(result.Phrases), len(result.UIFiles), table.Count())

	path := proj.AbsLocalesPath()
	if err := resource.MergeAndPersist(path, proj.SourceLang, table, resource.PolicyIncremental); err != nil {
		logError("Updating %s: %v", proj.LocalesPath, err)
		os.Exit(1)
	}
	logSuccess("Resource updated: %s", proj.LocalesPath)

	// Persist detected settings so later runs (and teammates) agree on them
	if uf, _ := config.LoadUilingoFile(proj.Root); uf == nil {
		uf = &config.UilingoFile{
			Languages:   proj.Languages,
			SourceLang:  proj.SourceLang,
			Framework:   string(proj.Framework),
			LocalesPath: proj.LocalesPath,
			SourceDirs:  proj.SourceDirs,
		}
		if err := uf.Save(proj.Root); err != nil {
			logWarning("Could not write %s: %v", config.UilingoFileName, err)
		} else {
			logSuccess("Created %s", config.UilingoFileName)
		}
	}

	if len(proj.Languages) == 0 {
		logInfo("Next: uilingo translate --lang ru,de,fr")
	} else {
		logInfo("Next: uilingo translate")
	}
}

// ---------------------------------------------------------------------------
// extract (scan only, list phrases)
// ---------------------------------------------------------------------------

func newExtractCmd() *cobra.Command {
	var showKeys bool

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Scan sources and list extracted phrases",
		Long: `Scan source files and print every extracted phrase to stdout.

Phrases are grouped by their classified namespace. With --keys each
line also shows the derived resource key. No files are modified.`,
		Run: func(cmd *cobra.Command, args []string) {
			runExtract(detectProject(), showKeys)
		},
	}

	cmd.Flags().BoolVar(&showKeys, "keys", false, "Show derived resource keys")

	return cmd
}

func runExtract(proj *config.Project, showKeys bool) {
	result, err := scan.Scan(proj)
	if err != nil {
		logError("Scan failed: %v", err)
		os.Exit(1)
	}

	if len(result.Phrases) == 0 {
		logWarning("%s", i18n.T("No translatable phrases found"))
		return
	}

	table, _ := sourceEntries(result.Phrases)
	for _, ns := range phrase.Namespaces() {
		keys := table[string(ns)]
		if len(keys) == 0 {
			continue
		}
		fmt.Printf("%s (%d)\n", ns, len(keys))

		sorted := make([]string, 0, len(keys))
		for k := range keys {
			sorted = append(sorted, k)
		}
		sort.Strings(sorted)
		for _, k := range sorted {
			if showKeys {
				fmt.Printf("  %-34s %s\n", k, keys[k])
			} else {
				fmt.Printf("  %s\n", keys[k])
			}
		}
	}

	logInfo("%d phrases from %d files", len(result.Phrases), len(result.UIFiles))
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var (
		// Target selection
		langs string

		// Provider selection
		provider string
		apiKey   string
		model    string
		baseURL  string

		// Translation behavior
		batchSize int
		delay     time.Duration
		force     bool
		skipUIFix bool
		verbose   bool
		dryRun    bool

		// Network
		timeout    time.Duration
		proxy      string
		maxRetries int
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate extracted phrases using AI",
		Long: `Translate extracted UI phrases using an AI provider.

Scans the project, sends new or changed phrases to the provider in
batches, and merges the translations into the localization resource.
A timestamped backup of the resource is taken before every write.

By default only phrases whose source text changed since the last run
are translated (tracked in uilingo.lock). Use --force to retranslate
everything and replace each language's content wholesale.

Examples:
  # Translate into the languages listed in .uilingo.yaml
  uilingo translate

  # Translate specific languages
  uilingo translate --lang ru,de

  # Retranslate everything from scratch
  uilingo translate --lang ru --force

  # Dry run (show what would be translated)
  uilingo translate --lang ru --dry-run`,
		Run: func(cmd *cobra.Command, args []string) {
			runTranslate(translateArgs{
				langs:    langs,
				provider: provider, apiKey: apiKey, model: model,
				baseURL:   baseURL,
				batchSize: batchSize, delay: delay,
				force: force, skipUIFix: skipUIFix,
				verbose: verbose, dryRun: dryRun,
				timeout: timeout, proxy: proxy, maxRetries: maxRetries,
			})
		},
	}

	// Provider selection
	cmd.Flags().StringVar(&provider, "provider", translate.ProviderGoogle, "AI provider: google, openai, deepl")
	cmd.Flags().StringVar(&model, "model", "", "Model name (default: provider default)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (or "+settings.EnvAPIKey+" env var)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Custom API base URL")

	// Target selection
	cmd.Flags().StringVar(&langs, "lang", "", "Languages to translate (comma-separated, default: from config)")

	// Translation behavior
	cmd.Flags().IntVar(&batchSize, "batch-size", translate.DefaultBatchSize, "Phrases per API request")
	cmd.Flags().DurationVar(&delay, "delay", translate.DefaultBatchDelay, "Pause between API requests")
	cmd.Flags().BoolVar(&force, "force", false, "Retranslate everything and replace existing content")
	cmd.Flags().BoolVar(&skipUIFix, "skip-ui-fix", false, "Skip the language-responsive CSS pass")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Enable detailed logging")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be translated without calling AI")

	// Network
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Request timeout (0 = provider default)")
	cmd.Flags().StringVar(&proxy, "proxy", "", "HTTP/HTTPS proxy URL")
	cmd.Flags().IntVar(&maxRetries, "max-retries", 3, "Maximum retries on rate limit (429)")

	// Provider completion
	_ = cmd.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{
			"google\tGoogle AI (Gemini) — API key required",
			"openai\tOpenAI — not yet implemented",
			"deepl\tDeepL — not yet implemented",
		}, cobra.ShellCompDirectiveNoFileComp
	})

	// Model completion (provider-aware)
	_ = cmd.RegisterFlagCompletionFunc("model", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		p, _ := cmd.Flags().GetString("provider")
		switch p {
		case translate.ProviderGoogle:
			return []string{"gemini-2.0-flash", "gemini-2.5-flash", "gemini-1.5-pro"}, cobra.ShellCompDirectiveNoFileComp
		default:
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
	})

	return cmd
}

type translateArgs struct {
	langs                            string
	provider, apiKey, model, baseURL string
	batchSize                        int
	delay                            time.Duration
	force, skipUIFix                 bool
	verbose, dryRun                  bool
	timeout                          time.Duration
	proxy                            string
	maxRetries                       int
}

func runTranslate(a translateArgs) {
	proj := detectProject()

	// Resolve API key from flag, environment, or settings store
	key := settings.ResolveAPIKey(a.provider, a.apiKey)

	// Resolve provider configuration
	prov, ok := translate.DefaultProviders()[a.provider]
	if !ok {
		logError("Unknown provider %q. Available: google, openai, deepl", a.provider)
		os.Exit(1)
	}
	prov.APIKey = key
	prov.Proxy = a.proxy
	if a.model != "" {
		prov.Model = a.model
	}
	if a.baseURL != "" {
		prov.BaseURL = a.baseURL
	}
	if a.timeout > 0 {
		prov.Timeout = a.timeout
	}

	if key == "" {
		logError("No API key for provider %q.\n\n"+
			"Provide one with:\n"+
			"  --api-key flag\n"+
			"  %s environment variable\n"+
			"  uilingo auth login --provider %s", a.provider, settings.EnvAPIKey, a.provider)
		os.Exit(1)
	}

	// Determine which languages to translate
	targetLangs := parseLangList(a.langs)
	if len(targetLangs) == 0 {
		targetLangs = filterOutLang(proj.Languages, proj.SourceLang)
	}
	if len(targetLangs) == 0 {
		logError("No target languages. Specify them with --lang, e.g.:")
		fmt.Fprintf(os.Stderr, "  uilingo translate --lang ru,de,fr\n")
		os.Exit(1)
	}

	// Scan the project for source phrases
	result, err := scan.Scan(proj)
	if err != nil {
		logError("Scan failed: %v", err)
		os.Exit(1)
	}
	if len(result.Phrases) == 0 {
		logWarning("No translatable phrases found in %s", strings.Join(proj.SourceDirs, ", "))
		return
	}

	srcTable, flat := sourceEntries(result.Phrases)

	lf, err := lockfile.Load(proj.Root)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	logInfo("Provider: %s, Model: %s", prov.Name, effectiveModel(prov))
	logInfo("Found %d phrases in %d files", len(result.Phrases), len(result.UIFiles))
	logInfo("Translating: %s", strings.Join(targetLangs, ", "))

	if a.dryRun {
		for _, lang := range targetLangs {
			pending := flat
			if !a.force {
				pending = lf.FilterChanged(lang, flat)
			}
			logInfo("%s: %d phrases to translate", lang, len(pending))
		}
		return
	}

	// Seed the source language first so the resource always carries the
	// originals alongside the translations
	path := proj.AbsLocalesPath()
	if err := resource.MergeAndPersist(path, proj.SourceLang, srcTable, resource.PolicyIncremental); err != nil {
		logError("Updating %s: %v", proj.LocalesPath, err)
		os.Exit(1)
	}

	// Setup signal handling for graceful cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		logWarning("Interrupted, finishing current language...")
		cancel()
	}()

	policy := resource.PolicyIncremental
	if a.force {
		policy = resource.PolicyForce
	}

	translated := 0
	for _, lang := range targetLangs {
		pending := flat
		if !a.force {
			pending = lf.FilterChanged(lang, flat)
		}
		if len(pending) == 0 {
			logInfo("%s: up to date", lang)
			continue
		}

		phrases := make([]string, 0, len(pending))
		for _, src := range pending {
			phrases = append(phrases, src)
		}
		sort.Strings(phrases)

		opts := translate.Options{
			Provider:   prov,
			Language:   lang,
			BatchSize:  a.batchSize,
			BatchDelay: a.delay,
			MaxRetries: a.maxRetries,
			Verbose:    a.verbose,
			OnProgress: func(done, total int) {
				logInfo("  %s: %d/%d", lang, done, total)
			},
			OnLog: func(format string, args ...any) {
				logInfo(format, args...)
			},
		}

		table, report, err := translate.Translate(ctx, phrases, opts)
		if err != nil {
			if ctx.Err() != nil {
				logWarning("Translation interrupted, completed languages are saved")
				os.Exit(0)
			}
			logError("Translating %s: %v", lang, err)
			os.Exit(1)
		}

		if err := resource.MergeAndPersist(path, lang, table, policy); err != nil {
			logError("Merging %s: %v", lang, err)
			os.Exit(1)
		}

		lf.UpdateBatch(lang, pending)
		if a.force {
			lf.Clean(lang, entryKeys(flat))
		}
		if err := lf.Save(); err != nil {
			logWarning("Could not save %s: %v", lockfile.LockFileName, err)
		}

		warnExpansion(report)
		logSuccess("%s: %d phrases translated", lang, len(phrases))
		translated += len(phrases)
	}

	if translated == 0 {
		logSuccess("%s", i18n.T("All translations are up to date!"))
		return
	}

	if !a.skipUIFix {
		fixReport, err := uifix.Apply(proj, targetLangs)
		if err != nil {
			logWarning("UI fix pass failed: %v", err)
		} else {
			logSuccess("Stylesheet written: %s", fixReport.CSSPath)
			for _, f := range fixReport.Patched {
				logInfo("Patched entry file: %s", f)
			}
		}
	}

	logSuccess("%s", i18n.T("Translation complete!"))
}

// expansionThreshold flags translations 40%+ longer than their source;
// the usual point where buttons and labels sized for English clip.
const expansionThreshold = 1.4

func warnExpansion(report *translate.ExpansionReport) {
	if report == nil {
		return
	}
	atRisk := report.AtRisk(expansionThreshold)
	if len(atRisk) == 0 {
		return
	}
	logWarning("%s: %d translations expanded 40%%+ over the source:", report.Language, len(atRisk))
	for _, e := range atRisk {
		fmt.Fprintf(os.Stderr, "  %s.%s: %q -> %q (%.0f%%)\n",
			e.Namespace, e.Key, e.Source, e.Translation, e.Ratio*100)
	}
}

func effectiveModel(prov translate.Provider) string {
	if prov.Model != "" {
		return prov.Model
	}
	return translate.DefaultModel
}

// ---------------------------------------------------------------------------
// restore (roll the resource back to its latest backup)
// ---------------------------------------------------------------------------

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore the resource from its latest backup",
		Long: `Restore the localization resource from its most recent backup.

Every translate run backs the resource up before writing. This command
copies the latest backup over the resource file. The backup itself is
kept.`,
		Run: func(cmd *cobra.Command, args []string) {
			runRestore(detectProject())
		},
	}

	return cmd
}

func runRestore(proj *config.Project) {
	path := proj.AbsLocalesPath()

	backup, err := resource.LatestBackup(path)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(backup)
	if err != nil {
		logError("Reading %s: %v", backup, err)
		os.Exit(1)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		logError("Writing %s: %v", path, err)
		os.Exit(1)
	}

	logSuccess("Restored %s from %s", proj.LocalesPath, backup)
}

// ---------------------------------------------------------------------------
// auth (API key management)
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider API keys",
		Long: `Manage API keys for AI translation providers.

Keys are stored in ` + "`$XDG_DATA_HOME/uilingo/auth.json`" + ` with 0600
permissions. The ` + settings.EnvAPIKey + ` environment variable and the
--api-key flag both override the store.

Examples:
  uilingo auth login --provider google     Store a Google AI API key
  uilingo auth logout --provider google    Remove the Google AI key
  uilingo auth logout                      Remove all stored keys
  uilingo auth list                        Show stored keys (masked)`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthListCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		provider string
		key      string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key for a provider",
		Long: `Store an API key for an AI provider.

The key is read from --key, or prompted for on stdin when the flag is
not given.`,
		Run: func(cmd *cobra.Command, args []string) {
			if _, ok := translate.DefaultProviders()[provider]; !ok {
				logError("Unknown provider %q. Available: google, openai, deepl", provider)
				os.Exit(1)
			}

			if key == "" {
				fmt.Fprintf(os.Stderr, "Enter API key for %s: ", provider)
				scanner := bufio.NewScanner(os.Stdin)
				if !scanner.Scan() {
					logError("No input received")
					os.Exit(1)
				}
				key = strings.TrimSpace(scanner.Text())
			}
			if key == "" {
				logError("Empty API key")
				os.Exit(1)
			}

			if err := settings.SetAPIKey(provider, key); err != nil {
				logError("Storing key: %v", err)
				os.Exit(1)
			}
			logSuccess("API key stored for %s (%s)", provider, settings.MaskKey(key))
		},
	}

	cmd.Flags().StringVar(&provider, "provider", translate.ProviderGoogle, "Provider to store the key for")
	cmd.Flags().StringVar(&key, "key", "", "API key (prompted for when omitted)")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored API keys",
		Long:  `Remove the stored key for one provider, or all keys when --provider is omitted.`,
		Run: func(cmd *cobra.Command, args []string) {
			if provider == "" {
				if err := settings.RemoveAll(); err != nil {
					logError("%v", err)
					os.Exit(1)
				}
				logSuccess("All stored keys removed")
				return
			}
			if err := settings.Remove(provider); err != nil {
				logError("%v", err)
				os.Exit(1)
			}
			logSuccess("Key removed for %s", provider)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider to remove (default: all)")

	return cmd
}

func newAuthListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show stored API keys (masked)",
		Run: func(cmd *cobra.Command, args []string) {
			store := settings.Load()
			if len(store) == 0 {
				logInfo("No stored keys (%s)", settings.FilePath())
				return
			}

			ids := make([]string, 0, len(store))
			for id := range store {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			fmt.Fprintf(os.Stderr, "\nStored keys (%s):\n\n", settings.FilePath())
			for _, id := range ids {
				info := store[id]
				line := fmt.Sprintf("  %-10s %s", id, settings.MaskKey(info.Key))
				if info.BaseURL != "" {
					line += "  " + info.BaseURL
				}
				fmt.Fprintln(os.Stderr, line)
			}
			fmt.Fprintln(os.Stderr)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func detectProject() *config.Project {
	proj, err := config.Detect(rootDir)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	return proj
}

// sourceEntries classifies scanned phrases and derives their keys.
// Returns the namespaced table and a flat "namespace.key" -> phrase map
// for lock file bookkeeping. Colliding keys overwrite, matching how
// translations regroup.
func sourceEntries(phrases []string) (resource.Table, map[string]string) {
	classifier := phrase.NewClassifier(phrase.DefaultRules())
	table := make(resource.Table)
	flat := make(map[string]string)

	for _, p := range phrases {
		key := phrase.DeriveKey(p)
		if key == "" {
			continue
		}
		ns := string(classifier.Classify(p))
		if table[ns] == nil {
			table[ns] = make(map[string]string)
		}
		table[ns][key] = p
		flat[lockfile.EntryKey(ns, key)] = p
	}

	return table, flat
}

func entryKeys(flat map[string]string) []string {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	return keys
}

// parseLangList splits a comma-separated language list, trimming
// whitespace and dropping empty items.
func parseLangList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if lang := strings.TrimSpace(part); lang != "" {
			out = append(out, lang)
		}
	}
	return out
}

func filterOutLang(langs []string, drop string) []string {
	var out []string
	for _, l := range langs {
		if l != drop {
			out = append(out, l)
		}
	}
	return out
}
