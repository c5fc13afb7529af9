package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Token counting
	modelHint     string
	tokenizerType string
	tokenizerFile string

	// Filtering
	extList      string
	useGitignore bool
	maxSizeBytes int64

	// Output
	jsonOut         string
	csvOut          string
	pdfOut          string
	copyToClipboard bool

	// Web roots
	traverseLinks bool
	linkDepth     int

	// Interactive mode
	interactiveMode bool

	langData *LoadedLanguageData
)

// version is the application version, set via ldflags.
var version = "dev"

// defaultExtensions covers the text, code, markup, and config files a
// repo scan usually cares about.
const defaultExtensions = ".md,.markdown,.txt,.py,.json,.yaml,.yml,.csv,.toml,.ini,.cfg,.js,.ts,.go"

var rootCmd = &cobra.Command{
	Use:   "toksum [PATH]",
	Short: "toksum counts model tokens across files, directories, git repos, and web pages.",
	Long: `toksum scans a file or directory tree (or a git URL, or a web page),
counts tokens per file with an exact tokenizer when one is available and a
character/word heuristic otherwise, and reports the result to the console
and optionally to JSON, CSV, or PDF files.`,
	Version:      version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		cfg := ScanConfig{
			Extensions:   parseExtensions(extList),
			SkipMarkers:  defaultSkipMarkers,
			UseGitignore: useGitignore,
			MaxSizeBytes: maxSizeBytes,
		}

		if interactiveMode {
			selected, err := runInteractiveFinder(cfg)
			if err != nil {
				return fmt.Errorf("interactive selection: %w", err)
			}
			if selected == "" {
				return nil // user aborted
			}
			root = selected
		}

		return run(root, cfg)
	},
}

// run is the whole pipeline: resolve the root into sources, estimate each
// one, build the report, fire the sinks. Only a bad root is fatal.
func run(root string, cfg ScanConfig) error {
	// Tokenizer init failure is a mode switch, not an error: the run
	// degrades to approximate counting.
	tk, err := newTokenizer(tokenizerType, modelHint, tokenizerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: tokenizer unavailable (%v), using approximate counts\n", err)
		tk = nil
	}
	runMethod := MethodApprox
	if tk != nil {
		defer tk.Close()
		runMethod = MethodExact
		fmt.Fprintf(os.Stderr, "Tokenizer: %s\n", tk.Name())
	}

	var sources []fileSource
	displayRoot := root

	switch {
	case isGitURL(root):
		tempDir, cloneErr := cloneGitRepo(root)
		if cloneErr != nil {
			return cloneErr
		}
		defer func() {
			_ = os.RemoveAll(tempDir)
		}()
		paths, resolveErr := resolvePaths(tempDir, cfg)
		if resolveErr != nil {
			return resolveErr
		}
		for _, p := range paths {
			sources = append(sources, fileSource{Path: p})
		}
	case isWebURL(root):
		sources, err = fetchWebSources(root, traverseLinks, linkDepth)
		if err != nil {
			return err
		}
	default:
		if abs, absErr := filepath.Abs(root); absErr == nil {
			displayRoot = abs
		}
		paths, resolveErr := resolvePaths(root, cfg)
		if resolveErr != nil {
			return resolveErr
		}
		for _, p := range paths {
			sources = append(sources, fileSource{Path: p})
		}
	}

	records := make([]FileRecord, 0, len(sources))
	for _, src := range sources {
		text, ok := src.text()
		if !ok {
			continue
		}
		tokens, method := countTokens(tk, text)
		records = append(records, FileRecord{
			Path:     src.Path,
			Tokens:   tokens,
			Method:   method,
			Chars:    utf8.RuneCountInString(text),
			Language: langData.languageForFile(src.Path),
		})
	}

	report := buildReport(displayRoot, modelHint, runMethod, records)

	summary := renderSummary(report, cfg.Extensions, tk != nil)
	fmt.Print(summary)

	if copyToClipboard {
		if clipErr := clipboard.WriteAll(summary); clipErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: clipboard write failed: %v\n", clipErr)
		} else {
			fmt.Println("Summary copied to clipboard.")
		}
	}

	// Sink failures never change the exit code; the console summary above
	// already fired.
	if jsonOut != "" {
		if sinkErr := writeJSONReport(report, jsonOut); sinkErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: JSON report failed: %v\n", sinkErr)
		} else {
			fmt.Printf("[OK] JSON report written to %s\n", jsonOut)
		}
	}
	if csvOut != "" {
		if sinkErr := writeCSVReport(report, csvOut); sinkErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: CSV report failed: %v\n", sinkErr)
		} else {
			fmt.Printf("[OK] CSV written to %s\n", csvOut)
		}
	}
	if pdfOut != "" {
		if sinkErr := writePDFReport(report, pdfOut); sinkErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: PDF report failed: %v\n", sinkErr)
		} else {
			fmt.Printf("[OK] PDF written to %s\n", pdfOut)
		}
	}

	return nil
}

func init() {
	cobra.OnInitialize(initConfig, initLanguages)

	// Token counting
	rootCmd.Flags().StringVar(&modelHint, "model", "gpt-4o", "Model name hint for exact tokenization")
	viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	rootCmd.Flags().StringVar(&tokenizerType, "tokenizer", "tiktoken", "Tokenizer backend: tiktoken, huggingface, or approx")
	viper.BindPFlag("tokenizer", rootCmd.Flags().Lookup("tokenizer"))
	rootCmd.Flags().StringVar(&tokenizerFile, "tokenizer-file", "", "Path to a local tokenizer.json (huggingface backend)")
	viper.BindPFlag("tokenizer_file", rootCmd.Flags().Lookup("tokenizer-file"))

	// Filtering
	rootCmd.Flags().StringVar(&extList, "ext", defaultExtensions, "Comma-separated extensions to include (empty string includes all files)")
	viper.BindPFlag("ext", rootCmd.Flags().Lookup("ext"))
	rootCmd.Flags().BoolVar(&useGitignore, "gitignore", false, "Also honor a .gitignore at the scan root")
	viper.BindPFlag("gitignore", rootCmd.Flags().Lookup("gitignore"))
	rootCmd.Flags().Int64VarP(&maxSizeBytes, "max-size", "s", 0, "Maximum file size in bytes (0 for no limit)")
	viper.BindPFlag("max_size", rootCmd.Flags().Lookup("max-size"))

	// Output
	rootCmd.Flags().StringVar(&jsonOut, "json", "", "Write the detailed JSON report to this path")
	viper.BindPFlag("json", rootCmd.Flags().Lookup("json"))
	rootCmd.Flags().StringVar(&csvOut, "csv", "", "Write the CSV summary to this path")
	viper.BindPFlag("csv", rootCmd.Flags().Lookup("csv"))
	rootCmd.Flags().StringVar(&pdfOut, "pdf", "", "Write a PDF report to this path")
	viper.BindPFlag("pdf", rootCmd.Flags().Lookup("pdf"))
	rootCmd.Flags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy the console summary to the clipboard")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))

	// Web roots
	rootCmd.Flags().BoolVar(&traverseLinks, "traverse-links", false, "Follow links when the root is a web URL")
	viper.BindPFlag("traverse_links", rootCmd.Flags().Lookup("traverse-links"))
	rootCmd.Flags().IntVar(&linkDepth, "link-depth", 1, "Maximum link depth for web traversal")
	viper.BindPFlag("link_depth", rootCmd.Flags().Lookup("link-depth"))

	// Interactive mode
	rootCmd.Flags().BoolVar(&interactiveMode, "interactive", false, "Pick the scan root with a fuzzy finder")
	viper.BindPFlag("interactive", rootCmd.Flags().Lookup("interactive"))

	viper.SetDefault("model", "gpt-4o")
	viper.SetDefault("tokenizer", "tiktoken")
	viper.SetDefault("ext", defaultExtensions)
	viper.SetDefault("gitignore", false)
	viper.SetDefault("max_size", 0)
	viper.SetDefault("traverse_links", false)
	viper.SetDefault("link_depth", 1)
}

// initConfig reads in the config file and TOKSUM_* environment variables.
func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "toksum"))
	}
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TOKSUM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
	}

	// Precedence is default < config < env < flag. The flag variables
	// only see defaults and explicit flags, so pull config/env values in
	// for anything the user did not pass on the command line.
	if !rootCmd.Flags().Changed("model") {
		modelHint = viper.GetString("model")
	}
	if !rootCmd.Flags().Changed("tokenizer") {
		tokenizerType = viper.GetString("tokenizer")
	}
	if !rootCmd.Flags().Changed("ext") {
		extList = viper.GetString("ext")
	}
	if !rootCmd.Flags().Changed("max-size") {
		maxSizeBytes = viper.GetInt64("max_size")
	}
	if !rootCmd.Flags().Changed("link-depth") {
		linkDepth = viper.GetInt("link_depth")
	}
}

// initLanguages loads the optional language definitions.
func initLanguages() {
	var err error
	langData, err = loadLanguageData()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load language definitions: %v\n", err)
		langData = nil
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
