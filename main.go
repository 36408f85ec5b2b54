package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Filtering
	excludeDirs string
	includeExts string
	excludeExts string

	// Processing
	workers int
	verbose bool

	// Tokenizer
	modelName     string
	tokenizerType string
	tokenizerFile string

	// Output
	breakdown       bool
	copyToClipboard bool
	pdfOutputFile   string

	// Supplemental behavior
	useGitignore    bool
	interactiveMode bool
)

// version is the application version, set via ldflags.
var version string = "dev"

var rootCmd = &cobra.Command{
	Use:   "toksum <directory | git-url | web-url>",
	Short: "toksum counts LLM tokens across a codebase.",
	Long: `toksum walks a directory tree (or a Git repository URL, or a web page),
tokenizes every eligible text file with the selected model's encoding, and
reports the total token count. Use it to estimate whether a codebase fits
a model's context window.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runScan(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Filtering
	rootCmd.Flags().StringVarP(&excludeDirs, "exclude-dirs", "e", ".git", "Comma-separated directory names to exclude (exact match). Empty string disables pruning.")
	viper.BindPFlag("exclude_dirs", rootCmd.Flags().Lookup("exclude-dirs"))
	rootCmd.Flags().StringVarP(&includeExts, "include-ext", "i", "", "Comma-separated file extensions to include (e.g. .py,.go). Empty includes all.")
	viper.BindPFlag("include_ext", rootCmd.Flags().Lookup("include-ext"))
	rootCmd.Flags().StringVarP(&excludeExts, "exclude-ext", "x", "", "Comma-separated file extensions to exclude, applied after inclusion (e.g. .md,.txt).")
	viper.BindPFlag("exclude_ext", rootCmd.Flags().Lookup("exclude-ext"))
	rootCmd.Flags().BoolVar(&useGitignore, "gitignore", false, "Also prune paths matched by the root .gitignore")
	viper.BindPFlag("gitignore", rootCmd.Flags().Lookup("gitignore"))

	// Processing
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of parallel workers (0 = number of CPU cores)")
	viper.BindPFlag("workers", rootCmd.Flags().Lookup("workers"))
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print a progress line every 1000 processed files")
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))

	// Tokenizer
	rootCmd.Flags().StringVarP(&modelName, "model", "m", defaultModel, "Model to use for tokenization (e.g. gpt-3.5-turbo, gpt-4, gpt-4o)")
	viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	rootCmd.Flags().StringVar(&tokenizerType, "tokenizer", "tiktoken", "Tokenizer backend: tiktoken or huggingface")
	viper.BindPFlag("tokenizer", rootCmd.Flags().Lookup("tokenizer"))
	rootCmd.Flags().StringVar(&tokenizerFile, "tokenizer-file", "", "Path to a local HuggingFace tokenizer.json")
	viper.BindPFlag("tokenizer_file", rootCmd.Flags().Lookup("tokenizer-file"))

	// Output
	rootCmd.Flags().BoolVarP(&breakdown, "breakdown", "b", false, "Print a per-file token count table before the total")
	viper.BindPFlag("breakdown", rootCmd.Flags().Lookup("breakdown"))
	rootCmd.Flags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy the report to the clipboard")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))
	rootCmd.Flags().StringVar(&pdfOutputFile, "pdf", "", "Also save the report as a PDF")
	viper.BindPFlag("pdf", rootCmd.Flags().Lookup("pdf"))

	// Interactive Mode
	rootCmd.Flags().BoolVar(&interactiveMode, "interactive", false, "Pick the scan root with a fuzzy finder instead of an argument")
	viper.BindPFlag("interactive", rootCmd.Flags().Lookup("interactive"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.AddConfigPath(filepath.Join(home, ".config", "toksum"))
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.SetEnvPrefix("TOKSUM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
		}
	}
}

// runScan resolves the configuration, picks the input kind, and drives the
// pipeline. Any returned error is fatal; per-file problems are handled
// further down and never bubble up here.
func runScan(cmd *cobra.Command, args []string) error {
	var input string
	if viper.GetBool("interactive") {
		picked, err := runInteractiveFinder()
		if err != nil {
			return err
		}
		if picked == "" {
			return nil // selection aborted
		}
		input = picked
	} else {
		if len(args) != 1 {
			_ = cmd.Usage()
			return fmt.Errorf("a directory, Git URL, or web URL is required")
		}
		input = args[0]
	}

	cfg := ScanConfig{
		ExcludeDirs: parseDirSet(viper.GetString("exclude_dirs")),
		IncludeExts: parseExtSet(viper.GetString("include_ext")),
		ExcludeExts: parseExtSet(viper.GetString("exclude_ext")),
		Model:       viper.GetString("model"),
		Workers:     viper.GetInt("workers"),
		Verbose:     viper.GetBool("verbose"),
		Gitignore:   viper.GetBool("gitignore"),
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if len(cfg.ExcludeDirs) == 0 {
		fmt.Fprintln(os.Stderr, "No directories are being excluded. Including all directories, including .git.")
	}

	tok, err := resolveTokenizer(viper.GetString("tokenizer"), cfg.Model, viper.GetString("tokenizer_file"))
	if err != nil {
		return err
	}
	defer tok.Close()

	showBreakdown := viper.GetBool("breakdown")
	toClipboard := viper.GetBool("clipboard")
	pdfPath := viper.GetString("pdf")

	// A web page is a single document, not a tree; count it directly.
	if isWebURL(input) {
		title, markdown, err := fetchWebDocument(input)
		if err != nil {
			return err
		}
		results := []FileResult{{Path: title, Tokens: tok.CountTokens(markdown)}}
		sum := Summary{TotalFiles: 1, TotalTokens: results[0].Tokens}
		emitReport(buildReport(results, sum, showBreakdown), results, sum, toClipboard, pdfPath)
		return nil
	}

	if isGitURL(input) {
		tempDir, err := cloneGitRepo(input)
		if err != nil {
			return err
		}
		defer os.RemoveAll(tempDir)
		cfg.Root = tempDir
	} else {
		cfg.Root = input
	}

	fmt.Fprintf(os.Stderr, "Scanning directory: %s\n", input)
	candidates, err := enumerate(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Found %d text file(s) to process.\n", len(candidates))

	results, sum := runPool(candidates, tok, cfg.Workers, cfg.Verbose)
	emitReport(buildReport(results, sum, showBreakdown), results, sum, toClipboard, pdfPath)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
