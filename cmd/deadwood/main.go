package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"deadwood/internal/app"
	"deadwood/internal/config"
	"deadwood/internal/deadcode"
	"deadwood/internal/encryption"
	"deadwood/internal/model"
	"deadwood/internal/source"
	"deadwood/internal/vcs"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "deadwood",
	Short: "Detect, archive, and remove dead code from TypeScript/JavaScript projects",
}

// loadConfig reads the project config and applies the store override
// precedence: flag, then environment, then config file.
func loadConfig(projectRoot, mongoFlag, dbFlag string) (*config.Config, error) {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	defaults := app.GetDefaults()
	switch {
	case mongoFlag != "":
		cfg.Store.URI = mongoFlag
	case defaults["store_uri"] != "":
		cfg.Store.URI = defaults["store_uri"]
	}
	switch {
	case dbFlag != "":
		cfg.Store.Database = dbFlag
	case defaults["store_db"] != "":
		cfg.Store.Database = defaults["store_db"]
	}

	return cfg, nil
}

// consoleSink prints scan events to stdout. Archival events are shown only in
// report mode; deletions are always shown.
type consoleSink struct {
	verbose bool
}

func (s *consoleSink) FileArchived(item *model.ArchiveItem) {
	if s.verbose {
		fmt.Printf("archived  file      %-40s  confidence %.2f\n", item.Path, item.Confidence)
	}
}

func (s *consoleSink) SymbolArchived(item *model.ArchiveItem) {
	if s.verbose {
		name := ""
		if item.Name != nil {
			name = *item.Name
		}
		fmt.Printf("archived  %-8s  %-40s  confidence %.2f\n", item.Type, item.Path+":"+name, item.Confidence)
	}
}

func (s *consoleSink) FileDeleted(path string) {
	fmt.Printf("deleted   file      %s\n", path)
}

func (s *consoleSink) SymbolRetained(item *model.ArchiveItem) {
	if s.verbose {
		name := ""
		if item.Name != nil {
			name = *item.Name
		}
		fmt.Printf("retained  %-8s  %s:%s (archived, source unchanged)\n", item.Type, item.Path, name)
	}
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a project for dead code and archive findings",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		project, _ := flags.GetString("project")
		entries, _ := flags.GetStringSlice("entry")
		mongoURI, _ := flags.GetString("mongo")
		database, _ := flags.GetString("db")
		apply, _ := flags.GetBool("apply")
		report, _ := flags.GetBool("report")
		note, _ := flags.GetString("note")

		projectRoot, err := filepath.Abs(project)
		if err != nil {
			return fmt.Errorf("resolving project path: %w", err)
		}

		cfg, err := loadConfig(projectRoot, mongoURI, database)
		if err != nil {
			return err
		}
		if flags.Changed("confidence") {
			cfg.Confidence, _ = flags.GetFloat64("confidence")
		}
		if flags.Changed("src-dir") {
			cfg.SrcDir, _ = flags.GetString("src-dir")
		}
		if cfg.Confidence < 0 || cfg.Confidence > 1 {
			return fmt.Errorf("confidence threshold must be in [0,1], got %g", cfg.Confidence)
		}

		units, parser, err := source.LoadProject(projectRoot, cfg.SrcDir)
		if err != nil {
			return fmt.Errorf("loading project: %w", err)
		}

		sink := &consoleSink{verbose: report}
		a, err := app.New(cmd.Context(), cfg, "scan", app.Options{
			Parser:     parser,
			Events:     sink,
			WithBackup: apply && cfg.BackupBeforeDelete,
		})
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		entrypoints := entries
		if len(entrypoints) == 0 {
			entrypoints = cfg.Entrypoints
		}

		info := vcs.Lookup(projectRoot)

		result, err := a.Service().Scan(cmd.Context(), deadcode.ScanRequest{
			ProjectRoot:        projectRoot,
			SrcDir:             cfg.SrcDir,
			Units:              units,
			Entrypoints:        entrypoints,
			Exempt:             deadcode.NewExemptMatcher(cfg.IgnorePatterns),
			Threshold:          cfg.Confidence,
			TTLDays:            cfg.TTLDays,
			Repo:               info.Repo,
			Commit:             info.Commit,
			Note:               note,
			Apply:              apply,
			SafeDelete:         cfg.SafeDelete,
			BackupBeforeDelete: cfg.BackupBeforeDelete,
			EncryptBackups:     cfg.Backup.Encrypt,
		})
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		fmt.Printf("Scanned %d file(s): %d unreachable file(s), %d unused symbol(s)\n",
			len(units), result.UnreachableFiles, result.UnusedSymbols)
		fmt.Printf("Archived %d finding(s) at confidence >= %.2f (TTL %d days)\n",
			result.Archived, cfg.Confidence, cfg.TTLDays)
		if apply {
			fmt.Printf("Deleted %d file(s); %d symbol(s) retained in source\n",
				result.Deleted, result.Retained)
		}
		return nil
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore ID",
	Short: "Restore an archived item by identifier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		output, _ := flags.GetString("output")
		mongoURI, _ := flags.GetString("mongo")
		database, _ := flags.GetString("db")

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}

		cfg, err := loadConfig(cwd, mongoURI, database)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg, "restore", app.Options{})
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		item, data, err := a.Service().Restore(cmd.Context(), args[0], output)
		if err != nil {
			return err
		}

		if output == "" {
			os.Stdout.Write(data)
			return nil
		}

		what := string(item.Type)
		if item.Name != nil {
			what += " " + *item.Name
		}
		fmt.Printf("Restored %s (originally %s) to %s\n", what, item.Path, output)
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived items, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		mongoURI, _ := flags.GetString("mongo")
		database, _ := flags.GetString("db")
		repo, _ := flags.GetString("repo")
		itemType, _ := flags.GetString("type")
		limit, _ := flags.GetInt("limit")

		if itemType != "" && !validItemType(itemType) {
			return fmt.Errorf("invalid type %q: must be one of file, function, method, variable, class", itemType)
		}

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}

		cfg, err := loadConfig(cwd, mongoURI, database)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg, "list", app.Options{})
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		items, err := a.Service().List(cmd.Context(), deadcode.ListFilter{Repo: repo, Type: itemType}, limit)
		if err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Println("No archived items.")
			return nil
		}

		for _, item := range items {
			where := item.Path
			if item.Name != nil {
				where += ":" + *item.Name
			}
			fmt.Printf("%-24s  %-8s  %.2f  %-15s  %s  expires %s  %s\n",
				item.ID,
				item.Type,
				item.Confidence,
				item.Reason,
				item.CreatedAt.Format("2006-01-02 15:04:05"),
				item.ExpiresAt.Format("2006-01-02"),
				where,
			)
		}
		return nil
	},
}

func validItemType(t string) bool {
	switch model.ItemType(t) {
	case model.ItemFile, model.ItemFunction, model.ItemMethod, model.ItemVariable, model.ItemClass:
		return true
	}
	return false
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file at the project root",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}

		path, err := config.Init(cwd)
		if err != nil {
			return err
		}

		fmt.Printf("Configuration initialized at %s\n", path)
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage backup encryption keys",
}

var configKeysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the backup encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}

		cfg, err := config.Load(cwd)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		enc := encryption.NewAgeEncryptor(cfg.Encryption)
		if enc.IsConfigured() {
			return fmt.Errorf("encryption keys already exist at %s", cfg.Encryption.PrivateKeyPath)
		}

		passphrase, err := promptPassphrase("Enter passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		if err := enc.Setup(passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Printf("Public key:  %s\n", cfg.Encryption.PublicKeyPath)
		fmt.Printf("Private key: %s (passphrase-protected)\n", cfg.Encryption.PrivateKeyPath)
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage pre-delete backup copies",
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore KEY",
	Short: "Stream a pre-delete backup copy out of the vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		output, _ := flags.GetString("output")
		mongoURI, _ := flags.GetString("mongo")
		database, _ := flags.GetString("db")

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}

		cfg, err := loadConfig(cwd, mongoURI, database)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg, "backup-restore", app.Options{WithBackup: true})
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		key := args[0]

		var decrypt deadcode.DecryptionContext
		if strings.HasSuffix(key, ".age") {
			enc := a.Encryptor()
			if enc == nil {
				return fmt.Errorf("backup %s is encrypted but backup encryption is disabled in config", key)
			}
			passphrase, err := promptPassphrase("Enter passphrase: ")
			if err != nil {
				return err
			}
			decrypt, err = enc.Unlock(passphrase)
			if err != nil {
				return fmt.Errorf("unlocking private key: %w", err)
			}
		}

		w := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			w = f
		}

		if err := a.Service().RestoreBackup(key, w, decrypt); err != nil {
			return err
		}

		if output != "" {
			fmt.Printf("Restored backup %s to %s\n", key, output)
		}
		return nil
	},
}

// promptPassphrase reads a passphrase from the terminal without echo.
func promptPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

func init() {
	scanCmd.Flags().String("project", ".", "Project root to scan")
	scanCmd.Flags().StringSlice("entry", nil, "Entrypoint file(s), relative to the project root")
	scanCmd.Flags().String("mongo", "", "Archive store connection URI")
	scanCmd.Flags().String("db", "", "Archive store database name")
	scanCmd.Flags().Bool("apply", false, "Delete unreachable files after archiving")
	scanCmd.Flags().Bool("report", false, "Print every archived finding")
	scanCmd.Flags().Float64("confidence", 0.9, "Minimum confidence to archive a finding")
	scanCmd.Flags().String("src-dir", "src", "Source directory for default entrypoint discovery")
	scanCmd.Flags().String("note", "", "Free-form note attached to every archived finding")

	restoreCmd.Flags().StringP("output", "o", "", "Write restored content to this path instead of stdout")
	restoreCmd.Flags().String("mongo", "", "Archive store connection URI")
	restoreCmd.Flags().String("db", "", "Archive store database name")

	listCmd.Flags().String("mongo", "", "Archive store connection URI")
	listCmd.Flags().String("db", "", "Archive store database name")
	listCmd.Flags().String("repo", "", "Only show items from this repository")
	listCmd.Flags().String("type", "", "Only show items of this type (file, function, method, variable, class)")
	listCmd.Flags().IntP("limit", "n", 50, "Maximum number of items to show")

	backupRestoreCmd.Flags().StringP("output", "o", "", "Write the backup copy to this path instead of stdout")
	backupRestoreCmd.Flags().String("mongo", "", "Archive store connection URI")
	backupRestoreCmd.Flags().String("db", "", "Archive store database name")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configKeysCmd)
	configKeysCmd.AddCommand(configKeysInitCmd)

	backupCmd.AddCommand(backupRestoreCmd)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(backupCmd)
}
