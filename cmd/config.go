package cmd

import (
	"bufio"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/benoctopus/track/internal/config"
	"github.com/benoctopus/track/internal/logging"
	"github.com/benoctopus/track/internal/track"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the track configuration file",
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the track configuration file",
	Long: `Opens the track configuration file in your default editor.

The config file is located at:
  - Linux: ~/.config/track/config.yaml
  - macOS: ~/Library/Application Support/track/config.yaml
  - Windows: %APPDATA%\track\config.yaml

The editor is determined by the VISUAL or EDITOR environment variable (falls
back to vi).

After editing, the configuration will be validated. If validation fails, you'll
be asked whether to edit again or keep the file as it is.

Example config.yaml:
  version: "1"
  data_dir: ~/.local/share/track
  delete_policy: reject
  timezone: Local
  fuzzy_finder: auto
  log_level: warn
`,
	Args: validArgs(cobra.NoArgs),
	RunE: runConfigEdit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  validArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		printer(cmd).Println(configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	out := printer(cmd)

	configPath, err := config.GetConfigPath()
	if err != nil {
		return eris.Wrap(err, "failed to get config path")
	}

	if err := config.EnsureConfigDir(); err != nil {
		return eris.Wrap(err, "failed to ensure config directory")
	}

	// Create config file with defaults if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := createDefaultConfig(); err != nil {
			return eris.Wrap(err, "failed to create default config")
		}
		out.Infof("Created default config at: %s", configPath)
	}

	hashBefore, err := hashFile(configPath)
	if err != nil {
		return eris.Wrap(err, "failed to hash config file")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	var invalid error
	for {
		editor := getEditor()
		editorCmd := exec.Command(editor, configPath)
		editorCmd.Stdin = os.Stdin
		editorCmd.Stdout = os.Stdout
		editorCmd.Stderr = os.Stderr
		if err := editorCmd.Run(); err != nil {
			return eris.Wrapf(err, "failed to run editor: %s", editor)
		}

		hashAfter, err := hashFile(configPath)
		if err != nil {
			return eris.Wrap(err, "failed to hash config file after editing")
		}
		if hashBefore == hashAfter {
			if invalid != nil {
				return eris.Wrap(invalid, "config validation failed")
			}
			out.Println("No changes made to config")
			return nil
		}
		hashBefore = hashAfter

		invalid = config.ValidateConfigFile(configPath)
		if invalid == nil {
			out.Successf("Config saved and validated successfully: %s", configPath)
			return nil
		}

		out.Errorf("Config validation failed: %s", eris.ToString(invalid, false))
		out.Print("Edit again to fix the errors? [Y/n] ")
		answer, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return eris.Wrap(err, "failed to read answer")
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer == "n" || answer == "no" || (answer == "" && err == io.EOF) {
			out.Warningf("Keeping the invalid config; track commands will fail until it is fixed")
			return eris.Wrap(invalid, "config validation failed")
		}
	}
}

// getEditor returns the user's preferred editor
// Priority: VISUAL > EDITOR > vi
func getEditor() string {
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vi"
}

// createDefaultConfig writes the resolved defaults to the config file
func createDefaultConfig() error {
	dataDir, err := config.GetDataDir()
	if err != nil {
		return err
	}

	cfg := &config.Config{
		DataDir:      dataDir,
		DeletePolicy: track.DeleteReject,
		Timezone:     "Local",
		FuzzyFinder:  "auto",
		LogLevel:     logging.DefaultLevel,
	}
	return config.SaveConfig(cfg)
}

// hashFile computes the SHA256 hash of a file
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
