package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	trojanlinter "github.com/encukou/trojan-linter"
)

var lintCmd = &cobra.Command{
	Use:   "lint [path...]",
	Short: "lint one or more files or directories for Unicode hazards",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}

		profile, err := profileFor(profileName)
		if err != nil {
			return err
		}

		foundAny := false
		for _, arg := range args {
			err := filepath.Walk(arg, func(path string, info fs.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() || !strings.HasSuffix(path, ".py") {
					return nil
				}
				if verbose {
					log.WithField("path", path).Debug("linting file")
				}
				hit, err := lintFile(cmd, path, profile)
				if err != nil {
					return err
				}
				if hit {
					foundAny = true
				}
				return nil
			})
			if err != nil {
				return err
			}
		}

		if foundAny {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func profileFor(name string) (trojanlinter.Profile, error) {
	switch name {
	case "python":
		return trojanlinter.PythonProfile(), nil
	case "testing":
		return trojanlinter.TestingProfile(), nil
	default:
		return trojanlinter.Profile{}, fmt.Errorf("unknown profile %q", name)
	}
}

// lintFile reads and lints a single file, printing one line per finding in
// "path:row:col: WARNING: message" form, and reports whether it produced
// any findings at all.
func lintFile(cmd *cobra.Command, path string, profile trojanlinter.Profile) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	file, err := trojanlinter.Lint(path, string(content), profile)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, err)
		return true, nil
	}

	found := false
	for _, line := range file.Lines {
		for _, tok := range line.Tokens {
			for _, f := range tok.Findings() {
				found = true
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d: WARNING: %s token %s\n",
					path, tok.Row(), tok.Col(), tok.Type, f.Message())
			}
		}
		for _, f := range line.Findings() {
			found = true
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d: WARNING: %s\n",
				path, line.Row(), line.Col(), f.Message())
		}
	}
	return found, nil
}
