// Package cmd implements the command-line interface for vidra.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vidra-cli/vidra/color"
	"github.com/vidra-cli/vidra/constant"
	"github.com/vidra-cli/vidra/history"
	"github.com/vidra-cli/vidra/icon"
	"github.com/vidra-cli/vidra/key"
	"github.com/vidra-cli/vidra/log"
	"github.com/vidra-cli/vidra/style"
	"github.com/vidra-cli/vidra/tui"
	"github.com/vidra-cli/vidra/util"
	"github.com/vidra-cli/vidra/version"
	"github.com/vidra-cli/vidra/where"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Persist playback progress to the localized watch history")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnPlay, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.Flags().BoolP("continue", "c", false, "Resume playback from the saved position for this target")
	rootCmd.Flags().StringP("title", "t", "", "Override the display title derived from the target")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Initialize cleanup of localized temporary files on application startup.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the vidra application.
var rootCmd = &cobra.Command{
	Use:   constant.Vidra + " [url]",
	Short: "A " + constant.Tagline,
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - "+constant.Tagline),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		runPlayback(cmd, args)
	},
}

// runPlayback resolves a playback target and hands it to the transport TUI.
// Shared by the bare root invocation and the explicit play subcommand.
func runPlayback(cmd *cobra.Command, args []string) {
	CheckDependencies()

	var url string
	if len(args) > 0 {
		url = args[0]
	} else {
		url = promptTarget()
	}

	options := tui.Options{
		URL:      url,
		Title:    lo.Must(cmd.Flags().GetString("title")),
		Continue: lo.Must(cmd.Flags().GetBool("continue")),
	}
	handleErr(tui.Run(&options))
}

// promptTarget asks for a playback target, suggesting recent history entries.
func promptTarget() string {
	saved, err := history.Get()
	if err != nil {
		log.Warn(err)
	}

	suggestions := lo.Map(lo.Values(saved), func(s *history.SavedPlayback, _ int) string {
		return s.Handle
	})

	input := survey.Input{
		Message: "What should I play?",
		Help:    "A stream URL or a local media path",
		Suggest: func(toComplete string) []string {
			return lo.Filter(suggestions, func(s string, _ int) bool {
				return strings.HasPrefix(s, toComplete)
			})
		},
	}

	var response string
	handleErr(survey.AskOne(&input, &response))

	if response == "" {
		handleErr(errors.New("a playback target is required"))
	}

	return response
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
