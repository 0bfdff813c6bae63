// Package cmd implements the command-line interface for vidra.
package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vidra-cli/vidra/auth"
	"github.com/vidra-cli/vidra/icon"
	"github.com/vidra-cli/vidra/key"
	"github.com/vidra-cli/vidra/log"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authHostedCmd)
	authHostedCmd.Flags().BoolP("delete", "d", false, "Remove the stored hosted-service credentials")
}

// authCmd manages credentials for external playback services.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage credentials for external playback services",
	Long:  `Store or remove the credentials used by hosted-video lookups. The policy key is kept in the system keyring, never in the config file.`,
}

// authHostedCmd configures the hosted-video service credentials.
var authHostedCmd = &cobra.Command{
	Use:   "hosted",
	Short: "Configure the hosted-video service credentials",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("delete")) {
			viper.Set(key.HostedAccountID, "")
			handleErr(auth.DeletePolicyKey())
			log.Info("hosted-service credentials removed")
			handleErr(viper.WriteConfig())
			return
		}

		if viper.GetString(key.HostedAccountID) == "" {
			input := survey.Input{
				Message: "Hosted account ID is not set. Please enter it:",
				Help:    "",
			}
			var response string
			err := survey.AskOne(&input, &response)
			handleErr(err)

			if response == "" {
				return
			}

			viper.Set(key.HostedAccountID, response)
			err = viper.WriteConfig()
			if err != nil {
				switch err.(type) {
				case viper.ConfigFileNotFoundError:
					handleErr(viper.SafeWriteConfig())
				default:
					handleErr(err)
				}
			}
		}

		if _, err := auth.GetPolicyKey(); err != nil {
			prompt := survey.Password{
				Message: "Policy key is not set. Please enter it:",
			}
			var response string
			err := survey.AskOne(&prompt, &response)
			handleErr(err)

			if response == "" {
				return
			}

			handleErr(auth.SetPolicyKey(response))
		}

		fmt.Printf("%s hosted-service credentials were set up\n", icon.Get(icon.Success))
	},
}
