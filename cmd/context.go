package cmd

import (
	"fmt"
	"os"

	"github.com/emrgen/glossary/pkg/client"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFileName = "glossary"
	defaultAddress = "http://localhost:8080"
)

var contextCommand = &cobra.Command{
	Use:   "context",
	Short: "context commands",
}

func init() {
	contextCommand.AddCommand(setContextCommand())
	contextCommand.AddCommand(currentContextCommand())
	contextCommand.AddCommand(resetContextCommand())
}

type Context struct {
	Address string `json:"address"`
	Email   string `json:"email"`
}

// saves the server address and identity to the config file in ./.tmp
func setContextCommand() *cobra.Command {
	var address string
	var email string
	command := &cobra.Command{
		Use:   "set",
		Short: "set context",
		Run: func(cmd *cobra.Command, args []string) {
			if address == "" && email == "" {
				color.Red(`missing: --address or --email`)
				return
			}

			ctx := readContext()
			if address != "" {
				ctx.Address = address
			}
			if email != "" {
				ctx.Email = email
			}
			writeContext(ctx)
			fmt.Println("context saved")
		},
	}

	command.Flags().StringVarP(&address, "address", "a", "", "server address")
	command.Flags().StringVarP(&email, "email", "e", "", "identity email")

	return command
}

func currentContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "current context",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := readContext()
			fmt.Printf("address: %s\n", serverAddress(ctx))
			fmt.Printf("email: %s\n", ctx.Email)
		},
	}

	return command
}

func resetContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "reset context",
		Run: func(cmd *cobra.Command, args []string) {
			writeContext(Context{})
			fmt.Println("context reset")
		},
	}

	return command
}

func serverAddress(ctx Context) string {
	if ctx.Address == "" {
		return defaultAddress
	}
	return ctx.Address
}

// apiClient builds a service client from the saved context.
func apiClient() *client.Client {
	ctx := readContext()

	var opts []client.Option
	if ctx.Email != "" {
		opts = append(opts, client.WithIdentity(ctx.Email))
	}

	return client.NewClient(serverAddress(ctx), opts...)
}

func writeContext(context Context) {
	viper.SetConfigName(configFileName)
	viper.AddConfigPath("./.tmp")
	viper.SetConfigType("yml")
	viper.Set("context", context)

	if err := viper.WriteConfig(); err != nil {
		fmt.Println("error writing config file: ", err)
	}
}

func readContext() Context {
	var ctx Context

	// create file if it doesn't exist
	if _, err := os.Stat("./.tmp/" + configFileName + ".yml"); os.IsNotExist(err) {
		if err := os.MkdirAll("./.tmp", 0755); err != nil {
			fmt.Println("error creating config dir: ", err)
			return ctx
		}
		file, err := os.Create("./.tmp/" + configFileName + ".yml")
		if err != nil {
			fmt.Println("error creating config file: ", err)
		}
		err = file.Close()
		if err != nil {
			panic(err)
		}
	}

	viper.SetConfigName(configFileName)
	viper.AddConfigPath("./.tmp")
	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("error reading config file: ", err)
	}

	if err := viper.UnmarshalKey("context", &ctx); err != nil {
		fmt.Println("error unmarshalling config file: ", err)
	}

	return ctx
}
