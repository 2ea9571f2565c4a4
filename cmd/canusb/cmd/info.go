package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "print adapter version, serial number and status flags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, port, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer port.Close()
		defer client.CloseChannel()

		version, err := client.Version()
		if err != nil {
			return err
		}
		serial, err := client.Serial()
		if err != nil {
			return err
		}
		flags, err := client.StatusFlags()
		if err != nil {
			return err
		}

		fmt.Println("version:", version)
		fmt.Println("serial: ", serial)
		if err := flags.Err(); err != nil {
			fmt.Println("status: ", err)
		} else {
			fmt.Println("status:  ok")
		}
		return nil
	},
}
