package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canlink/canusb"
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "list attached serial ports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := canusb.PortDetails()
		if err != nil {
			return err
		}
		for _, port := range ports {
			fmt.Println("port:", port.Name)
			if port.IsUSB {
				fmt.Printf("   USB ID      %s:%s\n", port.VID, port.PID)
				fmt.Printf("   USB serial  %s\n", port.SerialNumber)
			}
		}
		return nil
	},
}
