package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/canlink/canusb"
)

var sendExtended bool

func init() {
	sendCmd.Flags().BoolVarP(&sendExtended, "extended", "e", false, "use a 29-bit identifier")
	rootCmd.AddCommand(sendCmd)
}

var sendCmd = &cobra.Command{
	Use:   "send <id> [hexdata]",
	Short: "transmit a single CAN frame",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 16, 32)
		if err != nil {
			return fmt.Errorf("invalid identifier %q: %w", args[0], err)
		}
		var data []byte
		if len(args) == 2 {
			data, err = hex.DecodeString(args[1])
			if err != nil {
				return fmt.Errorf("invalid data %q: %w", args[1], err)
			}
		}

		frame := canusb.NewFrame(uint32(id), data)
		if sendExtended {
			frame = canusb.NewExtendedFrame(uint32(id), data)
		}

		client, port, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer port.Close()
		defer client.CloseChannel()

		status, err := client.Transmit(frame)
		if err != nil {
			return err
		}
		fmt.Printf("%s => %s\n", frame.String(), status)
		return nil
	},
}
