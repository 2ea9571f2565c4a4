package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/canlink/canusb"
	"github.com/canlink/canusb/pkg/bar"
	"github.com/canlink/canusb/pkg/isotp"
)

var isotpFile string

func init() {
	isotpCmd.Flags().StringVarP(&isotpFile, "file", "f", "", "read the payload from a file instead of the command line")
	rootCmd.AddCommand(isotpCmd)
}

var isotpCmd = &cobra.Command{
	Use:   "isotp <id> [hexpayload]",
	Short: "transmit a payload as ISO-TP segments",
	Long: `Splits the payload into ISO-TP Single/First/Consecutive segments and
transmits them in order. Flow control from the receiver is not awaited;
this is a fire-and-forget sender for bench use.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 16, 32)
		if err != nil {
			return fmt.Errorf("invalid identifier %q: %w", args[0], err)
		}

		var payload []byte
		switch {
		case isotpFile != "":
			payload, err = os.ReadFile(isotpFile)
			if err != nil {
				return err
			}
		case len(args) == 2:
			payload, err = hex.DecodeString(args[1])
			if err != nil {
				return fmt.Errorf("invalid payload %q: %w", args[1], err)
			}
		default:
			return fmt.Errorf("no payload given")
		}

		segments, err := isotp.Split(payload)
		if err != nil {
			return err
		}

		client, port, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer port.Close()
		defer client.CloseChannel()

		pb := bar.New(len(segments), fmt.Sprintf("sending %d bytes", len(payload)))
		for _, seg := range segments {
			frame := canusb.NewFrame(uint32(id), seg.Bytes())
			status, err := client.Transmit(frame)
			if err != nil {
				return err
			}
			if status == canusb.StatusError {
				return fmt.Errorf("adapter rejected segment: %s", frame)
			}
			pb.Add(1)
		}
		fmt.Println()
		return nil
	},
}
