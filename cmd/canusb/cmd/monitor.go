package cmd

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/canlink/canusb"
)

func init() {
	rootCmd.AddCommand(monitorCmd)
}

var monitorCmd = &cobra.Command{
	Use:   "monitor [count]",
	Short: "print inbound CAN frames, optionally stopping after count frames",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count := 0
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid frame count %q: %w", args[0], err)
			}
			count = n
		}

		client, port, err := openClient(cmd)
		if err != nil {
			return err
		}
		defer port.Close()
		defer client.CloseChannel()

		ctx := cmd.Context()
		frames := make(chan *canusb.Frame, 16)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			defer close(frames)
			return client.Monitor(gctx, count, func(f *canusb.Frame) {
				frames <- f
			})
		})
		g.Go(func() error {
			for f := range frames {
				fmt.Println(f.ColorString())
			}
			return nil
		})

		// Closing the port is the only way to unblock a pending read.
		go func() {
			<-gctx.Done()
			port.Close()
		}()

		if err := g.Wait(); err != nil && ctx.Err() == nil {
			return err
		}
		log.Println("monitor done")
		return nil
	},
}
