package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/avast/retry-go"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.bug.st/serial"

	"github.com/canlink/canusb"
)

var rootCmd = &cobra.Command{
	Use:          "canusb",
	Short:        "LAWICEL CANUSB swiss army tool",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once from main.main().
func Execute(ctx context.Context) {
	rootCmd.ExecuteContext(ctx)
}

const (
	flagPort     = "port"
	flagBaudrate = "baudrate"
	flagBitrate  = "bitrate"
	flagDebug    = "debug"
)

func init() {
	log.SetFlags(log.Lshortfile | log.LstdFlags)

	pf := rootCmd.PersistentFlags()
	pf.StringP(flagPort, "p", "*", "com-port, * = pick interactively")
	pf.IntP(flagBaudrate, "b", 115200, "com-port baudrate")
	pf.IntP(flagBitrate, "r", 500000, "CAN bus bitrate")
	pf.BoolP(flagDebug, "d", false, "print wire traffic")
}

// resolvePort turns the port flag into a device name, prompting when the
// flag is the wildcard.
func resolvePort(cmd *cobra.Command) (string, error) {
	name, err := cmd.Flags().GetString(flagPort)
	if err != nil {
		return "", err
	}
	if name != "*" {
		return name, nil
	}
	ports, err := canusb.PortDetails()
	if err != nil {
		return "", err
	}
	items := make([]string, len(ports))
	for i, p := range ports {
		items[i] = p.Name
		if p.IsUSB {
			items[i] += fmt.Sprintf("  (USB %s:%s %s)", p.VID, p.PID, p.SerialNumber)
		}
	}
	sel := promptui.Select{Label: "Select serial port", Items: items}
	idx, _, err := sel.Run()
	if err != nil {
		return "", err
	}
	return ports[idx].Name, nil
}

// openClient opens the serial port and runs the adapter bring-up sequence.
// Bring-up is retried a few times since freshly plugged adapters tend to
// reject the first commands; the protocol engine itself never retries.
func openClient(cmd *cobra.Command) (*canusb.Client, serial.Port, error) {
	portName, err := resolvePort(cmd)
	if err != nil {
		return nil, nil, err
	}
	baudrate, err := cmd.Flags().GetInt(flagBaudrate)
	if err != nil {
		return nil, nil, err
	}
	bitrate, err := cmd.Flags().GetInt(flagBitrate)
	if err != nil {
		return nil, nil, err
	}
	debug, err := cmd.Flags().GetBool(flagDebug)
	if err != nil {
		return nil, nil, err
	}

	port, err := canusb.OpenPort(portName, baudrate)
	if err != nil {
		return nil, nil, err
	}

	client := canusb.New(port,
		canusb.WithDebug(debug),
		canusb.WithOnMessage(func(msg string) { log.Println(msg) }),
	)

	err = retry.Do(
		func() error { return client.Init(canusb.DefaultInit(bitrate)) },
		retry.Attempts(3),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		port.Close()
		return nil, nil, fmt.Errorf("adapter bring-up failed: %w", err)
	}
	return client, port, nil
}
