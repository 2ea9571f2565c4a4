package canusb

import "fmt"

// DefaultAcceptanceMask accepts every identifier.
const DefaultAcceptanceMask = 0xFFFFFFFF

// InitConfig selects the channel parameters programmed during Init.
type InitConfig struct {
	// Bitrate is one of the predefined rates. When zero, BTR is programmed
	// instead via the s command.
	Bitrate int
	// BTR is the raw BTR0/BTR1 register pair, used when Bitrate is zero.
	BTR uint16
	// AcceptanceMask and AcceptanceCode program the hardware filter.
	AcceptanceMask uint32
	AcceptanceCode uint32
}

// DefaultInit returns an InitConfig for the given predefined bitrate with
// the filter wide open.
func DefaultInit(bitrate int) InitConfig {
	return InitConfig{Bitrate: bitrate, AcceptanceMask: DefaultAcceptanceMask}
}

// Init brings the adapter to a known, open state: close the channel, program
// the bitrate, the acceptance mask, the acceptance code, then open the
// channel. Every step must reply with the terminator byte; the first step
// that does not aborts the whole sequence with *InitError. No rollback is
// attempted: after a rejected command the adapter's internal state is
// unspecified and only a full external reset restores it.
func (c *Client) Init(cfg InitConfig) error {
	steps := []struct {
		name  string
		issue func() ([]byte, error)
	}{
		{"close_channel", func() ([]byte, error) {
			return c.Issue(CloseChannel)
		}},
		{"set_bitrate", func() ([]byte, error) {
			if cfg.Bitrate == 0 {
				return c.Issue(SetBTR, uint64(cfg.BTR))
			}
			code, ok := BitrateCode(cfg.Bitrate)
			if !ok {
				return nil, fmt.Errorf("unsupported bitrate %d", cfg.Bitrate)
			}
			return c.Issue(SetBitrate, code)
		}},
		{"acceptance_mask", func() ([]byte, error) {
			return c.Issue(SetAcceptanceMask, uint64(cfg.AcceptanceMask))
		}},
		{"acceptance_code", func() ([]byte, error) {
			return c.Issue(SetAcceptanceCode, uint64(cfg.AcceptanceCode))
		}},
		{"open_channel", func() ([]byte, error) {
			return c.Issue(OpenChannel)
		}},
	}

	for i, step := range steps {
		resp, err := step.issue()
		if err != nil {
			return fmt.Errorf("init step %d (%s): %w", i, step.name, err)
		}
		if resp[0] != CR {
			return &InitError{Step: i, Name: step.name, Got: resp[0]}
		}
	}
	return nil
}
