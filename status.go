package canusb

import "errors"

const (
	// CR terminates every request and is the success reply of setup commands.
	CR = 0x0D
	// Bell is the adapter's command-error reply.
	Bell = 0x07
)

// Status is the classified verdict of a command reply byte.
type Status int

const (
	StatusUnknown Status = iota
	StatusOk
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// ClassifyStatus maps a reply status byte to a verdict: BELL means the
// adapter rejected the command, 'Z' and 'z' acknowledge a transmit, anything
// else is unknown. CR, the success reply of the setup commands, classifies
// as unknown here; the init sequencer compares the raw byte instead.
func ClassifyStatus(b byte) Status {
	switch b {
	case Bell:
		return StatusError
	case 'Z', 'z':
		return StatusOk
	default:
		return StatusUnknown
	}
}

// StatusFlags is the SJA1000 condition bitmap carried by the F reply.
//
// Bit 0 CAN receive FIFO queue full
// Bit 1 CAN transmit FIFO queue full
// Bit 2 Error warning (EI)
// Bit 3 Data Overrun (DOI)
// Bit 4 Not used
// Bit 5 Error Passive (EPI)
// Bit 6 Arbitration Lost (ALI)
// Bit 7 Bus Error (BEI)
type StatusFlags uint8

const (
	FlagRxFifoFull StatusFlags = 1 << iota
	FlagTxFifoFull
	FlagErrorWarning
	FlagDataOverrun
	flagUnused
	FlagErrorPassive
	FlagArbitrationLost
	FlagBusError
)

var (
	ErrRxFifoFull      = errors.New("CAN receive FIFO queue full")
	ErrTxFifoFull      = errors.New("CAN transmit FIFO queue full")
	ErrErrorWarning    = errors.New("error warning (EI)")
	ErrDataOverrun     = errors.New("data overrun (DOI)")
	ErrErrorPassive    = errors.New("error passive (EPI)")
	ErrArbitrationLost = errors.New("arbitration lost (ALI)")
	ErrBusError        = errors.New("bus error (BEI)")
)

// Err reports the most severe condition set in the bitmap, or nil.
func (f StatusFlags) Err() error {
	switch {
	case f&FlagBusError != 0:
		return ErrBusError
	case f&FlagArbitrationLost != 0:
		return ErrArbitrationLost
	case f&FlagErrorPassive != 0:
		return ErrErrorPassive
	case f&FlagDataOverrun != 0:
		return ErrDataOverrun
	case f&FlagErrorWarning != 0:
		return ErrErrorWarning
	case f&FlagTxFifoFull != 0:
		return ErrTxFifoFull
	case f&FlagRxFifoFull != 0:
		return ErrRxFifoFull
	}
	return nil
}
